// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file holds one secret: the filename is the key name and the trimmed
// contents are the value.
//
// Recognised key files: openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Key file names.
const (
	OpenAIKey    = "openai-api-key"
	AnthropicKey = "anthropic-api-key"
)

// Set maps key names to secret values.
type Set map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty Set. Unreadable files are logged and skipped.
func Load(dir string, log *slog.Logger) (Set, error) {
	if log == nil {
		log = slog.Default()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("secret_unreadable", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}

// Resolve returns the first non-empty value among explicit, the secret
// stored under key, and the environment variable env.
func (s Set) Resolve(explicit, key, env string) string {
	if explicit != "" {
		return explicit
	}
	if v := s[key]; v != "" {
		return v
	}
	if env == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(env))
}
