// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Set
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKey, "  sk-abc123  \n")
				writeFile(t, dir, AnthropicKey, "sk-ant-xyz\n")
				return dir
			},
			want: Set{OpenAIKey: "sk-abc123", AnthropicKey: "sk-ant-xyz"},
		},
		{
			name: "missing directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Set{},
		},
		{
			name: "skips empty files, dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKey, "sk-valid")
				writeFile(t, dir, "empty-key", "   \n\t")
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Set{OpenAIKey: "sk-valid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFileIsLogged(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, OpenAIKey, "sk-good")
	badPath := filepath.Join(dir, AnthropicKey)
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	var buf bytes.Buffer
	got, err := Load(dir, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	assert.Equal(t, Set{OpenAIKey: "sk-good"}, got)
	assert.Contains(t, buf.String(), "secret_unreadable")
}

func TestResolve(t *testing.T) {
	t.Setenv("PAPER_INTEL_TEST_KEY", " from-env ")
	s := Set{OpenAIKey: "from-file"}

	tests := []struct {
		name     string
		explicit string
		key      string
		env      string
		want     string
	}{
		{"explicit wins", "from-config", OpenAIKey, "PAPER_INTEL_TEST_KEY", "from-config"},
		{"secret file next", "", OpenAIKey, "PAPER_INTEL_TEST_KEY", "from-file"},
		{"environment last", "", AnthropicKey, "PAPER_INTEL_TEST_KEY", "from-env"},
		{"nothing set", "", AnthropicKey, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Resolve(tt.explicit, tt.key, tt.env))
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
