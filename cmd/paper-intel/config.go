// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-intel/internal/secrets"
	"github.com/pdiddy/paper-intel/pkg/types"
)

// setDefaults registers every configuration key with its default so that
// environment overrides apply to keys absent from the config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)

	v.SetDefault("oracle.backend", string(d.Oracle.Backend))
	v.SetDefault("oracle.model", d.Oracle.Model)
	v.SetDefault("oracle.api_key", "")
	v.SetDefault("oracle.base_url", "")
	v.SetDefault("oracle.temperature", d.Oracle.Temperature)
	v.SetDefault("oracle.max_tokens", d.Oracle.MaxTokens)
	v.SetDefault("oracle.requests_per_second", d.Oracle.RequestsPerSecond)

	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.base_url", "")

	v.SetDefault("retrieval.max_words", d.Retrieval.MaxWords)
	v.SetDefault("retrieval.prefilter_k", d.Retrieval.PrefilterK)
	v.SetDefault("retrieval.select_k", d.Retrieval.SelectK)
	v.SetDefault("retrieval.display_scale", d.Retrieval.DisplayScale)
	v.SetDefault("retrieval.chat_top_k", d.Retrieval.ChatTopK)
	v.SetDefault("retrieval.extract_max_chars", d.Retrieval.ExtractMaxChars)

	v.SetDefault("search.max_results", d.Search.MaxResults)

	v.SetDefault("cache.backend", string(d.Cache.Backend))
	v.SetDefault("cache.size", d.Cache.Size)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.sqlite_dsn", d.Cache.SQLiteDSN)

	v.SetDefault("convert.image", d.Convert.Image)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// loadConfig decodes v into a Config, fills API keys from the secrets
// set and the environment, and validates the result.
func loadConfig(v *viper.Viper, s secrets.Set) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}

	switch cfg.Oracle.Backend {
	case types.OracleClaude:
		cfg.Oracle.APIKey = s.Resolve(cfg.Oracle.APIKey, secrets.AnthropicKey, "ANTHROPIC_API_KEY")
	default:
		cfg.Oracle.APIKey = s.Resolve(cfg.Oracle.APIKey, secrets.OpenAIKey, "OPENAI_API_KEY")
	}
	cfg.Embedding.APIKey = s.Resolve(cfg.Embedding.APIKey, secrets.OpenAIKey, "OPENAI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// redacted returns cfg with API keys masked for display.
func redacted(cfg types.Config) types.Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}
	cfg.Oracle.APIKey = mask(cfg.Oracle.APIKey)
	cfg.Embedding.APIKey = mask(cfg.Embedding.APIKey)
	return cfg
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Config prints the configuration paper-intel would run with after merging
defaults, the config file, PAPER_INTEL_* environment variables and
secrets. API keys are masked. YAML unless --json is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
		if err != nil {
			return err
		}
		format := outputFormat(cmd)
		if format == formatText {
			format = formatYAML
		}
		return writeResult(cmd.OutOrStdout(), format, redacted(cfg), nil)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
