// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-intel/internal/arxiv"
	"github.com/pdiddy/paper-intel/internal/chunkcache"
	"github.com/pdiddy/paper-intel/internal/container"
	"github.com/pdiddy/paper-intel/internal/convert"
	"github.com/pdiddy/paper-intel/internal/embed"
	"github.com/pdiddy/paper-intel/internal/httputil"
	"github.com/pdiddy/paper-intel/internal/logging"
	"github.com/pdiddy/paper-intel/internal/oracle"
	"github.com/pdiddy/paper-intel/internal/paper"
	"github.com/pdiddy/paper-intel/pkg/types"
)

// app holds the wired service and what must be released with it.
type app struct {
	cfg     types.Config
	log     *slog.Logger
	service *paper.Service
	cache   chunkcache.Cache
}

func (a *app) Close() error { return a.cache.Close() }

// newApp loads configuration and wires every collaborator of the paper
// service. The container runtime and converter image are checked here so
// a missing image fails at startup rather than on the first request.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, err
	}

	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		return nil, err
	}
	converter, err := convert.NewMarkitdownConverter(ctx, rt, cfg.Convert.Image)
	if err != nil {
		return nil, err
	}

	client := arxiv.NewClient(cfg.HTTP)
	docs := &arxiv.DocumentSource{Client: client, Converter: converter}

	httpClient := httputil.NewClient(cfg.HTTP.Timeout)
	var completer oracle.Completer
	switch cfg.Oracle.Backend {
	case types.OracleClaude:
		completer = oracle.NewClaudeCompleter(cfg.Oracle, httpClient)
	default:
		completer = oracle.NewOpenAICompleter(cfg.Oracle, httpClient)
	}
	judge := oracle.NewJudge(completer, cfg.Retrieval.ExtractMaxChars, log)

	cache, err := chunkcache.New(cfg.Cache)
	if err != nil {
		return nil, err
	}

	svc, err := paper.New(paper.Deps{
		Abstracts: client,
		Documents: docs,
		Search:    client,
		Embedder:  embed.NewOpenAI(cfg.Embedding, httpClient),
		Oracle:    judge,
		Cache:     cache,
		Log:       log,
	}, cfg.Retrieval, cfg.Search)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("wiring paper service: %w", err)
	}

	log.Debug("paper service ready",
		"runtime", rt.Name(),
		"oracle", cfg.Oracle.Backend,
		"model", cfg.Oracle.Model,
		"cache", cfg.Cache.Backend,
	)
	return &app{cfg: cfg, log: log, service: svc, cache: cache}, nil
}
