package main

import (
	"context"
	"fmt"
	"time"

	"github.com/myspotipal/spotipal/pkg/agent"
	"github.com/myspotipal/spotipal/pkg/config"
	"github.com/myspotipal/spotipal/pkg/logger"
	"github.com/myspotipal/spotipal/pkg/providers"
	"github.com/myspotipal/spotipal/pkg/recommender"
	"github.com/myspotipal/spotipal/pkg/session"
	"github.com/myspotipal/spotipal/pkg/spotify"
	"github.com/myspotipal/spotipal/pkg/tools"
)

// app holds the wired assistant stack shared by the serve and chat
// commands.
type app struct {
	cfg          *config.Config
	orchestrator *agent.Orchestrator
	store        session.Store
	sweeper      *session.Sweeper
}

func buildApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	provider, err := providers.CreateProvider(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Spotify.RefreshToken == "" && cfg.Spotify.AccessToken == "" {
		return nil, fmt.Errorf("spotify.refresh_token is not configured")
	}

	client := spotify.NewClient(ctx, spotify.Credentials{
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		RefreshToken: cfg.Spotify.RefreshToken,
		AccessToken:  cfg.Spotify.AccessToken,
	},
		spotify.WithBaseURL(cfg.Spotify.BaseURL),
		spotify.WithRequestsPerSecond(cfg.Spotify.RequestsPerSecond),
	)

	resolver := recommender.NewSeedResolver(client)
	analyzer := recommender.NewAnalyzer(provider, resolver, cfg.LLM.Model,
		recommender.WithAverageSongDuration(cfg.Recommender.AverageSongDurationMS),
		recommender.WithDefaultLimit(cfg.Recommender.DefaultLimit),
	)

	registry := tools.NewRegistry()
	tools.RegisterAll(registry, tools.Services{
		Library:   client,
		Catalog:   client,
		Playlists: client,
		Analyzer:  analyzer,
	})

	var store session.Store
	if cfg.Session.Path != "" {
		store, err = session.NewSQLiteStore(cfg.Session.Path)
		if err != nil {
			return nil, fmt.Errorf("opening session store: %w", err)
		}
		logger.InfoCF("main", "Session store opened", map[string]any{"path": cfg.Session.Path})
	} else {
		store = session.NewMemoryStore()
		logger.InfoCF("main", "Using in-memory session store", nil)
	}

	sweeper := session.NewSweeper(store,
		time.Duration(cfg.Session.TTLHours)*time.Hour, cfg.Session.SweepSchedule)

	orchestrator := agent.New(provider, registry, store, cfg.LLM.Model,
		agent.WithMaxToolIterations(cfg.Agent.MaxToolIterations),
		agent.WithChatOptions(map[string]any{
			"max_tokens":  cfg.LLM.MaxTokens,
			"temperature": cfg.LLM.Temperature,
		}),
	)

	return &app{
		cfg:          cfg,
		orchestrator: orchestrator,
		store:        store,
		sweeper:      sweeper,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		logger.WarnCF("main", "Failed to close session store", map[string]any{"error": err.Error()})
	}
}
