package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/myspotipal/spotipal/pkg/gateway"
	"github.com/myspotipal/spotipal/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				logger.SetLevel(logger.DEBUG)
			}
			return runServe(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	return cmd
}

func runServe(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := buildApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	go a.sweeper.Run(ctx)

	server := gateway.NewServer(gateway.Config{
		Host:  a.cfg.Gateway.Host,
		Port:  a.cfg.Gateway.Port,
		Token: a.cfg.Gateway.Token,
	}, a.orchestrator)

	if err := server.Start(); err != nil {
		return err
	}
	logger.InfoCF("main", "SpotiPal gateway running", map[string]any{
		"host":  a.cfg.Gateway.Host,
		"port":  a.cfg.Gateway.Port,
		"model": a.cfg.LLM.Model,
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.InfoCF("main", "Shutting down", map[string]any{"signal": s.String()})
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Stop(shutdownCtx)
}
