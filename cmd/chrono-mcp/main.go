package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/upamune/chrono-mcp/internal/profile"
	"github.com/upamune/chrono-mcp/server"
	"github.com/upamune/chrono-mcp/internal/observability"
	"github.com/upamune/chrono-mcp/server/router/mcp"
	"github.com/upamune/chrono-mcp/server/service/parse"
)

var version = "0.1.0"

var (
	flagMode  string
	flagAddr  string
	flagPort  int
	flagStdio bool
)

var rootCmd = &cobra.Command{
	Use:   "chrono-mcp",
	Short: "MCP server for natural-language date/time parsing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := profile.FromEnv(version)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("mode") {
			p.Mode = flagMode
		}
		if cmd.Flags().Changed("addr") {
			p.Addr = flagAddr
		}
		if cmd.Flags().Changed("port") {
			p.Port = flagPort
		}
		if err := p.Validate(); err != nil {
			return err
		}

		logger := newLogger(p)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if flagStdio {
			return runStdio(ctx, p, logger)
		}
		return server.NewServer(p, logger).Start(ctx)
	},
}

// runStdio serves MCP over stdin/stdout for clients that spawn the
// server as a subprocess. Logs go to stderr so they never interleave
// with the protocol stream.
func runStdio(ctx context.Context, p *profile.Profile, logger *slog.Logger) error {
	svc := parse.NewService(parse.WithLogger(logger))
	registry := mcp.NewRegistry()
	registry.Register(mcp.NewParseTool(svc))

	handler := mcp.NewHandler(registry, logger, observability.NewMetrics(), "chrono-mcp", p.Version, p.MaxConcurrentCalls)
	if p.DefaultTimezoneOffset != nil {
		handler.SetArgumentDefault("timezone_offset", *p.DefaultTimezoneOffset)
	}
	return handler.ServeStdio(ctx, os.Stdin, os.Stdout)
}

func newLogger(p *profile.Profile) *slog.Logger {
	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.Flags().StringVar(&flagMode, "mode", "dev", `server mode, "dev" or "prod"`)
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "bind address")
	rootCmd.Flags().IntVar(&flagPort, "port", 8230, "bind port")
	rootCmd.Flags().BoolVar(&flagStdio, "stdio", false, "serve MCP over stdin/stdout instead of HTTP")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
