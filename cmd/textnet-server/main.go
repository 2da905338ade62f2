// Command textnet-server serves the co-occurrence network API.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dd0wney/cluso-textnet/pkg/api"
	"github.com/dd0wney/cluso-textnet/pkg/auth"
	"github.com/dd0wney/cluso-textnet/pkg/config"
	"github.com/dd0wney/cluso-textnet/pkg/export"
	"github.com/dd0wney/cluso-textnet/pkg/logging"
	"github.com/dd0wney/cluso-textnet/pkg/metrics"
	"github.com/dd0wney/cluso-textnet/pkg/server"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "textnet-server: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("textnet-server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	showVersion := fs.Bool("version", false, "Print version and exit")
	issueToken := fs.String("issue-token", "", "Print a bearer token for this subject and exit")
	scopes := fs.String("scopes", auth.ScopeAnalyze, "Comma-separated scopes for -issue-token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if *issueToken != "" {
		return printToken(stdout, cfg.Server, *issueToken, *scopes)
	}

	logger := logging.NewJSONLogger(stderr, cfg.LogLevel())
	logging.SetDefaultLogger(logger)
	registry := metrics.NewRegistry()

	sink, err := export.New(ctx, cfg.Export, stdout, logger)
	if err != nil {
		return fmt.Errorf("open %s sink: %w", cfg.Export.Kind, err)
	}
	defer sink.Close()

	srv, err := api.NewServer(cfg.Server, cfg.Pipeline,
		api.WithLogger(logger),
		api.WithMetrics(registry),
		api.WithSink(export.Instrument(sink, registry)),
		api.WithVersion(version))
	if err != nil {
		return err
	}

	gs := server.NewGracefulServer(cfg.Server.Addr, srv.Handler(), server.Options{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	})
	gs.SetConfigReloadFunc(func() error {
		next, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		logger.SetLevel(next.LogLevel())
		return srv.SetPipelineConfig(next.Pipeline)
	})

	logger.Info("textnet server starting",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr),
		logging.String("export", sink.Name()),
		logging.Int64("max_body_bytes", cfg.Server.MaxBodyBytes),
		logging.Duration("request_timeout", cfg.Server.RequestTimeout),
		logging.Bool("auth", cfg.Server.JWTSecret != ""))
	return gs.Run(ctx)
}

func printToken(w io.Writer, cfg config.ServerConfig, subject, scopeList string) error {
	if cfg.JWTSecret == "" {
		return fmt.Errorf("no JWT secret configured (set TEXTNET_JWT_SECRET)")
	}
	tm, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	var scopes []string
	for _, s := range strings.Split(scopeList, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	token, err := tm.Issue(subject, scopes...)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, token)
	return nil
}
