package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"relint/internal/core/config"
	"relint/internal/core/pipeline"
	"relint/internal/core/watcher"
	"relint/internal/host"
	"relint/internal/shared/version"
)

var (
	configPath   = flag.String("config", "./relint.toml", "Path to config file")
	sourceRoots  = flag.String("src", ".", "Comma-separated source roots")
	interfaceDir = flag.String("interfaces", "elm-stuff/interfaces", "Directory holding compiled dependency interfaces")
	once         = flag.Bool("once", false, "Run a single analysis pass and exit")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	metricsAddr  = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (empty disables)")
	otlpEndpoint = flag.String("otlp-endpoint", "", "Export traces to this OTLP gRPC endpoint (empty disables)")
	showVersion  = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("relint v%s\n", version.Version)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *otlpEndpoint != "" {
		shutdown, err := setupTracing(ctx, *otlpEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", "error", err)
			os.Exit(1)
		}
		defer shutdown()
	}

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	// The watcher and the context loader need the exclude/extension
	// settings before the session configuration round-trips through
	// the pipeline, so read the config file directly here as well.
	cfg := config.Default()
	if data, err := os.ReadFile(*configPath); err == nil {
		parsed, advisories := config.Parse(string(data))
		cfg = parsed
		for _, message := range advisories {
			slog.Warn("configuration advisory", "message", message)
		}
	}

	roots := splitRoots(*sourceRoots)

	contextLoader := &host.DiskContextLoader{
		Roots:        roots,
		InterfaceDir: *interfaceDir,
		ConfigPath:   *configPath,
		Extensions:   cfg.Extensions,
		ExcludeDirs:  cfg.Exclude.Dirs,
	}
	sourceLoader := &host.DiskSourceLoader{Decoder: host.SurfaceDecoder{}}
	dependencyLoader := &host.DiskDependencyLoader{Decoder: host.InterfaceDecoder{}}
	applier := &host.DiskFixApplier{}
	emitter := host.NewJSONEmitter(os.Stdout)

	pipe := pipeline.New(pipeline.Collaborators{
		Contexts:     contextLoader,
		Dependencies: dependencyLoader,
		Sources:      sourceLoader,
		Checks:       pipeline.DefaultCheckRunner(),
		Fixes:        pipeline.DefaultFixRegistry(),
		Applier:      applier,
		Host:         emitter,
	})
	contextLoader.Respond = pipe.OnContextLoaded
	sourceLoader.Respond = pipe.OnSourceResult
	dependencyLoader.Respond = pipe.OnDependencyResult
	applier.Respond = pipe.OnFixerEvent

	service := pipeline.NewService(pipe)

	if err := service.Reset(ctx); err != nil {
		slog.Error("failed to start analysis", "error", err)
		os.Exit(1)
	}

	if *once {
		if err := service.WaitIdle(ctx); err != nil {
			slog.Error("analysis interrupted", "error", err)
			os.Exit(1)
		}
		snapshot, err := service.Snapshot(ctx)
		if err == nil {
			slog.Info("analysis complete",
				"diagnostics", len(snapshot.Diagnostics),
				"modules", len(snapshot.GraphNodes))
		}
		return
	}

	w, err := watcher.New(cfg, func(paths []string) {
		if err := service.NotifyChanged(context.Background(), paths); err != nil {
			slog.Warn("failed to schedule reanalysis", "error", err)
		}
	})
	if err != nil {
		slog.Error("failed to create watcher", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Watch(roots); err != nil {
		slog.Error("failed to watch source roots", "error", err)
		os.Exit(1)
	}

	commands := &host.CommandReader{Service: service}
	go func() {
		if err := commands.Run(ctx, os.Stdin); err != nil && ctx.Err() == nil {
			slog.Warn("command reader stopped", "error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}

func splitRoots(raw string) []string {
	parts := strings.Split(raw, ",")
	roots := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			roots = append(roots, trimmed)
		}
	}
	if len(roots) == 0 {
		roots = []string{"."}
	}
	return roots
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("metrics server stopped", "error", err)
	}
}
