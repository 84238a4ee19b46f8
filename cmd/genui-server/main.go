// Command genui-server serves schema-driven forms over HTTP: short form
// pages, session configuration, submission collection, and polling.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-genui/pkg/genapi"
	"github.com/goliatone/go-genui/pkg/model"
	"github.com/goliatone/go-genui/pkg/openapi"
	"github.com/goliatone/go-genui/pkg/render"
	"github.com/goliatone/go-genui/pkg/renderers/vanilla"
	"github.com/goliatone/go-genui/pkg/store"
	"github.com/goliatone/go-genui/pkg/uihints"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "listen address")
		generatorURL = flag.String("generator", "", "base URL of the external schema generator (optional)")
		openapiSpec  = flag.String("openapi", "", "OpenAPI document (path or URL) to serve pre-generated schemas from (optional)")
		hintsDir     = flag.String("hints", "", "directory of UI hint overlay files (optional)")
		themePath    = flag.String("theme", "", "theme manifest file (optional)")
		themeVariant = flag.String("theme-variant", "", "theme variant name")
		sessionTTL   = flag.Duration("session-ttl", store.DefaultTTL, "session lifetime, 0 disables expiry")
		devLog       = flag.Bool("dev", false, "human-readable log output")
	)
	flag.Parse()

	logger, err := newLogger(*devLog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, serverConfig{
		generatorURL: *generatorURL,
		openapiSpec:  *openapiSpec,
		hintsDir:     *hintsDir,
		themePath:    *themePath,
		themeVariant: *themeVariant,
		sessionTTL:   *sessionTTL,
	}, logger)
	if err != nil {
		logger.Fatal("setup failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go srv.sweepLoop(ctx, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

type serverConfig struct {
	generatorURL string
	openapiSpec  string
	hintsDir     string
	themePath    string
	themeVariant string
	sessionTTL   time.Duration
}

func newServer(ctx context.Context, cfg serverConfig, logger *zap.Logger) (*server, error) {
	srv := &server{
		log:     logger,
		store:   store.New(store.WithTTL(cfg.sessionTTL)),
		hints:   uihints.NewStore(),
		schemas: map[string]model.FormSchema{},
	}

	if cfg.generatorURL != "" {
		backend, err := genapi.New(cfg.generatorURL)
		if err != nil {
			return nil, err
		}
		srv.backend = backend
	}

	if cfg.openapiSpec != "" {
		source, err := sourceFor(cfg.openapiSpec)
		if err != nil {
			return nil, err
		}
		doc, err := openapi.Load(ctx, source)
		if err != nil {
			return nil, err
		}
		schemas, err := openapi.FormSchemas(ctx, doc)
		if err != nil {
			return nil, err
		}
		srv.schemas = schemas
		logger.Info("loaded openapi forms", zap.Int("count", len(schemas)))
	}

	if cfg.hintsDir != "" {
		hints, err := uihints.LoadFS(os.DirFS(cfg.hintsDir))
		if err != nil {
			return nil, err
		}
		srv.hints = hints
	}

	if cfg.themePath != "" {
		manifest, err := render.LoadManifest(cfg.themePath)
		if err != nil {
			return nil, err
		}
		selector := render.NewStaticSelector(manifest)
		theme, err := render.ThemeConfig(selector, manifest.Name, cfg.themeVariant)
		if err != nil {
			return nil, err
		}
		srv.theme = theme
	}

	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	srv.renderer = renderer

	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	srv.registry = registry

	return srv, nil
}

func sourceFor(spec string) (openapi.Source, error) {
	if strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://") {
		return openapi.SourceFromURL(spec)
	}
	return openapi.SourceFromFile(spec), nil
}
