package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/jlekram/modelgate/internal/app"
	"github.com/jlekram/modelgate/internal/catalog"
	"github.com/jlekram/modelgate/internal/config"
	"github.com/jlekram/modelgate/internal/filter"
	"github.com/jlekram/modelgate/internal/relay"
	"github.com/jlekram/modelgate/internal/storage"
	"github.com/jlekram/modelgate/internal/transport/http/handler"
	"github.com/jlekram/modelgate/internal/upstream"
	"github.com/jlekram/modelgate/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := setupLogger(cfg.LogLevel)

	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification DISABLED for upstream connections")
	}

	// Filter set is loaded once here and immutable afterwards. A configured
	// but unloadable file degrades to an empty allow-list, not a crash.
	fset := loadFilterSet(cfg, logger)

	var modelCache *ristretto.Cache[string, catalog.List]
	if cfg.ModelCacheTTL > 0 {
		modelCache, err = ristretto.NewCache(&ristretto.Config[string, catalog.List]{
			NumCounters: 1e4,
			MaxCost:     1 << 24,
			BufferItems: 64,
		})
		if err != nil {
			log.Fatal(err)
		}
		logger.Info("model list cache enabled", "ttl", cfg.ModelCacheTTL)
	}

	var store storage.Storage
	if cfg.RequestLogDB != "" {
		sqlStore, err := storage.NewSQLite(cfg.RequestLogDB)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlStore.Close()
		store = sqlStore
		logger.Info("request logging enabled", "db", cfg.RequestLogDB)
	}

	cat := catalog.New(upstream.NewClient(cfg), cfg.UpstreamBaseURL, fset, modelCache, cfg.ModelCacheTTL)
	fwd := relay.New(upstream.NewStreamingClient(cfg), cfg.UpstreamBaseURL)

	repo := handler.NewRepo(cat, fwd, store, logger)
	router := app.NewRouter(repo, &app.RouterOptions{Logger: logger})

	printStartupBanner(cfg)

	srv := app.NewServer(cfg, router, logger)
	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
}

// loadFilterSet resolves the model allow-list once before serving requests.
func loadFilterSet(cfg *config.Config, logger *slog.Logger) *filter.Set {
	if cfg.ModelFilterFile == "" {
		return nil
	}

	fset, err := filter.Load(cfg.ModelFilterFile)
	if err != nil {
		logger.Warn("model filter file unreadable, no models will be listed",
			"path", cfg.ModelFilterFile,
			"error", err,
		)
		return filter.Empty()
	}
	if fset.Len() == 0 {
		logger.Warn("model filter file is empty, no models will be listed",
			"path", cfg.ModelFilterFile,
		)
	} else {
		logger.Info("model filter loaded",
			"path", cfg.ModelFilterFile,
			"entries", fset.Len(),
		)
	}
	return fset
}

func printStartupBanner(cfg *config.Config) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "modelgate %s - OpenAI-compatible proxy for OpenRouter\n", version.Version)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "Models:      http://localhost%s/v1/models\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Completions: http://localhost%s/v1/chat/completions\n", cfg.ServerPort)
	fmt.Fprintf(os.Stderr, "Upstream:    %s\n", cfg.UpstreamBaseURL)
	fmt.Fprintln(os.Stderr, "════════════════════════════════════════════════")
	fmt.Fprintf(os.Stderr, "\n")
}
