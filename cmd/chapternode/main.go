package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/chapternode/internal/cache"
	"github.com/mmcdole/chapternode/internal/catalog"
	"github.com/mmcdole/chapternode/internal/config"
	"github.com/mmcdole/chapternode/internal/feed"
	"github.com/mmcdole/chapternode/internal/library"
	"github.com/mmcdole/chapternode/internal/log"
	"github.com/mmcdole/chapternode/internal/service"
	"github.com/mmcdole/chapternode/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "chapternode",
	Short:         "Track what you read and discover what to read next",
	Long:          `A terminal reading tracker with a curated feed, AI teasers and book details.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chapternode %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")
	rootCmd.AddCommand(versionCmd, lookupCmd, cacheCmd, configCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything built from the config
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	cache   *cache.LookupStore
	lookup  *catalog.CachedLookup
	details *service.DetailsService
}

// setup loads config, logging and the catalog lookup chain
func setup() (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	store, err := cache.Open(cfg.CacheDir(), cache.WithTTL(cfg.Cache.TTL), cache.WithLogger(logger))
	if err != nil {
		logger.Warn("lookup cache unavailable, continuing in memory", "error", err)
		store, err = cache.Open("", cache.WithTTL(cfg.Cache.TTL), cache.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to open lookup cache: %w", err)
		}
	}

	client := catalog.NewClient(cfg.Catalog.BaseURL,
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithRateLimit(cfg.Catalog.RequestsPerSecond, cfg.Catalog.Burst),
		catalog.WithLogger(logger),
	)
	lookup := catalog.NewCachedLookup(client, store, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		cache:   store,
		lookup:  lookup,
		details: service.NewDetailsService(lookup, logger),
	}, nil
}

func runTUI(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("chapternode needs an interactive terminal; try `chapternode lookup` for scripted use")
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.cache.Close()

	a.logger.Info("starting chapternode", "version", Version)

	store := library.New(
		library.WithBooks(library.DefaultSeed()...),
		library.WithLogger(a.logger),
	)
	recs := feed.New(
		feed.WithDelay(a.cfg.Feed.RefreshDelay),
		feed.WithLogger(a.logger),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(ctx, tui.Services{
		Store:   store,
		Tracker: service.NewTrackerService(store, a.logger),
		Details: a.details,
		Feed:    recs,
	}, a.cfg.Reveal, a.logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}
