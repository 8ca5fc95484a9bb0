package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mmcdole/chapternode/internal/cache"
	"github.com/mmcdole/chapternode/internal/config"
	"github.com/mmcdole/chapternode/internal/details"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/spf13/cobra"
)

var (
	lookupTitle   string
	lookupAuthor  string
	lookupRefresh bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up extended details for a book",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.cache.Close()

		if lookupRefresh {
			a.lookup.Forget(lookupTitle, lookupAuthor)
		}

		meta, err := a.lookup.Lookup(cmd.Context(), lookupTitle, lookupAuthor)
		out := cmd.OutOrStdout()
		switch {
		case errors.Is(err, domain.ErrNoMatch):
			fmt.Fprintln(out, details.NotFoundMessage)
			return nil
		case errors.Is(err, domain.ErrSourceUnreachable):
			return errors.New(details.FailedMessage)
		case err != nil:
			return err
		}

		fmt.Fprintf(out, "%s by %s\n\n", lookupTitle, lookupAuthor)
		fmt.Fprintf(out, "Pages:     %d\n", meta.PageCount)
		fmt.Fprintf(out, "Published: %s\n", orDash(meta.Year))
		fmt.Fprintf(out, "Category:  %s\n", orDash(meta.Category))
		fmt.Fprintf(out, "Rating:    %s\n\n", orDash(meta.FormattedRating()))
		fmt.Fprintln(out, meta.Description)
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the lookup cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached lookups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		store, err := cache.Open(cfg.CacheDir())
		if err != nil {
			return fmt.Errorf("failed to open lookup cache: %w", err)
		}
		defer store.Close()

		n := store.Len()
		store.InvalidateAll()
		out := cmd.OutOrStdout()
		if !store.Persistent() {
			fmt.Fprintln(out, "No cache directory configured; nothing on disk to clear")
			return nil
		}
		fmt.Fprintf(out, "Cleared %d cached lookups from %s\n", n, cfg.CacheDir())
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveConfig(config.DefaultConfig(), configFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Config written")
		return nil
	},
}

func init() {
	lookupCmd.Flags().StringVar(&lookupTitle, "title", "", "book title")
	lookupCmd.Flags().StringVar(&lookupAuthor, "author", "", "book author")
	lookupCmd.Flags().BoolVar(&lookupRefresh, "refresh", false, "bypass the cached response")
	_ = lookupCmd.MarkFlagRequired("title")
	_ = lookupCmd.MarkFlagRequired("author")

	cacheCmd.AddCommand(cacheClearCmd)
	configCmd.AddCommand(configInitCmd)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
