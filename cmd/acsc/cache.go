package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"acsc/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the library cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "List the cached libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cacheFor(cmd, "print")
			if err != nil {
				return err
			}
			if err := c.Load(cmd.Context()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			c.Print(cmd.OutOrStdout())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := cacheFor(cmd, "clear")
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", c.Dir())
			return nil
		},
	})
	return cmd
}

// cacheFor opens the cache a cache subcommand works on.
func cacheFor(cmd *cobra.Command, action string) (*cache.Cache, error) {
	if _, err := useColor(cmd); err != nil {
		return nil, err
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(cmd, wd)
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enable {
		return nil, fmt.Errorf("attempting to %s cache, but %w", action, cache.ErrDisabled)
	}
	return openCache(cfg)
}
