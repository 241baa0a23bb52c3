package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/36node/store-cli/internal/cache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Aliases: []string{"ch"},
		Short:   "Manage the lookup cache",
		Long:    "Product and reply lookups are cached for name resolution. STORE_CACHE_REDIS_URL moves the cache to Redis; STORE_NO_CACHE turns it off.",
	}

	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCachePathCmd())
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached data",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			backend, err := cache.Open()
			if err != nil {
				return fmt.Errorf("failed to open cache: %w", err)
			}
			if backend == nil {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cache is disabled")
				return nil
			}
			if c, ok := backend.(io.Closer); ok {
				defer func() { _ = c.Close() }()
			}
			clearer, ok := backend.(cache.Clearer)
			if !ok {
				return fmt.Errorf("cache backend %T cannot be cleared", backend)
			}
			clearer.ClearAll(cmdContext(cmd))

			where := "redis"
			if fb, ok := backend.(*cache.FileBackend); ok {
				where = fb.Dir
			}
			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"cleared": true, "location": where})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", where)
			return nil
		}),
	}
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the cache directory path",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			dir := os.Getenv("STORE_CACHE_DIR")
			if dir == "" {
				var err error
				if dir, err = cache.DefaultDir(); err != nil {
					return fmt.Errorf("could not determine cache directory: %w", err)
				}
			}

			if isJSON(cmd) {
				return printJSON(cmd, map[string]any{"path": dir})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), dir)

			entries, err := os.ReadDir(dir)
			if err != nil {
				return nil // directory might not exist yet
			}
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s (%d bytes)\n", e.Name(), info.Size())
			}
			return nil
		}),
	}
}
