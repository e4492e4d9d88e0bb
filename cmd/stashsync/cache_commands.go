package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and edit the scene-to-item mapping cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheRemoveCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remembered mappings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache(nil)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Cache is empty")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.SceneID,
					entry.ItemID,
					entry.ResolvedAt.Local().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Scene", "Item", "Resolved"}, rows))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every remembered mapping",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("pass --yes to confirm clearing the cache")
			}
			store, err := ctx.openCache(nil)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List()
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if err := store.Remove(entry.SceneID); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d mapping(s)\n", len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the clear")
	return cmd
}

func newCacheRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <scene-id>",
		Short: "Forget a scene's mapping so the next sync re-resolves it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache(nil)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed mapping for scene %s\n", args[0])
			return nil
		},
	}
}
