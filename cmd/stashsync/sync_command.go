package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"stashsync/internal/syncer"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sync <scene-id>",
		Short: "Resolve one scene and run the follow-up actions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := ctx.buildSyncer()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := s.SyncScene(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, result, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	return cmd
}

func printResult(cmd *cobra.Command, result syncer.Result, jsonOutput bool) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	if result.Skipped {
		fmt.Fprintf(out, "Scene %s skipped: %s\n", result.SceneID, result.Reason)
		return nil
	}

	rows := [][]string{
		{"Scene", result.SceneID},
		{"Status", string(result.Outcome.Status)},
	}
	if result.Outcome.ItemID != "" {
		rows = append(rows, []string{"Item", result.Outcome.ItemID})
	}
	if result.Outcome.ItemPath != "" {
		rows = append(rows, []string{"Item path", result.Outcome.ItemPath})
	}
	if result.Outcome.Strategy != "" {
		rows = append(rows, []string{"Strategy", result.Outcome.Strategy})
	}
	if result.Outcome.Term != "" {
		rows = append(rows, []string{"Term", result.Outcome.Term})
	}
	if len(result.Outcome.CandidateIDs) > 0 {
		rows = append(rows, []string{"Candidates", strings.Join(result.Outcome.CandidateIDs, ", ")})
	}
	if result.Outcome.Resolved() {
		rows = append(rows,
			[]string{"Scanned", yesNo(result.Scanned)},
			[]string{"Refreshed", yesNo(result.Refreshed)},
			[]string{"Cached", yesNo(result.Cached)})
	}
	if len(result.URLsAdded) > 0 {
		rows = append(rows, []string{"Links stored", strings.Join(result.URLsAdded, "\n")})
	}

	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
	return nil
}
