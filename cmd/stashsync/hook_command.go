package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"stashsync/internal/services/stash"
)

// hookOutput is the JSON the organizer expects back from a plugin.
type hookOutput struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

func newHookCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Run as an organizer plugin hook (reads payload from stdin)",
		Args:  cobra.NoArgs,
		// Config problems are reported through the hook output JSON, not
		// as a process failure before anything is written.
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := stash.DecodeHook(cmd.InOrStdin())
			if err != nil {
				return writeHookOutput(cmd, hookOutput{Error: err.Error()})
			}
			hook := payload.Args.HookContext

			switch {
			case !hook.IsSceneUpdate():
				return writeHookOutput(cmd, hookOutput{Output: "ignored: not a scene update hook"})
			case hook.IsURLOnlyUpdate():
				// Storing links fires this hook again; reacting to it
				// would loop forever.
				return writeHookOutput(cmd, hookOutput{Output: "ignored: url-only update"})
			case hook.SceneID() == "":
				return writeHookOutput(cmd, hookOutput{Error: "hook payload carries no scene id"})
			}

			s, cleanup, err := ctx.buildSyncer()
			if err != nil {
				return writeHookOutput(cmd, hookOutput{Error: err.Error()})
			}
			defer cleanup()

			result, err := s.SyncScene(cmd.Context(), hook.SceneID())
			if err != nil {
				return writeHookOutput(cmd, hookOutput{Error: err.Error()})
			}
			if result.Skipped {
				return writeHookOutput(cmd, hookOutput{Output: "skipped: " + result.Reason})
			}
			return writeHookOutput(cmd, hookOutput{
				Output: fmt.Sprintf("scene %s: %s", result.SceneID, result.Outcome.Status),
			})
		},
	}
}

// writeHookOutput always reports success to the organizer; a failed
// sync must not fail the scene update that triggered it.
func writeHookOutput(cmd *cobra.Command, out hookOutput) error {
	return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
}
