package main

import (
	"errors"

	"github.com/spf13/cobra"

	"stashsync/internal/resolve"
	"stashsync/internal/syncer"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		pathFlag   string
		titleFlag  string
		dateFlag   string
		performers []string
	)

	cmd := &cobra.Command{
		Use:   "resolve [scene-id]",
		Short: "Resolve a scene, or an ad-hoc record, without running any actions",
		Long: "Resolve runs the matching engine only: no point scan, no refresh, no\n" +
			"links or cache writes. Pass a scene id to resolve a stored scene, or\n" +
			"describe a record directly with --path/--title/--date/--performer.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adHoc := pathFlag != "" || titleFlag != "" || dateFlag != "" || len(performers) > 0

			switch {
			case len(args) == 1 && adHoc:
				return errors.New("pass either a scene id or record flags, not both")
			case len(args) == 0 && !adHoc:
				return errors.New("a scene id or at least one of --path/--title/--date/--performer is required")
			}

			var result syncer.Result
			if adHoc {
				resolver, err := ctx.buildResolver()
				if err != nil {
					return err
				}
				rec := resolve.SourceRecord{
					FilePath:    pathFlag,
					Title:       titleFlag,
					ReleaseDate: dateFlag,
					Performers:  performers,
				}
				result = syncer.Result{Outcome: resolver.Resolve(cmd.Context(), rec)}
			} else {
				s, cleanup, err := ctx.buildSyncer()
				if err != nil {
					return err
				}
				defer cleanup()
				result, err = s.ResolveScene(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			}
			return printResult(cmd, result, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")
	cmd.Flags().StringVar(&pathFlag, "path", "", "File path of an ad-hoc record")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Title of an ad-hoc record")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Release date (YYYY-MM-DD) of an ad-hoc record")
	cmd.Flags().StringArrayVar(&performers, "performer", nil, "Performer name of an ad-hoc record (repeatable)")
	return cmd
}
