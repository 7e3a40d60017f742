package cli

import (
	"github.com/kac-dev/kac/internal/app"
	"github.com/spf13/cobra"
)

func newNotesCmd(d deps, f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "notes <version>",
		Aliases: []string{"extract"},
		Short:   "Print the release notes of one version",
		Long: `Print the changes of one version as markdown.

The output is suitable for the release page of the repository host and is
written to stdout. The "v" prefix of the version is optional, and
"unreleased" selects the pending entry.`,
		Example: `  # Notes for a release
  kac notes 1.2.0
  kac notes v1.2.0

  # Notes for the pending entry
  kac notes unreleased`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, opts, done, err := prepare(cmd, d, f)
			if err != nil {
				return err
			}
			defer done()

			_, err = app.Notes(env, opts, args[0])
			return err
		},
	}
}

func newCheckCmd(d deps, f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the changelog is already formatted",
		Long: `Compare the changelog with what a plain "kac" run would write.

Exits with 0 when the file is up to date and 1 otherwise. Nothing is
written, which makes the command suitable for CI.`,
		Example: `  kac check
  kac check --format=markdownlint`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, opts, done, err := prepare(cmd, d, f)
			if err != nil {
				return err
			}
			defer done()

			_, err = app.Check(cmd.Context(), env, opts)
			return err
		},
	}
}
