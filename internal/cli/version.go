package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/kac-dev/kac/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for kac",
		Example: `  # Show version info
  kac version

  # Plain output (for scripts)
  kac version --plain`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if plain {
				fmt.Fprintln(out, version.String())
				return
			}

			label := color.New(color.FgCyan, color.Bold).SprintFunc()
			value := color.New(color.FgWhite).SprintFunc()
			fmt.Fprintf(out, "%s %s\n", label("kac"), value(version.Version))
			fmt.Fprintf(out, "  %s %s\n", label("commit:"), value(version.Commit))
			fmt.Fprintf(out, "  %s %s\n", label("built: "), value(version.BuildDate))
			fmt.Fprintf(out, "  %s %s %s/%s\n", label("go:    "), runtime.Version(), runtime.GOOS, runtime.GOARCH)
			if version.IsDevBuild() {
				fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint("development build"))
			}
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Single line output without colors")
	return cmd
}
