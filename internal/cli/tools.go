package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
)

// toolsCommand creates the command reporting external tool versions.
func (c *CLI) toolsCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Check conda-tree and pipdeptree versions",
		Long: `Report the installed versions of conda-tree and pipdeptree and whether they
meet the minimum versions conda-pip-minimal supports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Cache.Close()

			spinner := newSpinnerWithContext(cmd.Context(), "Probing tools...")
			spinner.Start()
			statuses := runner.CheckTools(cmd.Context())
			spinner.Stop()

			failed := 0
			for _, st := range statuses {
				req := st.Requirement
				version := st.Version
				if version == "" {
					version = "unknown"
				}
				if st.OK() {
					printSuccess("%s %s", StyleHighlight.Render(req.Name), StyleValue.Render(version))
				} else {
					failed++
					printError("%s %s", StyleHighlight.Render(req.Name), StyleValue.Render(version))
					printDetail("%s", errors.UserMessage(st.Err))
				}
				printDetail("%s (minimum %s)", req.Cmd, req.Min)
			}

			if failed > 0 {
				return errors.New(errors.ErrCodeToolVersion, "%d of the required tools are missing or too old", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "probe versions without the cache")
	return cmd
}

