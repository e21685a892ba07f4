package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/conda-pip-minimal/pkg/manifest"
	"github.com/matzehuels/conda-pip-minimal/pkg/relax"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	var noDesc bool

	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for conda-pip-minimal.

Completions cover subcommands, flags, and the values of --relax and --format.

Bash:
  $ source <(conda-pip-minimal completion bash)

Zsh:
  $ conda-pip-minimal completion zsh > "${fpath[1]}/_conda-pip-minimal"

Fish:
  $ conda-pip-minimal completion fish > ~/.config/fish/completions/conda-pip-minimal.fish

PowerShell:
  PS> conda-pip-minimal completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion output must not depend on a readable config file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, !noDesc)
			case "zsh":
				if noDesc {
					return root.GenZshCompletionNoDesc(w)
				}
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, !noDesc)
			case "powershell":
				if noDesc {
					return root.GenPowerShellCompletion(w)
				}
				return root.GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noDesc, "no-descriptions", false, "disable completion descriptions")
	return cmd
}

// registerValueCompletions offers the fixed values of enum-like flags.
func registerValueCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("relax", cobra.FixedCompletions(relax.Names(), cobra.ShellCompDirectiveNoFileComp))

	formats := make([]string, len(manifest.Formats))
	for i, f := range manifest.Formats {
		formats[i] = string(f)
	}
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(formats, cobra.ShellCompDirectiveNoFileComp))
}
