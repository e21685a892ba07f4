// Package cli implements the conda-pip-minimal command-line interface.
//
// The root command computes the minimal set of an environment and prints the
// environment file. Subcommands inspect the external tools, manage the
// configuration file and the tool probe cache. The CLI is built using cobra
// and logs through charmbracelet/log.
//
// # Commands
//
//   - (root): Export a minimal environment file
//   - tools: Report conda-tree and pipdeptree versions against their floors
//   - config: Show the effective configuration or write a default one
//   - cache: Clear or locate the tool probe cache
//   - completion: Generate shell completions
//
// # Logging
//
// The logger stays at warn level by default because stdout carries the
// manifest. --debug (-v) switches to debug level, turns on timestamps and logs
// every tool invocation and cache lookup. Loggers are passed through
// context.Context.
//
// # Example
//
//	import "github.com/matzehuels/conda-pip-minimal/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogWarn)
//	    if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli
