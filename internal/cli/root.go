package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/conda-pip-minimal/internal/config"
	"github.com/matzehuels/conda-pip-minimal/pkg/env"
	"github.com/matzehuels/conda-pip-minimal/pkg/manifest"
	"github.com/matzehuels/conda-pip-minimal/pkg/pipeline"
	"github.com/matzehuels/conda-pip-minimal/pkg/relax"
)

// exportFlags holds the flag values of the root export command.
type exportFlags struct {
	name       string
	prefix     string
	pip        bool
	noPip      bool
	relax      *relax.Flag
	include    []string
	exclude    []string
	exportName string
	channel    bool
	format     string
	output     string
	noCache    bool
}

// exportCommand creates the export command, which doubles as the root command.
func (c *CLI) exportCommand() *cobra.Command {
	flags := exportFlags{relax: relax.NewFlag(relax.Full)}

	cmd := &cobra.Command{
		Use:   "conda-pip-minimal",
		Short: "Export a minimal environment file for a conda environment",
		Long: `conda-pip-minimal writes an environment file listing only the packages nobody
else depends on: the conda leaves reported by conda-tree and the pip leaves
reported by pipdeptree. Everything else is recreated as a dependency.

Versions are pinned exactly by default. Use --relax to loosen them:
  none    no version at all
  major   compatible with the installed major version
  minor   compatible with the installed minor version
  full    the exact installed version`,
		Example: `  # Export the active environment
  conda-pip-minimal

  # Export a named environment with minor-compatible pins, skipping pip packages
  conda-pip-minimal --name datasci --relax minor --no-pip

  # Export an environment by path and write it to a file
  conda-pip-minimal --prefix ./env --output environment.yml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, &flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.name, "name", "n", "", "name of the conda environment")
	f.StringVarP(&flags.prefix, "prefix", "p", "", "full path to the conda environment")
	f.BoolVar(&flags.pip, "pip", true, "include packages installed with pip")
	f.BoolVar(&flags.noPip, "no-pip", false, "exclude packages installed with pip")
	f.VarP(flags.relax, "relax", "r", "version pinning: none, major, minor or full")
	f.StringSliceVarP(&flags.include, "include", "i", pipeline.DefaultInclude, "packages always exported when installed")
	f.StringSliceVarP(&flags.exclude, "exclude", "x", nil, "packages never exported")
	f.StringVarP(&flags.exportName, "export-name", "e", "", "environment name written to the file")
	f.BoolVarP(&flags.channel, "channel", "c", false, "prefix conda packages with their channel")
	f.StringVarP(&flags.format, "format", "f", pipeline.DefaultFormat, "output format: yaml or json")
	f.StringVarP(&flags.output, "output", "o", "", "write to file instead of stdout")
	f.BoolVar(&flags.noCache, "no-cache", false, "do not cache tool version probes")

	cmd.MarkFlagsMutuallyExclusive("name", "prefix")
	cmd.MarkFlagsMutuallyExclusive("pip", "no-pip")
	registerValueCompletions(cmd)

	return cmd
}

// options merges flags over the configuration. A flag only wins when it was
// set on the command line.
func (f *exportFlags) options(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	// Neither flag leaves the zero spec: the active environment.
	e, _, err := env.Resolve(f.name, f.prefix)
	if err != nil {
		return pipeline.Options{}, err
	}

	set := cmd.Flags().Changed
	opts := pipeline.Options{
		Env:           e,
		Pip:           cfg.Pip,
		Include:       cfg.Include,
		Exclude:       cfg.Exclude,
		Relax:         cfg.Relax,
		IncludeOrigin: cfg.Channel,
		ExportName:    f.exportName,
		Format:        cfg.Format,
	}
	switch {
	case set("no-pip"):
		opts.Pip = !f.noPip
	case set("pip"):
		opts.Pip = f.pip
	}
	if set("relax") {
		opts.Relax = f.relax.String()
	}
	if set("include") {
		opts.Include = f.include
	}
	if set("exclude") {
		opts.Exclude = f.exclude
	}
	if set("channel") {
		opts.IncludeOrigin = f.channel
	}
	if set("format") {
		opts.Format = f.format
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func (c *CLI) runExport(cmd *cobra.Command, flags *exportFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	opts, err := flags.options(cmd, c.settings())
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	start := time.Now()

	// stdout carries the manifest unless it goes to a file.
	var spinner *Spinner
	if flags.output != "" {
		spinner = newSpinnerWithContext(ctx, "Computing minimal set...")
		spinner.Start()
	}

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner != nil {
			spinner.Stop()
		}
		return err
	}
	logElapsed(logger, start, "exported minimal set", "env", result.Document.Name,
		"conda", result.Stats.CondaCount, "pip", result.Stats.PipCount)

	if flags.output == "" {
		_, err := cmd.OutOrStdout().Write(result.Output)
		return err
	}

	spinner.SetMessage("Writing " + flags.output + "...")
	if err := os.WriteFile(flags.output, result.Output, 0o644); err != nil {
		spinner.Stop()
		return fmt.Errorf("write %s: %w", flags.output, err)
	}
	spinner.StopWithSuccess("Exported " + StyleHighlight.Render(result.Document.Name))
	printFile(flags.output)
	printStats(result.Stats)
	if opts.Format == string(manifest.FormatYAML) {
		printNextStep("Recreate with", "conda env create --file "+flags.output)
	}
	return nil
}
