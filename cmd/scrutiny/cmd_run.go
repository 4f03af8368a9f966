package main

import (
	"github.com/spf13/cobra"

	"scrutiny/internal/orchestrate"
	"scrutiny/internal/pipeline"
	"scrutiny/internal/pipes"
	"scrutiny/internal/present"
)

var runFlags struct {
	tallies      []string
	config       string
	pipesPath    string
	outputFormat string
	tarDir       string
	keepWorkdirs bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process tally archives through the stage pipeline",
	Long: `Run extracts each tally archive (or synthesizes an empty tally from an
election config), executes the configured pipeline stages over the
records in order, and renders the first record's results to stdout.
Working directories are removed on every exit path, interrupts included.`,
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringArrayVarP(&runFlags.tallies, "tally", "t", nil, "Tally archive to process (repeatable, processed in order)")
	f.StringVarP(&runFlags.config, "config", "c", "", "Election config to synthesize an empty tally from")
	f.StringVarP(&runFlags.pipesPath, "pipes", "p", "", "Pipeline document, YAML or JSON (default: built-in pipeline)")
	f.StringVarP(&runFlags.outputFormat, "output-format", "o", "json", "Output format (json, csv, tsv, pretty, none)")
	f.StringVarP(&runFlags.tarDir, "tar", "x", "", "Directory to write repacked results archives into")
	f.BoolVar(&runFlags.keepWorkdirs, "keep-workdirs", false, "Keep extraction working directories for inspection")
}

func runRun(cmd *cobra.Command, _ []string) error {
	spec := pipeline.DefaultSpec()
	if runFlags.pipesPath != "" {
		var err error
		spec, err = pipeline.LoadSpecFromPath(runFlags.pipesPath)
		if err != nil {
			return err
		}
	}

	format, err := present.ParseFormat(runFlags.outputFormat)
	if err != nil {
		return err
	}

	return orchestrate.Run(cmd.Context(), orchestrate.Config{
		Tallies:        runFlags.tallies,
		ElectionConfig: runFlags.config,
		Spec:           spec,
		Registry:       pipes.Builtin(),
		Format:         format,
		Stdout:         cmd.OutOrStdout(),
		TarDir:         runFlags.tarDir,
		KeepWorkdirs:   runFlags.keepWorkdirs,
	})
}
