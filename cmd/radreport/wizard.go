package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrsinham/radreport/cmd/radreport/wizard"
	"github.com/mrsinham/radreport/internal/catalog"
	"github.com/mrsinham/radreport/internal/logging"
	"github.com/mrsinham/radreport/internal/report"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Build a report interactively",
	Long: `Wizard walks through picking a pathology, then its side, lobe and size
when the pathology needs them. Findings are collected in a list that can be
reviewed, pruned and compiled. The compiled sections can be copied to the
clipboard or saved as text, YAML, PDF or DICOM SR.

The wizard only logs when log.file is set, so the screen stays clean.`,
	RunE: runWizard,
}

func init() {
	rootCmd.AddCommand(wizardCmd)
}

func runWizard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logging.Discard()
	if cfg.Log.File != "" {
		l, closer, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()
		log = l
	}

	compiler, err := report.NewCompiler(cfg.Report.Format)
	if err != nil {
		return err
	}

	return wizard.Run(wizard.Options{
		Source: cfg.Catalog.Source,
		Load: func(ctx context.Context) (*catalog.Catalog, error) {
			return loadCatalog(ctx, cfg, log)
		},
		Compiler: compiler,
		Meta:     cfg.ExportMeta(),
		Log:      log,
	})
}
