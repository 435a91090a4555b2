package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrsinham/radreport/internal/export"
	"github.com/mrsinham/radreport/internal/report"
	"github.com/mrsinham/radreport/internal/selection"
)

// Output formats accepted by compile --format.
const (
	outputText = "text"
	outputHTML = "html"
	outputYAML = "yaml"
)

func outputFormats() []string {
	formats := []string{outputText, outputHTML, outputYAML}
	for _, k := range export.AllKinds() {
		formats = append(formats, string(k))
	}
	return formats
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile findings given on the command line",
	Long: `Compile runs each --finding through the same steps as the wizard and
prints the compiled report. A finding missing a required side, lobe or size
fails the command and names what is missing.

Examples:
  radreport compile --finding "Normal study"
  radreport compile --finding "Nodule;side=Left;lobe=Frontal;mm=1-3 mm" --format html
  radreport compile --finding "Infarct;side=Right;lobe=Parietal" --format sr --output report.dcm --tag StationName=READ01`,
	Args: cobra.NoArgs,
	RunE: runCompile,
}

func init() {
	flags := compileCmd.Flags()
	flags.StringArray("finding", nil, "finding as 'Pathology;side=..;lobe=..;mm=..' (repeatable)")
	flags.String("format", outputText, "output format: "+strings.Join(outputFormats(), ", "))
	flags.StringP("output", "o", "", "write to file instead of stdout")
	flags.StringArray("tag", nil, "override a DICOM attribute: 'Keyword=Value' (repeatable, sr and sc only)")
	flags.String("patient-name", "", "patient name in DICOM form, e.g. DOE^Jane")
	flags.String("patient-id", "", "patient identifier")
	flags.String("accession", "", "accession number")
	flags.String("priority", "", "reading priority: HIGH, ROUTINE, LOW (default from config)")

	rootCmd.AddCommand(compileCmd)
}

// compileFindings applies every finding to a fresh session, in order.
func compileFindings(cat selection.Catalog, findings []selection.Finding, compiler report.Compiler, log logrus.FieldLogger) (report.Report, error) {
	session := selection.NewSession(cat, selection.WithLogger(log))
	for i, f := range findings {
		if _, err := session.Apply(f); err != nil {
			return report.Report{}, fmt.Errorf("finding %d (%s): %w", i+1, f.Pathology, err)
		}
	}
	return compiler.CompileSession(session), nil
}

// lineFormat returns the line decoration for an output format.
func lineFormat(output, configured string) string {
	switch output {
	case outputHTML:
		return report.HTMLFormat.Name
	case outputText:
		return report.PlainFormat.Name
	default:
		return configured
	}
}

func writeReport(w io.Writer, output string, r report.Report, meta export.Meta) error {
	switch output {
	case outputText, outputHTML:
		_, err := io.WriteString(w, r.Text())
		return err
	case outputYAML:
		data, err := report.MarshalYAML(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	kind, err := export.ParseKind(output)
	if err != nil {
		return fmt.Errorf("unknown output format %q (valid: %s)", output, strings.Join(outputFormats(), ", "))
	}
	return kind.Writer()(w, r, meta)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	rawFindings, _ := cmd.Flags().GetStringArray("finding")
	output, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("output")
	tags, _ := cmd.Flags().GetStringArray("tag")
	output = strings.ToLower(strings.TrimSpace(output))

	findings, err := parseFindings(rawFindings)
	if err != nil {
		return err
	}

	meta := cfg.ExportMeta()
	meta.PatientName, _ = cmd.Flags().GetString("patient-name")
	meta.PatientID, _ = cmd.Flags().GetString("patient-id")
	meta.AccessionNumber, _ = cmd.Flags().GetString("accession")
	if p, _ := cmd.Flags().GetString("priority"); p != "" {
		if meta.Priority, err = export.ParsePriority(p); err != nil {
			return err
		}
	}
	if meta.Tags, err = export.ParseTagAssignments(tags); err != nil {
		return err
	}

	compiler, err := report.NewCompiler(lineFormat(output, cfg.Report.Format))
	if err != nil {
		return err
	}

	cat, err := loadCatalog(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}

	r, err := compileFindings(cat, findings, compiler, log)
	if err != nil {
		return err
	}

	if outPath == "" {
		bw := bufio.NewWriter(cmd.OutOrStdout())
		if err := writeReport(bw, output, r, meta); err != nil {
			return err
		}
		return bw.Flush()
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := writeReport(f, output, r, meta); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"path":     outPath,
		"format":   output,
		"findings": r.EntryCount,
	}).Info("report written")
	return nil
}
