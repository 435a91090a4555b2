package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsinham/radreport/internal/catalog"
	"github.com/mrsinham/radreport/internal/export"
	"github.com/mrsinham/radreport/internal/logging"
	"github.com/mrsinham/radreport/internal/report"
	"github.com/mrsinham/radreport/internal/selection"
)

const testCSV = `Pathology,Observation,Impression,is_side,is_lobe,is_mm
Nodule,A nodule is noted.,Nodule.,TRUE,TRUE,TRUE
Normal study,No acute abnormality.,Normal study.,FALSE,FALSE,FALSE
Infarct,An acute infarct is seen.,Acute infarct.,TRUE,TRUE,FALSE
`

func writeCatalog(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "pathologies.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0644))
	return path
}

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	path := writeCatalog(t, t.TempDir())
	cat, err := catalog.LoadSource(t.Context(), catalog.Source{Location: path})
	require.NoError(t, err)
	return cat
}

func fixedCompiler(format report.Format) report.Compiler {
	return report.Compiler{Format: format, Now: func() time.Time { return time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC) }}
}

func TestCompileFindings(t *testing.T) {
	cat := loadTestCatalog(t)
	findings, err := parseFindings([]string{
		"Nodule;side=Left;lobe=Frontal;mm=1-3 mm",
		"Normal study",
	})
	require.NoError(t, err)

	r, err := compileFindings(cat, findings, fixedCompiler(report.PlainFormat), logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 2, r.EntryCount)
	assert.Equal(t, []string{"A nodule is noted.", "No acute abnormality."}, r.Observations)
	assert.Equal(t, []string{"• Nodule.", "• Normal study."}, r.Impressions)
	assert.Equal(t, []selection.Side{selection.SideLeft}, r.Entries[0].Sides)
}

func TestCompileFindings_MissingQualifiers(t *testing.T) {
	cat := loadTestCatalog(t)
	findings, err := parseFindings([]string{"Normal study", "Infarct;side=Right"})
	require.NoError(t, err)

	_, err = compileFindings(cat, findings, fixedCompiler(report.PlainFormat), logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finding 2 (Infarct)")
	assert.Contains(t, err.Error(), "Infarct requires lobe")

	var verr *selection.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []selection.Attribute{selection.AttributeLobe}, verr.Missing)
}

func TestCompileFindings_UnknownPathology(t *testing.T) {
	cat := loadTestCatalog(t)
	_, err := compileFindings(cat, []selection.Finding{{Pathology: "Fracture"}}, fixedCompiler(report.PlainFormat), logging.Discard())
	assert.ErrorIs(t, err, selection.ErrUnknownPathology)
}

func TestLineFormat(t *testing.T) {
	assert.Equal(t, "html", lineFormat(outputHTML, "plain"))
	assert.Equal(t, "plain", lineFormat(outputText, "html"))
	assert.Equal(t, "html", lineFormat(outputYAML, "html"))
	assert.Equal(t, "plain", lineFormat("pdf", "plain"))
}

func TestWriteReport(t *testing.T) {
	r := fixedCompiler(report.PlainFormat).Compile(selection.Snapshot{Entries: []selection.Entry{
		{ID: 1, PathologyName: "Normal study", Observation: "No acute abnormality.", Impression: "Normal study."},
	}, Revision: 1})

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, outputText, r, export.Meta{}))
	assert.Equal(t, "OBSERVATIONS\nNo acute abnormality.\n\nIMPRESSIONS\n• Normal study.\n", buf.String())

	buf.Reset()
	require.NoError(t, writeReport(&buf, outputYAML, r, export.Meta{}))
	assert.Contains(t, buf.String(), "pathology: Normal study")

	buf.Reset()
	require.NoError(t, writeReport(&buf, "pdf", r, export.Meta{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, writeReport(&buf, "sr", r, export.Meta{}))
	assert.Equal(t, "DICM", string(buf.Bytes()[128:132]))

	err := writeReport(&buf, "docx", r, export.Meta{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "valid: text, html, yaml, sr, sc, pdf")
}

func TestRequirements(t *testing.T) {
	assert.Equal(t, "-", requirements(catalog.PathologyDefinition{Name: "Normal study"}))
	assert.Equal(t, "side, mm", requirements(catalog.PathologyDefinition{RequiresSide: true, RequiresMm: true}))
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	defs := []catalog.PathologyDefinition{{Name: "Nodule", Impression: "Nodule.", RequiresSide: true}}
	dropped := []catalog.DroppedRow{{Line: 3, Name: "Nodule", Reason: "duplicate name"}}

	require.NoError(t, printCatalog(&buf, defs, dropped))
	out := buf.String()
	assert.Contains(t, out, "PATHOLOGY")
	assert.Contains(t, out, "Nodule")
	assert.Contains(t, out, "1 row(s) dropped")
	assert.Contains(t, out, `row 3 "Nodule": duplicate name`)
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	csv := writeCatalog(t, dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{
		"compile",
		"--catalog", csv,
		"--log-level", "error",
		"--format", "html",
		"--finding", "Nodule;side=Left;lobe=Frontal;mm=1-3 mm",
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "A nodule is noted. </br>")
	assert.Contains(t, out.String(), "&nbsp&nbsp&nbsp&nbsp&nbsp&nbsp&nbsp•&nbsp&nbspNodule.</br>")
}
