package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrsinham/radreport/internal/export"
	"github.com/mrsinham/radreport/internal/report"
	"github.com/mrsinham/radreport/internal/selection"
)

func labels[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func typed[T ~string](values []string) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out
}

// attributeOptions returns the option labels offered for attr.
func attributeOptions(attr selection.Attribute) []string {
	switch attr {
	case selection.AttributeSide:
		return labels(selection.AllSides())
	case selection.AttributeLobe:
		return labels(selection.AllLobes())
	case selection.AttributeMm:
		return labels(selection.AllSizeBands())
	default:
		return nil
	}
}

// attributeForStep maps a wizard step to the attribute it collects.
func attributeForStep(step selection.Step) (selection.Attribute, bool) {
	switch step {
	case selection.StepSide:
		return selection.AttributeSide, true
	case selection.StepLobe:
		return selection.AttributeLobe, true
	case selection.StepMm:
		return selection.AttributeMm, true
	default:
		return "", false
	}
}

// applyAttribute hands the selected labels to the session step for attr.
func applyAttribute(s *selection.Session, attr selection.Attribute, values []string) {
	switch attr {
	case selection.AttributeSide:
		s.ChooseSide(typed[selection.Side](values))
	case selection.AttributeLobe:
		s.ChooseLobe(typed[selection.Lobe](values))
	case selection.AttributeMm:
		s.ChooseMm(typed[selection.SizeBand](values))
	}
}

// saveReport writes r to path, picking the format from the extension.
func saveReport(path string, r report.Report, meta export.Meta) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return report.SaveToYAML(r, path)
	}
	if kind, ok := export.KindForPath(path); ok {
		return export.WriteFile(path, kind, r, meta)
	}
	if err := os.WriteFile(path, []byte(r.Text()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
