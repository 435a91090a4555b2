package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrsinham/radreport/internal/selection"
)

// Document represents a compiled report for YAML serialization.
type Document struct {
	Format       string            `yaml:"format"`
	CompiledAt   time.Time         `yaml:"compiled_at"`
	Revision     int               `yaml:"revision"`
	Findings     []selection.Entry `yaml:"findings"`
	Observations []string          `yaml:"observations"`
	Impressions  []string          `yaml:"impressions"`
}

// NewDocument converts a compiled report into its serializable form.
func NewDocument(r Report) Document {
	return Document{
		Format:       r.Format,
		CompiledAt:   r.CompiledAt.UTC(),
		Revision:     r.Revision,
		Findings:     r.Entries,
		Observations: r.Observations,
		Impressions:  r.Impressions,
	}
}

// Report converts the document back into a compiled report.
func (d Document) Report() Report {
	return Report{
		Format:       d.Format,
		Entries:      d.Findings,
		Observations: d.Observations,
		Impressions:  d.Impressions,
		EntryCount:   len(d.Findings),
		Revision:     d.Revision,
		CompiledAt:   d.CompiledAt,
	}
}

// MarshalYAML renders r as a YAML document.
func MarshalYAML(r Report) ([]byte, error) {
	data, err := yaml.Marshal(NewDocument(r))
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// SaveToYAML writes the compiled report to path.
func SaveToYAML(r Report, path string) error {
	data, err := MarshalYAML(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// LoadFromYAML reads a report previously written by SaveToYAML.
func LoadFromYAML(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("read report: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Report{}, fmt.Errorf("parse report: %w", err)
	}
	return doc.Report(), nil
}
