package main

import (
	"fmt"
	"strings"

	"github.com/mrsinham/radreport/internal/selection"
)

// parseFinding parses a --finding value of the form
//
//	Nodule;side=Left;lobe=Frontal,Parietal;mm=1-3 mm
//
// The pathology name comes first. Qualifier keys are case-insensitive and
// their values are comma-separated.
func parseFinding(s string) (selection.Finding, error) {
	parts := strings.Split(s, ";")
	f := selection.Finding{Pathology: strings.TrimSpace(parts[0])}
	if f.Pathology == "" {
		return selection.Finding{}, fmt.Errorf("finding %q: pathology name is required", s)
	}

	seen := make(map[string]bool)
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) == "" {
			continue
		}
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return selection.Finding{}, fmt.Errorf("finding %q: expected key=value, got %q", s, p)
		}

		key = strings.ToLower(strings.TrimSpace(key))
		var err error
		switch key {
		case "side", "sides":
			key = "side"
			f.Sides, err = selection.ParseSides(value)
		case "lobe", "lobes":
			key = "lobe"
			f.Lobes, err = selection.ParseLobes(value)
		case "mm", "size", "sizes":
			key = "mm"
			f.Sizes, err = selection.ParseSizeBands(value)
		default:
			return selection.Finding{}, fmt.Errorf("finding %q: unknown qualifier %q (valid: side, lobe, mm)", s, key)
		}
		if err != nil {
			return selection.Finding{}, fmt.Errorf("finding %q: %w", s, err)
		}
		if seen[key] {
			return selection.Finding{}, fmt.Errorf("finding %q: %s given twice", s, key)
		}
		seen[key] = true
	}
	return f, nil
}

func parseFindings(values []string) ([]selection.Finding, error) {
	findings := make([]selection.Finding, 0, len(values))
	for _, v := range values {
		f, err := parseFinding(v)
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, nil
}
