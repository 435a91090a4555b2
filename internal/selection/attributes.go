package selection

import (
	"fmt"
	"strings"
)

// Side is the anatomical side qualifying a finding
type Side string

const (
	SideLeft  Side = "Left"
	SideRight Side = "Right"
)

// AllSides returns the side options in display order
func AllSides() []Side {
	return []Side{SideLeft, SideRight}
}

// Lobe is the brain lobe qualifying a finding
type Lobe string

const (
	LobeFrontal   Lobe = "Frontal"
	LobeTemporal  Lobe = "Temporal"
	LobeParietal  Lobe = "Parietal"
	LobeOccipital Lobe = "Occipital"
)

// AllLobes returns the lobe options in display order
func AllLobes() []Lobe {
	return []Lobe{LobeFrontal, LobeTemporal, LobeParietal, LobeOccipital}
}

// SizeBand is the size range qualifying a finding
type SizeBand string

const (
	SizeUnder1mm SizeBand = "< 1 mm"
	Size1To3mm   SizeBand = "1-3 mm"
	SizeOver3mm  SizeBand = "> 3 mm"
)

// AllSizeBands returns the size options in display order
func AllSizeBands() []SizeBand {
	return []SizeBand{SizeUnder1mm, Size1To3mm, SizeOver3mm}
}

// Attribute names a qualifying attribute a pathology may require
type Attribute string

const (
	AttributeSide Attribute = "side"
	AttributeLobe Attribute = "lobe"
	AttributeMm   Attribute = "mm"
)

// ParseSides parses comma-separated side names, case-insensitively.
// The special value "all" selects both sides.
func ParseSides(input string) ([]Side, error) {
	return parseOptions(input, AllSides(), "side")
}

// ParseLobes parses comma-separated lobe names, case-insensitively.
// The special value "all" selects every lobe.
func ParseLobes(input string) ([]Lobe, error) {
	return parseOptions(input, AllLobes(), "lobe")
}

// ParseSizeBands parses comma-separated size bands. Spacing inside a band is
// not significant, so "1-3mm" and "1-3 mm" are the same band.
func ParseSizeBands(input string) ([]SizeBand, error) {
	return parseOptions(input, AllSizeBands(), "size band")
}

func parseOptions[T ~string](input string, options []T, kind string) ([]T, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	byKey := make(map[string]T, len(options))
	for _, o := range options {
		byKey[optionKey(string(o))] = o
	}

	var result []T
	for _, p := range strings.Split(input, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.EqualFold(p, "all") {
			return options, nil
		}
		v, ok := byKey[optionKey(p)]
		if !ok {
			return nil, fmt.Errorf("unknown %s %q, valid values: %v (or 'all')", kind, p, options)
		}
		result = append(result, v)
	}
	return canonical(result, options), nil
}

func optionKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// canonical deduplicates values and sorts them in option order. Values that
// are not options are dropped.
func canonical[T comparable](values []T, options []T) []T {
	if len(values) == 0 {
		return nil
	}
	chosen := make(map[T]bool, len(values))
	for _, v := range values {
		chosen[v] = true
	}
	var out []T
	for _, o := range options {
		if chosen[o] {
			out = append(out, o)
		}
	}
	return out
}

// JoinValues renders a set as a comma separated list
func JoinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
