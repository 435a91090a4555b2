package report

import (
	"fmt"
	"strings"
)

// Format decides how each compiled line is decorated.
type Format struct {
	Name              string
	ObservationPrefix string
	ObservationSuffix string
	ImpressionBullet  string
	ImpressionSuffix  string
}

var (
	// PlainFormat leaves observations as they are and bullets impressions.
	PlainFormat = Format{
		Name:             "plain",
		ImpressionBullet: "• ",
	}

	// HTMLFormat reproduces the markup the report page pastes into the
	// reporting system.
	HTMLFormat = Format{
		Name:              "html",
		ObservationSuffix: " </br>",
		ImpressionBullet:  strings.Repeat("&nbsp", 7) + "•" + strings.Repeat("&nbsp", 2),
		ImpressionSuffix:  "</br>",
	}
)

// AllFormats returns the built-in formats
func AllFormats() []Format {
	return []Format{PlainFormat, HTMLFormat}
}

// ParseFormat returns the built-in format with the given name.
// "text" is accepted as an alias for plain.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain", "text":
		return PlainFormat, nil
	case "html":
		return HTMLFormat, nil
	default:
		return Format{}, fmt.Errorf("invalid report format: %s (valid: plain, html)", name)
	}
}

func (f Format) observation(text string) string {
	return f.ObservationPrefix + text + f.ObservationSuffix
}

func (f Format) impression(text string) string {
	return f.ImpressionBullet + text + f.ImpressionSuffix
}
