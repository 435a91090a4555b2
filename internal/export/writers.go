package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrsinham/radreport/internal/report"
)

// WriteFunc writes a compiled report in one export format.
type WriteFunc func(w io.Writer, r report.Report, meta Meta) error

// Kind names an export format
type Kind string

const (
	KindSR  Kind = "sr"
	KindSC  Kind = "sc"
	KindPDF Kind = "pdf"
)

// AllKinds returns every export format
func AllKinds() []Kind {
	return []Kind{KindSR, KindSC, KindPDF}
}

// ContentType returns the media type of the format.
func (k Kind) ContentType() string {
	if k == KindPDF {
		return "application/pdf"
	}
	return "application/dicom"
}

// Extension returns the usual file extension, dot included.
func (k Kind) Extension() string {
	if k == KindPDF {
		return ".pdf"
	}
	return ".dcm"
}

// ParseKind parses an export format name
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range AllKinds() {
		if k == valid {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q, valid formats: %v", s, AllKinds())
}

// Writer returns the writer for k.
func (k Kind) Writer() WriteFunc {
	switch k {
	case KindSR:
		return WriteSR
	case KindSC:
		return WriteSecondaryCapture
	case KindPDF:
		return WritePDF
	default:
		return nil
	}
}

// KindForPath picks the export format from a file extension. Secondary
// captures share the .dcm extension and are never guessed.
func KindForPath(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dcm":
		return KindSR, true
	case ".pdf":
		return KindPDF, true
	default:
		return "", false
	}
}

// WriteFile writes r to path in format k.
func WriteFile(path string, k Kind, r report.Report, meta Meta) error {
	write := k.Writer()
	if write == nil {
		return fmt.Errorf("unknown export format %q", k)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, r, meta); err != nil {
		f.Close()
		return fmt.Errorf("writing %s export: %w", k, err)
	}
	return f.Close()
}
