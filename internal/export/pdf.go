package export

import (
	"fmt"
	"io"

	"github.com/signintech/gopdf"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mrsinham/radreport/internal/report"
)

const (
	pdfFont      = "GoRegular"
	pdfMargin    = 50.0
	pdfTextWidth = 495.0 // A4 width minus margins
	pdfPageLimit = 790.0
)

type pdfWriter struct {
	pdf gopdf.GoPdf
}

func (p *pdfWriter) ensureSpace(h float64) {
	if p.pdf.GetY()+h > pdfPageLimit {
		p.pdf.AddPage()
	}
}

func (p *pdfWriter) heading(text string, size int) error {
	if err := p.pdf.SetFont(pdfFont, "", size); err != nil {
		return err
	}
	p.ensureSpace(float64(size) + 10)
	if err := p.pdf.Cell(nil, text); err != nil {
		return err
	}
	p.pdf.Br(float64(size) + 8)
	return nil
}

func (p *pdfWriter) paragraph(text string) error {
	if err := p.pdf.SetFont(pdfFont, "", 11); err != nil {
		return err
	}
	lines, err := p.pdf.SplitText(text, pdfTextWidth)
	if err != nil {
		return err
	}
	for _, l := range lines {
		p.ensureSpace(14)
		if err := p.pdf.Cell(nil, l); err != nil {
			return err
		}
		p.pdf.Br(14)
	}
	p.pdf.Br(4)
	return nil
}

// WritePDF writes r as an A4 PDF with an Observations and an Impressions
// section. Long lines are wrapped to the page width.
func WritePDF(w io.Writer, r report.Report, meta Meta) error {
	plain := r.Plain()

	p := &pdfWriter{}
	p.pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	p.pdf.SetLeftMargin(pdfMargin)
	p.pdf.SetTopMargin(pdfMargin)
	p.pdf.AddPage()

	if err := p.pdf.AddTTFFontData(pdfFont, goregular.TTF); err != nil {
		return fmt.Errorf("load font: %w", err)
	}

	if err := p.heading("Radiology Report", 20); err != nil {
		return fmt.Errorf("write title: %w", err)
	}

	header := []string{
		fmt.Sprintf("Date: %s", meta.now().Format("2006-01-02 15:04")),
	}
	if meta.PatientName != "" || meta.PatientID != "" {
		header = append(header, fmt.Sprintf("Patient: %s (%s)", meta.patientName(), meta.PatientID))
	}
	if meta.AccessionNumber != "" {
		header = append(header, "Accession: "+meta.AccessionNumber)
	}
	if meta.Institution != "" {
		header = append(header, "Institution: "+meta.Institution)
	}
	if meta.Priority != PriorityRoutine {
		header = append(header, "Priority: "+meta.Priority.String())
	}
	for _, h := range header {
		if err := p.paragraph(h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	p.pdf.Br(10)

	sections := []struct {
		title string
		lines []string
	}{
		{"Observations", plain.Observations},
		{"Impressions", plain.Impressions},
	}
	for _, s := range sections {
		if err := p.heading(s.title, 14); err != nil {
			return fmt.Errorf("write %s: %w", s.title, err)
		}
		if len(s.lines) == 0 {
			if err := p.paragraph("No findings."); err != nil {
				return fmt.Errorf("write %s: %w", s.title, err)
			}
		}
		for _, l := range s.lines {
			if err := p.paragraph(l); err != nil {
				return fmt.Errorf("write %s: %w", s.title, err)
			}
		}
		p.pdf.Br(10)
	}

	if meta.Author != "" {
		if err := p.paragraph("Reported by: " + meta.Author); err != nil {
			return fmt.Errorf("write author: %w", err)
		}
	}

	if _, err := p.pdf.WriteTo(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
