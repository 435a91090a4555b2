package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mrsinham/radreport/internal/report"
)

// SecondaryCaptureStorage is the SOP class of a Secondary Capture image.
const SecondaryCaptureStorage = "1.2.840.10008.5.1.4.1.1.7"

const (
	pageColumns = 80
	lineHeight  = 13
	pageMargin  = 14
	renderScale = 2
)

// pageLines lays the report out as fixed-width text lines.
func pageLines(r report.Report, meta Meta) []string {
	plain := r.Plain()

	lines := []string{"RADIOLOGY REPORT", ""}
	if meta.PatientName != "" || meta.PatientID != "" {
		lines = append(lines, fmt.Sprintf("Patient: %s  ID: %s", meta.patientName(), meta.PatientID))
	}
	if meta.AccessionNumber != "" {
		lines = append(lines, "Accession: "+meta.AccessionNumber)
	}
	if meta.Institution != "" {
		lines = append(lines, meta.Institution)
	}
	lines = append(lines, "", "OBSERVATIONS")
	for _, o := range plain.Observations {
		lines = append(lines, wrap(o, pageColumns)...)
	}
	lines = append(lines, "", "IMPRESSIONS")
	for _, i := range plain.Impressions {
		// basicfont has no bullet glyph
		lines = append(lines, wrap(strings.Replace(i, "•", "*", 1), pageColumns)...)
	}
	if meta.Author != "" {
		lines = append(lines, "", "Reported by: "+meta.Author)
	}
	return lines
}

// wrap breaks text at word boundaries so no line exceeds width characters.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if len(cur)+1+len(w) > width {
			lines = append(lines, cur)
			cur = w
			continue
		}
		cur += " " + w
	}
	return append(lines, cur)
}

// RenderImage draws the report text black on white and returns the page.
func RenderImage(r report.Report, meta Meta) *image.Gray {
	face := basicfont.Face7x13
	lines := pageLines(r, meta)

	width := pageColumns*face.Advance + 2*pageMargin
	height := len(lines)*lineHeight + 2*pageMargin

	page := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(page, page.Bounds(), image.White, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  page,
		Src:  image.NewUniform(color.Black),
		Face: face,
	}
	for i, line := range lines {
		drawer.Dot = fixed.Point26_6{
			X: fixed.I(pageMargin),
			Y: fixed.I(pageMargin + (i+1)*lineHeight - face.Descent),
		}
		drawer.DrawString(line)
	}

	scaled := image.NewGray(image.Rect(0, 0, width*renderScale, height*renderScale))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), page, page.Bounds(), draw.Src, nil)
	return scaled
}

// WriteSecondaryCapture renders r and writes it as an 8-bit MONOCHROME2
// Secondary Capture image.
func WriteSecondaryCapture(w io.Writer, r report.Report, meta Meta) error {
	img := RenderImage(r, meta)
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	nativeFrame := frame.NewNativeFrame[uint8](8, height, width, width*height, 1)
	for y := 0; y < height; y++ {
		copy(nativeFrame.RawData[y*width:(y+1)*width], img.Pix[y*img.Stride:y*img.Stride+width])
	}

	pixelDataInfo := dicom.PixelDataInfo{
		Frames: []*frame.Frame{
			{
				Encapsulated: false,
				NativeData:   nativeFrame,
			},
		},
	}

	inst := newInstance(SecondaryCaptureStorage, "OT", "Radiology report (image)", meta)
	elements := headerElements(inst, meta)
	elements = append(elements,
		mustNewElement(tag.ConversionType, []string{"WSD"}),
		mustNewElement(tag.Rows, []int{height}),
		mustNewElement(tag.Columns, []int{width}),
		mustNewElement(tag.BitsAllocated, []int{8}),
		mustNewElement(tag.BitsStored, []int{8}),
		mustNewElement(tag.HighBit, []int{7}),
		mustNewElement(tag.PixelRepresentation, []int{0}),
		mustNewElement(tag.SamplesPerPixel, []int{1}),
		mustNewElement(tag.PhotometricInterpretation, []string{"MONOCHROME2"}),
		mustNewElement(tag.PixelData, pixelDataInfo),
	)

	return write(w, elements, meta)
}
