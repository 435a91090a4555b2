package export

import (
	"io"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/radreport/internal/report"
)

// BasicTextSRStorage is the SOP class of a Basic Text Structured Report.
const BasicTextSRStorage = "1.2.840.10008.5.1.4.1.1.88.11"

// Code is a coded concept name.
type Code struct {
	Value   string
	Scheme  string
	Meaning string
}

var (
	CodeReport      = Code{"18748-4", "LN", "Diagnostic Imaging Report"}
	CodeFindings    = Code{"59776-5", "LN", "Findings"}
	CodeImpressions = Code{"19005-8", "LN", "Impressions"}
	CodeFinding     = Code{"121071", "DCM", "Finding"}
	CodeImpression  = Code{"121073", "DCM", "Impression"}
)

func (c Code) sequence() *dicom.Element {
	return mustNewElement(tag.ConceptNameCodeSequence, [][]*dicom.Element{{
		mustNewElement(tag.CodeValue, []string{c.Value}),
		mustNewElement(tag.CodingSchemeDesignator, []string{c.Scheme}),
		mustNewElement(tag.CodeMeaning, []string{c.Meaning}),
	}})
}

func textItem(concept Code, text string) []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.RelationshipType, []string{"CONTAINS"}),
		mustNewElement(tag.ValueType, []string{"TEXT"}),
		concept.sequence(),
		mustNewElement(tag.TextValue, []string{text}),
	}
}

func containerItem(concept Code, itemConcept Code, lines []string) []*dicom.Element {
	elems := []*dicom.Element{
		mustNewElement(tag.RelationshipType, []string{"CONTAINS"}),
		mustNewElement(tag.ValueType, []string{"CONTAINER"}),
		concept.sequence(),
		mustNewElement(tag.ContinuityOfContent, []string{"SEPARATE"}),
	}
	if len(lines) == 0 {
		return elems
	}

	items := make([][]*dicom.Element, 0, len(lines))
	for _, l := range lines {
		items = append(items, textItem(itemConcept, l))
	}
	return append(elems, mustNewElement(tag.ContentSequence, items))
}

// WriteSR writes r as a Basic Text SR. The document root holds a Findings
// container with one TEXT item per observation and an Impressions container
// with one TEXT item per impression. Lines are written without markup.
func WriteSR(w io.Writer, r report.Report, meta Meta) error {
	plain := r.Plain()
	inst := newInstance(BasicTextSRStorage, "SR", "Radiology report", meta)

	completion := "COMPLETE"
	if plain.IsEmpty() {
		completion = "PARTIAL"
	}

	elements := headerElements(inst, meta)
	elements = append(elements,
		mustNewElement(tag.ValueType, []string{"CONTAINER"}),
		CodeReport.sequence(),
		mustNewElement(tag.ContinuityOfContent, []string{"SEPARATE"}),
		mustNewElement(tag.CompletionFlag, []string{completion}),
		mustNewElement(tag.VerificationFlag, []string{"UNVERIFIED"}),
		mustNewElement(tag.ContentSequence, [][]*dicom.Element{
			containerItem(CodeFindings, CodeFinding, plain.Observations),
			containerItem(CodeImpressions, CodeImpression, plain.Impressions),
		}),
	)
	return write(w, elements, meta)
}
