// Package export writes compiled reports as DICOM objects and PDF documents.
package export

import (
	"fmt"
	"strings"
	"time"
)

// Priority represents the reading priority recorded on the report
type Priority int

const (
	PriorityRoutine Priority = iota
	PriorityHigh
	PriorityLow
)

// String returns the DICOM string representation of the priority
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityLow:
		return "LOW"
	default:
		return "ROUTINE"
	}
}

// ParsePriority parses a string into a Priority
func ParsePriority(s string) (Priority, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH", "STAT", "URGENT":
		return PriorityHigh, nil
	case "ROUTINE", "":
		return PriorityRoutine, nil
	case "LOW":
		return PriorityLow, nil
	default:
		return PriorityRoutine, fmt.Errorf("invalid priority: %s (valid: HIGH, ROUTINE, LOW)", s)
	}
}

// Meta carries the patient and study context written alongside the report.
type Meta struct {
	PatientName        string
	PatientID          string
	AccessionNumber    string
	Institution        string
	ReferringPhysician string
	StudyDescription   string
	Author             string
	Priority           Priority
	// Tags overrides header attributes by DICOM keyword, e.g.
	// "StationName" -> "CT01". Keys must be known to LookupTag.
	Tags map[string]string
	// Now stamps the export; time.Now when nil.
	Now func() time.Time
}

func (m Meta) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m Meta) patientName() string {
	if m.PatientName == "" {
		return "ANONYMOUS"
	}
	return m.PatientName
}

func (m Meta) studyDescription() string {
	if m.StudyDescription == "" {
		return "Radiology report"
	}
	return m.StudyDescription
}
