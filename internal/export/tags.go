package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// TagInfo names a header attribute that may be overridden on export.
type TagInfo struct {
	Name string
	Tag  tag.Tag
}

// overridable maps lowercase keywords to the attributes Meta.Tags may set.
var overridable = map[string]TagInfo{
	"patientname":                   {Name: "PatientName", Tag: tag.PatientName},
	"patientid":                     {Name: "PatientID", Tag: tag.PatientID},
	"patientbirthdate":              {Name: "PatientBirthDate", Tag: tag.PatientBirthDate},
	"patientsex":                    {Name: "PatientSex", Tag: tag.PatientSex},
	"studydescription":              {Name: "StudyDescription", Tag: tag.StudyDescription},
	"institutionname":               {Name: "InstitutionName", Tag: tag.InstitutionName},
	"institutionaldepartmentname":   {Name: "InstitutionalDepartmentName", Tag: tag.InstitutionalDepartmentName},
	"referringphysicianname":        {Name: "ReferringPhysicianName", Tag: tag.ReferringPhysicianName},
	"accessionnumber":               {Name: "AccessionNumber", Tag: tag.AccessionNumber},
	"stationname":                   {Name: "StationName", Tag: tag.StationName},
	"requestedprocedurepriority":    {Name: "RequestedProcedurePriority", Tag: tag.RequestedProcedurePriority},
	"requestedproceduredescription": {Name: "RequestedProcedureDescription", Tag: tag.RequestedProcedureDescription},
	"seriesdescription":             {Name: "SeriesDescription", Tag: tag.SeriesDescription},
	"bodypartexamined":              {Name: "BodyPartExamined", Tag: tag.BodyPartExamined},
	"manufacturer":                  {Name: "Manufacturer", Tag: tag.Manufacturer},
}

// LookupTag returns the overridable attribute with the given keyword.
// The lookup is case-insensitive; unknown names get the closest keyword
// suggested in the error.
func LookupTag(name string) (TagInfo, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if info, ok := overridable[normalized]; ok {
		return info, nil
	}

	if suggestion := closestTagName(normalized); suggestion != "" {
		return TagInfo{}, fmt.Errorf("unknown tag %q, did you mean %q?", name, suggestion)
	}
	return TagInfo{}, fmt.Errorf("unknown tag %q", name)
}

// ParseTagAssignments parses "Keyword=value" pairs as given on the command line.
func ParseTagAssignments(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid tag assignment %q, expected Keyword=value", p)
		}
		info, err := LookupTag(name)
		if err != nil {
			return nil, err
		}
		out[info.Name] = strings.TrimSpace(value)
	}
	return out, nil
}

// applyTagOverrides replaces or appends the attributes named in overrides.
func applyTagOverrides(ds *dicom.Dataset, overrides map[string]string) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info, err := LookupTag(name)
		if err != nil {
			return err
		}
		elem, err := dicom.NewElement(info.Tag, []string{overrides[name]})
		if err != nil {
			return fmt.Errorf("create %s: %w", info.Name, err)
		}

		replaced := false
		for i, e := range ds.Elements {
			if e.Tag == info.Tag {
				ds.Elements[i] = elem
				replaced = true
				break
			}
		}
		if !replaced {
			ds.Elements = append(ds.Elements, elem)
		}
	}
	return nil
}

// closestTagName returns the keyword nearest to input, or "" when nothing is
// within five edits.
func closestTagName(input string) string {
	const maxDistance = 5
	bestDistance := maxDistance + 1
	var bestMatch string

	keys := make([]string, 0, len(overridable))
	for key := range overridable {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if d := levenshtein(input, key); d < bestDistance {
			bestDistance = d
			bestMatch = overridable[key].Name
		}
	}
	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
