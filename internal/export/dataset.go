package export

import (
	"fmt"
	"io"
	"math/big"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

const (
	explicitVRLittleEndian = "1.2.840.10008.1.2.1"
	implementationClassUID = "1.2.826.0.1.3680043.8.498"
	implementationVersion  = "RADREPORT_1"
)

// NewUID returns a UUID-derived UID under the 2.25 root.
func NewUID() string {
	u := uuid.New()
	return "2.25." + new(big.Int).SetBytes(u[:]).String()
}

func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// instance identifies one exported object.
type instance struct {
	sopClassUID    string
	sopInstanceUID string
	studyUID       string
	seriesUID      string
	modality       string
	seriesDesc     string
	at             time.Time
}

func newInstance(sopClassUID, modality, seriesDesc string, meta Meta) instance {
	return instance{
		sopClassUID:    sopClassUID,
		sopInstanceUID: NewUID(),
		studyUID:       NewUID(),
		seriesUID:      NewUID(),
		modality:       modality,
		seriesDesc:     seriesDesc,
		at:             meta.now(),
	}
}

// headerElements returns file meta, patient, study, series and instance
// attributes shared by every exported object.
func headerElements(inst instance, meta Meta) []*dicom.Element {
	date := inst.at.Format("20060102")
	clock := inst.at.Format("150405")

	return []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{explicitVRLittleEndian}),
		mustNewElement(tag.MediaStorageSOPClassUID, []string{inst.sopClassUID}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{inst.sopInstanceUID}),
		mustNewElement(tag.ImplementationClassUID, []string{implementationClassUID}),
		mustNewElement(tag.ImplementationVersionName, []string{implementationVersion}),

		mustNewElement(tag.SpecificCharacterSet, []string{"ISO_IR 192"}),
		mustNewElement(tag.SOPClassUID, []string{inst.sopClassUID}),
		mustNewElement(tag.SOPInstanceUID, []string{inst.sopInstanceUID}),
		mustNewElement(tag.StudyDate, []string{date}),
		mustNewElement(tag.StudyTime, []string{clock}),
		mustNewElement(tag.ContentDate, []string{date}),
		mustNewElement(tag.ContentTime, []string{clock}),
		mustNewElement(tag.AccessionNumber, []string{meta.AccessionNumber}),
		mustNewElement(tag.Modality, []string{inst.modality}),
		mustNewElement(tag.Manufacturer, []string{"radreport"}),
		mustNewElement(tag.InstitutionName, []string{meta.Institution}),
		mustNewElement(tag.ReferringPhysicianName, []string{meta.ReferringPhysician}),
		mustNewElement(tag.StudyDescription, []string{meta.studyDescription()}),
		mustNewElement(tag.SeriesDescription, []string{inst.seriesDesc}),
		mustNewElement(tag.PatientName, []string{meta.patientName()}),
		mustNewElement(tag.PatientID, []string{meta.PatientID}),
		mustNewElement(tag.PatientBirthDate, []string{""}),
		mustNewElement(tag.PatientSex, []string{""}),
		mustNewElement(tag.StudyInstanceUID, []string{inst.studyUID}),
		mustNewElement(tag.SeriesInstanceUID, []string{inst.seriesUID}),
		mustNewElement(tag.StudyID, []string{"1"}),
		mustNewElement(tag.SeriesNumber, []string{"1"}),
		mustNewElement(tag.InstanceNumber, []string{"1"}),
		mustNewElement(tag.RequestedProcedurePriority, []string{meta.Priority.String()}),
	}
}

// write applies tag overrides, orders the dataset by tag and writes it.
func write(w io.Writer, elements []*dicom.Element, meta Meta) error {
	ds := dicom.Dataset{Elements: elements}
	if err := applyTagOverrides(&ds, meta.Tags); err != nil {
		return err
	}

	sort.SliceStable(ds.Elements, func(i, j int) bool {
		if ds.Elements[i].Tag.Group != ds.Elements[j].Tag.Group {
			return ds.Elements[i].Tag.Group < ds.Elements[j].Tag.Group
		}
		return ds.Elements[i].Tag.Element < ds.Elements[j].Tag.Element
	})

	if err := dicom.Write(w, ds); err != nil {
		return fmt.Errorf("write dicom: %w", err)
	}
	return nil
}
