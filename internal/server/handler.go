// Package server exposes the catalog and report compilation over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mrsinham/radreport/internal/catalog"
	"github.com/mrsinham/radreport/internal/export"
	"github.com/mrsinham/radreport/internal/logging"
	"github.com/mrsinham/radreport/internal/report"
	"github.com/mrsinham/radreport/internal/selection"
)

// Catalog is the read-only catalog view the handlers need.
type Catalog interface {
	Lookup(name string) (catalog.PathologyDefinition, bool)
	Search(term string) []catalog.PathologyDefinition
	Len() int
}

// MaxReportBody caps the size of a report request body.
const MaxReportBody = 1 << 20

// Handler serves the catalog and compiles reports.
type Handler struct {
	cat  Catalog
	log  logrus.FieldLogger
	meta export.Meta
}

// NewHandler returns a handler over cat. meta is stamped on every export; a
// nil log discards.
func NewHandler(cat Catalog, log logrus.FieldLogger, meta export.Meta) *Handler {
	if log == nil {
		log = logging.Discard()
	}
	return &Handler{cat: cat, log: log, meta: meta}
}

// PathologyResponse is one catalog definition.
type PathologyResponse struct {
	Name         string `json:"name"`
	Observation  string `json:"observation"`
	Impression   string `json:"impression"`
	RequiresSide bool   `json:"requires_side"`
	RequiresLobe bool   `json:"requires_lobe"`
	RequiresMm   bool   `json:"requires_mm"`
}

func toPathologyResponse(d catalog.PathologyDefinition) PathologyResponse {
	return PathologyResponse{
		Name:         d.Name,
		Observation:  d.Observation,
		Impression:   d.Impression,
		RequiresSide: d.RequiresSide,
		RequiresLobe: d.RequiresLobe,
		RequiresMm:   d.RequiresMm,
	}
}

// FindingRequest is one finding with its qualifier labels, e.g. "Left" or "1-3 mm".
type FindingRequest struct {
	Pathology string   `json:"pathology"`
	Sides     []string `json:"sides"`
	Lobes     []string `json:"lobes"`
	Sizes     []string `json:"sizes"`
}

// PatientRequest identifies the patient on exported documents.
type PatientRequest struct {
	Name            string `json:"name"`
	ID              string `json:"id"`
	AccessionNumber string `json:"accession_number"`
}

// ReportRequest is the body of POST /api/reports. An empty Export returns JSON.
type ReportRequest struct {
	Format   string           `json:"format"`
	Export   string           `json:"export"`
	Patient  PatientRequest   `json:"patient"`
	Findings []FindingRequest `json:"findings"`
}

// ReportResponse is the compiled report.
type ReportResponse struct {
	ReportID        string            `json:"report_id"`
	Format          string            `json:"format"`
	Entries         []selection.Entry `json:"entries"`
	Observations    []string          `json:"observations"`
	Impressions     []string          `json:"impressions"`
	ObservationText string            `json:"observation_text"`
	ImpressionText  string            `json:"impression_text"`
}

// ErrorResponse carries a failure. Missing lists the absent qualifiers of a
// rejected finding.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Pathology string   `json:"pathology,omitempty"`
	Missing   []string `json:"missing,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Health reports liveness and the catalog size.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"pathologies": h.cat.Len(),
	})
}

// ListPathologies lists the catalog, filtered by the q query parameter.
func (h *Handler) ListPathologies(w http.ResponseWriter, r *http.Request) {
	defs := h.cat.Search(r.URL.Query().Get("q"))
	out := make([]PathologyResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, toPathologyResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPathology returns one definition by name, or 404.
func (h *Handler) GetPathology(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid pathology name"})
		return
	}
	def, ok := h.cat.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "pathology not found", Pathology: name})
		return
	}
	writeJSON(w, http.StatusOK, toPathologyResponse(def))
}

// toFinding converts the request into typed qualifiers.
func toFinding(req FindingRequest) (selection.Finding, error) {
	sides, err := selection.ParseSides(strings.Join(req.Sides, ","))
	if err != nil {
		return selection.Finding{}, err
	}
	lobes, err := selection.ParseLobes(strings.Join(req.Lobes, ","))
	if err != nil {
		return selection.Finding{}, err
	}
	sizes, err := selection.ParseSizeBands(strings.Join(req.Sizes, ","))
	if err != nil {
		return selection.Finding{}, err
	}
	return selection.Finding{Pathology: req.Pathology, Sides: sides, Lobes: lobes, Sizes: sizes}, nil
}

// CreateReport compiles the requested findings with a fresh session. The
// catalog is the only state shared between requests.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	body := http.MaxBytesReader(w, r.Body, MaxReportBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}

	compiler, err := report.NewCompiler(req.Format)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	var kind export.Kind
	if req.Export != "" {
		if kind, err = export.ParseKind(req.Export); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}

	session := selection.NewSession(h.cat, selection.WithLogger(h.log))
	for _, fr := range req.Findings {
		finding, err := toFinding(fr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Pathology: fr.Pathology})
			return
		}
		if _, err := session.Apply(finding); err != nil {
			h.writeApplyError(w, fr.Pathology, err)
			return
		}
	}

	compiled := compiler.CompileSession(session)
	id := uuid.New()
	h.log.WithFields(logrus.Fields{
		"report_id": id.String(),
		"entries":   compiled.EntryCount,
		"format":    compiled.Format,
		"export":    string(kind),
	}).Info("report compiled")

	if kind != "" {
		h.writeExport(w, kind, compiled, req.Patient, id)
		return
	}

	writeJSON(w, http.StatusOK, ReportResponse{
		ReportID:        id.String(),
		Format:          compiled.Format,
		Entries:         compiled.Entries,
		Observations:    compiled.Observations,
		Impressions:     compiled.Impressions,
		ObservationText: compiled.ObservationText(),
		ImpressionText:  compiled.ImpressionText(),
	})
}

func (h *Handler) writeApplyError(w http.ResponseWriter, pathology string, err error) {
	var verr *selection.ValidationError
	switch {
	case errors.As(err, &verr):
		missing := make([]string, len(verr.Missing))
		for i, a := range verr.Missing {
			missing[i] = string(a)
		}
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:     "missing required attributes",
			Pathology: verr.Pathology,
			Missing:   missing,
		})
	case errors.Is(err, selection.ErrUnknownPathology):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "unknown pathology", Pathology: pathology})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Pathology: pathology})
	}
}

func (h *Handler) writeExport(w http.ResponseWriter, kind export.Kind, r report.Report, p PatientRequest, id uuid.UUID) {
	meta := h.meta
	meta.PatientName = p.Name
	meta.PatientID = p.ID
	meta.AccessionNumber = p.AccessionNumber

	var buf bytes.Buffer
	if err := kind.Writer()(&buf, r, meta); err != nil {
		h.log.WithError(err).Error("export failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "export failed"})
		return
	}

	w.Header().Set("Content-Type", kind.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="report-`+id.String()+kind.Extension()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// RegisterRoutes mounts the API handlers on r.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/pathologies", h.ListPathologies)
	r.Get("/pathologies/{name}", h.GetPathology)
	r.Post("/reports", h.CreateReport)
}
