package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/originchart/pkg/buildinfo"
	"github.com/matzehuels/originchart/pkg/catalog"
	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
	"github.com/matzehuels/originchart/pkg/pipeline"
)

// chartRequest is the body of POST /v1/chart.
type chartRequest struct {
	Origins   json.RawMessage   `json:"origins,omitempty"`
	Picks     map[string]string `json:"picks,omitempty"`
	Guided    *bool             `json:"guided,omitempty"`
	Direction string            `json:"direction,omitempty"`
	Refresh   bool              `json:"refresh,omitempty"`
}

// optionsRequest is the body of POST /v1/options.
type optionsRequest struct {
	Origins json.RawMessage `json:"origins,omitempty"`
	From    string          `json:"from"`
}

type optionsResponse struct {
	From    string        `json:"from"`
	Step    origin.Step   `json:"step,omitempty"` // step the options belong to
	Options []origin.Node `json:"options"`
}

type catalogResponse struct {
	Source  string         `json:"source"`
	Origins int            `json:"origins"`
	Hash    string         `json:"hash"`
	Report  catalog.Report `json:"report"`
	Dropped []string       `json:"dropped,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, err := s.source(req.Origins)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	guided := s.guided
	if req.Guided != nil {
		guided = *req.Guided
	}
	direction := req.Direction
	if direction == "" {
		direction = s.direction
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Source:    src,
		Picks:     req.Picks,
		Guided:    guided,
		Direction: direction,
		Refresh:   req.Refresh,
		Logger:    s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.ChartHit))
	writeJSON(w, http.StatusOK, res.Layout)
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if !s.decode(w, r, &req) {
		return
	}
	src, err := s.source(req.Origins)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cat, err := s.runner.LoadCatalog(r.Context(), pipeline.Options{Source: src, Logger: s.logger})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	nodes, err := s.runner.NextOptions(r.Context(), cat, req.From)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := optionsResponse{From: req.From, Options: nodes}
	if n, ok := cat.Node(req.From); ok {
		resp.Step, _ = origin.StepAt(n.Step.Index() + 1)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) catalogReport(w http.ResponseWriter, r *http.Request) {
	if s.catalog == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "server has no catalog configured"))
		return
	}
	cat, err := s.runner.LoadCatalog(r.Context(), pipeline.Options{Source: s.catalog, Logger: s.logger})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report := cat.Report
	if report.Issues == nil {
		report.Issues = []catalog.Issue{}
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Source:  cat.Source,
		Origins: cat.Len(),
		Hash:    pipeline.CatalogHash(cat),
		Report:  report,
		Dropped: report.Dropped(),
	})
}

// decode reads a JSON body into v, writing the error response itself on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeStatus(w, r, http.StatusRequestEntityTooLarge, string(errors.ErrCodeInvalidInput), "request body too large")
			return false
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

// source picks the inline catalog when present, else the server catalog.
func (s *Server) source(inline json.RawMessage) (catalog.Source, error) {
	if len(inline) > 0 && !bytes.Equal(inline, []byte("null")) {
		return catalog.ReaderSource{Name: "request", Reader: bytes.NewReader(inline), Format: catalog.FormatJSON}, nil
	}
	if s.catalog == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request has no origins and the server has no catalog")
	}
	return s.catalog, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
