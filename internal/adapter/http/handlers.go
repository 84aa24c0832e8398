package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/couchcryptid/modis-fire-dashboard/internal/adapter/plot"
	"github.com/couchcryptid/modis-fire-dashboard/internal/dashboard"
	"github.com/couchcryptid/modis-fire-dashboard/internal/domain"
	"github.com/couchcryptid/modis-fire-dashboard/internal/pipeline"
)

const maxPredictBody = 1 << 16

type errorResponse struct {
	Error  string                `json:"error"`
	Fields []pipeline.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handlePages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"pages": s.svc.Pages()})
}

func (s *Server) handlePredictionForm(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.PredictionForm())
}

// handlePredict decodes the form over its defaults so omitted fields keep the
// values the form opens with.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	in := domain.DefaultPredictionInput()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	pred, err := s.svc.Predict(r.Context(), in)
	if err != nil {
		var ie *pipeline.InputError
		var pe *pipeline.PredictionError
		switch {
		case errors.As(err, &ie):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: ie.Error(), Fields: ie.Fields})
		case errors.As(err, &pe):
			writeError(w, http.StatusUnprocessableEntity, pe.Error())
		default:
			s.fail(w, r, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, pred)
}

func (s *Server) handleVisualization(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := s.svc.Visualization(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleChart serves one figure as JSON, or as PNG when the id carries a
// .png suffix.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "chart")
	id, asPNG := strings.CutSuffix(id, ".png")

	fig, err := s.svc.Chart(r.Context(), req, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !asPNG {
		writeJSON(w, http.StatusOK, fig)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderPNG(&buf, fig, r.URL.Query().Get("frame")); err != nil {
		switch {
		case errors.Is(err, plot.ErrUnknownFrame), errors.Is(err, plot.ErrEmpty):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, plot.ErrUnsupportedKind):
			writeError(w, http.StatusNotImplemented, err.Error())
		default:
			s.fail(w, r, err)
		}
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := s.svc.Export(r.Context(), req, &buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="modis_fires.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// parseRequest reads the visualization controls. An absent parameter leaves
// its dimension unrestricted; a present but empty one selects nothing.
// Values may be repeated or comma separated.
func parseRequest(q url.Values) (dashboard.Request, error) {
	var req dashboard.Request

	if raw, ok := q["year"]; ok {
		vals := splitValues(raw)
		years := make([]int, 0, len(vals))
		for _, v := range vals {
			if v == "" {
				continue
			}
			y, err := strconv.Atoi(v)
			if err != nil {
				return dashboard.Request{}, fmt.Errorf("invalid year %q", v)
			}
			years = append(years, y)
		}
		req.Filter.Years = domain.Select(years...)
	}
	if raw, ok := q["type"]; ok {
		req.Filter.Types = domain.Select(splitValues(raw)...)
	}
	if raw, ok := q["confidence"]; ok {
		req.Filter.Confidences = domain.Select(splitValues(raw)...)
	}
	if s := q.Get("pie_year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return dashboard.Request{}, fmt.Errorf("invalid pie_year %q", s)
		}
		req.PieYear = &y
	}
	return req, nil
}

// splitValues flattens repeated and comma separated values. A lone blank is
// an empty selection; a blank among other values selects rows with no value
// in that column, which Options lists as "".
func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			out = append(out, strings.TrimSpace(v))
		}
	}
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}
