package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/proxyscope/internal/chart"
	"github.com/nao1215/proxyscope/internal/model"
)

// chartPanel is one cell of the dashboard grid.
type chartPanel struct {
	Name string
	URL  string
}

// pageData is the data rendered by index.html.
type pageData struct {
	Title   string
	Source  string
	Records int
	Dropped int
	Error   bool
	Detail  string
	Charts  []chartPanel
}

// handleIndex renders the dashboard page, or the error panel when the data
// cannot be loaded.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Title:  Title,
		Source: s.path,
	}

	status := http.StatusOK
	a, err := s.analysis(r.Context())
	if err != nil {
		status = http.StatusServiceUnavailable
		data.Error = true
		data.Detail = err.Error()
	} else {
		data.Records = a.RecordCount
		data.Dropped = a.DroppedCount
		for _, kind := range model.ChartKinds() {
			data.Charts = append(data.Charts, chartPanel{
				Name: kind.String(),
				URL:  "/charts/" + string(kind) + "." + string(chart.FormatPNG),
			})
		}
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.Error("failed to render page", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// handleChart renders one chart as PNG or SVG.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseChartKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	format, err := chart.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	spec := s.settings.ChartSpec(kind)
	width, err := sizeParam(r, "w", spec.Width)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := sizeParam(r, "h", spec.Height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !model.ValidSize(width, height) {
		http.Error(w, chart.ErrInvalidSize.Error(), http.StatusBadRequest)
		return
	}

	a, err := s.analysis(r.Context())
	if err != nil {
		http.Error(w, "could not load data", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	fig, err := chart.Build(kind, a, s.settings.Highlight(), spec)
	if err != nil {
		s.logger.Error("failed to build chart", "kind", kind, "error", err)
		http.Error(w, "failed to build chart", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := fig.WriteTo(&buf, format, width, height); err != nil {
		s.logger.Error("failed to render chart", "kind", kind, "error", err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordRender(string(kind), string(format), time.Since(start))

	if format == chart.FormatSVG {
		w.Header().Set("Content-Type", "image/svg+xml")
	} else {
		w.Header().Set("Content-Type", "image/png")
	}
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}

// sizeParam reads a positive pixel size from the query, falling back to def.
func sizeParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return n, nil
}

// handleAnalysis returns the analysis as JSON.
func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	a, err := s.analysis(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// handleReload invalidates the cached dataset and loads it again.
// Form posts from the page are redirected back to it.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	a, err := s.reload(r.Context())
	if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"source":  a.Source,
		"records": a.RecordCount,
		"dropped": a.DroppedCount,
	})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
