package handlers

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	pbtemplate "github.com/pocketbase/pocketbase/tools/template"

	"commute/internal/formatter"
	"commute/internal/logging"
	"commute/internal/models"
	"commute/internal/render"
	"commute/internal/storage"
)

const pageTitle = "Commute Visual"

//go:embed templates/dashboard.html
var dashboardHTML string

type DashboardHandler struct {
	store    *storage.TableStore
	registry *pbtemplate.Registry
}

func NewDashboardHandler(store *storage.TableStore) *DashboardHandler {
	return &DashboardHandler{
		store:    store,
		registry: pbtemplate.NewRegistry(),
	}
}

// Register mounts every dashboard route on mux
func (h *DashboardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.HandleIndex)
	mux.HandleFunc("/api/options", h.HandleOptions)
	mux.HandleFunc("/api/figures/pie", h.HandlePieFigure)
	mux.HandleFunc("/api/figures/map", h.HandleMapFigure)
	mux.HandleFunc("/charts/pie.svg", h.HandlePieImage)
	mux.HandleFunc("/charts/map.svg", h.HandleMapImage)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// selection applies the query parameters to the initial state
func selection(r *http.Request) formatter.State {
	s := formatter.InitialState()
	q := r.URL.Query()
	if q.Has("state") {
		s = s.WithState(q.Get("state"))
	}
	if q.Has("method") {
		s = s.WithMethod(q.Get("method"))
	}
	return s
}

func (h *DashboardHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s := selection(r)
	view, err := formatter.BuildView(h.store.Tables(), s)
	if err != nil {
		writeTransformError(w, err)
		return
	}
	pieJSON, err := json.Marshal(view.Pie)
	if err != nil {
		http.Error(w, "Error encoding figure", http.StatusInternalServerError)
		return
	}
	mapJSON, err := json.Marshal(view.Map)
	if err != nil {
		http.Error(w, "Error encoding figure", http.StatusInternalServerError)
		return
	}

	html, err := h.registry.LoadString(dashboardHTML).Render(map[string]any{
		"Title":      pageTitle,
		"View":       view,
		"KnownState": h.store.HasState(s.State),
		"PieJSON":    template.JS(pieJSON),
		"MapJSON":    template.JS(mapJSON),
	})
	if err != nil {
		logging.Errorf("Failed to render dashboard: %v", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (h *DashboardHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"states":   formatter.BuildStateOptions(h.store.Stacked()),
		"commutes": formatter.BuildCommuteOptions(),
		"initial":  formatter.InitialState(),
	})
}

func (h *DashboardHandler) HandlePieFigure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s := selection(r)
	if !h.store.HasState(s.State) {
		logging.Debugf("No rows for state %q, serving empty pie", s.State)
	}
	pie := formatter.BuildPieChart(h.store.RowsForState(s.State), s.State)
	writeJSON(w, http.StatusOK, pie.Figure())
}

func (h *DashboardHandler) HandleMapFigure(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s := selection(r)
	m, err := formatter.BuildChoropleth(h.store.Tables(), s.Method)
	if err != nil {
		writeTransformError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Figure())
}

func (h *DashboardHandler) HandlePieImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := selection(r)
	pie := formatter.BuildPieChart(h.store.RowsForState(s.State), s.State)
	h.writeImage(w, format, func(buf *bytes.Buffer) error {
		return render.Pie(buf, pie, format)
	})
}

func (h *DashboardHandler) HandleMapImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s := selection(r)
	m, err := formatter.BuildChoropleth(h.store.Tables(), s.Method)
	if err != nil {
		writeTransformError(w, err)
		return
	}
	h.writeImage(w, format, func(buf *bytes.Buffer) error {
		return render.Map(buf, m, format)
	})
}

// writeImage renders into a buffer first so a failed render still gets a clean
// error status.
func (h *DashboardHandler) writeImage(w http.ResponseWriter, format render.Format, draw func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		if errors.Is(err, render.ErrEmptyChart) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		logging.Errorf("Failed to render image: %v", err)
		http.Error(w, "Error rendering chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Write(buf.Bytes())
}

func writeTransformError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrUnknownMethod) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	logging.Errorf("Transform failed: %v", err)
	http.Error(w, fmt.Sprintf("Error building chart: %v", err), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warnf("Failed to write response: %v", err)
	}
}
