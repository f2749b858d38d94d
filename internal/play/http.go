package play

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ecolearn/internal/climate"
	"ecolearn/internal/explorer"
	"ecolearn/internal/panel"
	"ecolearn/internal/progress"
	"ecolearn/internal/telemetry"
	"ecolearn/internal/watercycle"
)

type Handler struct {
	explorerResolver func(*http.Request) *explorer.Explorer
	events           telemetry.Repository
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) SetExplorerResolver(fn func(*http.Request) *explorer.Explorer) {
	h.explorerResolver = fn
}

func (h *Handler) SetEventRepository(repo telemetry.Repository) {
	h.events = repo
}

func (h *Handler) explorerForRequest(r *http.Request) *explorer.Explorer {
	if h.explorerResolver == nil {
		return nil
	}
	return h.explorerResolver(r)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}

// statusFor maps domain errors onto HTTP status codes and stable messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, watercycle.ErrUnknownStage):
		return http.StatusBadRequest, "unknown stage"
	case errors.Is(err, panel.ErrUnknownPanel):
		return http.StatusBadRequest, "unknown panel"
	case errors.Is(err, climate.ErrUnknownOption):
		return http.StatusBadRequest, "unknown option"
	case errors.Is(err, explorer.ErrPanelInactive):
		return http.StatusConflict, "panel_inactive"
	case errors.Is(err, watercycle.ErrCycleIncomplete):
		return http.StatusConflict, "cycle_incomplete"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeDomainErr(w http.ResponseWriter, err error) {
	code, msg := statusFor(err)
	writeErr(w, code, msg)
}

// resolve answers the common preamble of every API route.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, method string) *explorer.Explorer {
	if r.Method != method {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil
	}
	e := h.explorerForRequest(r)
	if e == nil {
		writeErr(w, http.StatusInternalServerError, "session unavailable")
		return nil
	}
	return e
}

// GET /api/state
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	e := h.resolve(w, r, http.MethodGet)
	if e == nil {
		return
	}
	writeJSON(w, http.StatusOK, e.Snapshot())
}

// GET /api/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	e := h.resolve(w, r, http.MethodGet)
	if e == nil {
		return
	}
	writeJSON(w, http.StatusOK, e.Profile())
}

// POST /api/panel
func (h *Handler) SwitchPanel(w http.ResponseWriter, r *http.Request) {
	e := h.resolve(w, r, http.MethodPost)
	if e == nil {
		return
	}
	var in struct {
		Panel string `json:"panel"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(in.Panel) == "" {
		writeErr(w, http.StatusBadRequest, `missing field "panel"`)
		return
	}
	view, err := e.SwitchPanel(panel.ID(in.Panel))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type AdvanceResponse struct {
	Stage        watercycle.Stage  `json:"stage"`
	Applied      bool              `json:"applied"`
	CompletedNow bool              `json:"completedNow"`
	State        *watercycle.State `json:"state"`
	Profile      progress.Profile  `json:"profile"`
}

// POST /api/water-cycle/advance
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	e := h.resolve(w, r, http.MethodPost)
	if e == nil {
		return
	}
	var in struct {
		Stage string `json:"stage"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	stage, err := watercycle.ParseStage(in.Stage)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	res, err := e.AdvanceStage(stage)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdvanceResponse{
		Stage:        res.Stage,
		Applied:      res.Applied,
		CompletedNow: res.CompletedNow,
		State:        res.View.WaterCycle,
		Profile:      res.View.Profile,
	})
}

// POST /api/water-cycle/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	e := h.resolve(w, r, http.MethodPost)
	if e == nil {
		return
	}
	view, err := e.ResetWaterCycle()
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// POST /api/climate/decide
func (h *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	e := h.resolve(w, r, http.MethodPost)
	if e == nil {
		return
	}
	var in struct {
		Challenge int  `json:"challenge"`
		Option    *int `json:"option"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if in.Option == nil {
		writeErr(w, http.StatusBadRequest, `missing field "option"`)
		return
	}
	view, err := e.Choose(in.Challenge, *in.Option)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GET /api/stats?days=7
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.events == nil {
		writeErr(w, http.StatusInternalServerError, "telemetry unavailable")
		return
	}

	days := 7
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeErr(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	events, err := h.events.GetEvents(since, nil)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "could not load events")
		return
	}
	stats, err := telemetry.CalculateStats(events, since)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "could not calculate stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
