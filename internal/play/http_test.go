package play

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"ecolearn/internal/config"
	"ecolearn/internal/explorer"
	"ecolearn/internal/panel"
	"ecolearn/internal/progress"
	"ecolearn/internal/telemetry"
)

func newTestHandler(t *testing.T) (*Handler, *explorer.Explorer) {
	t.Helper()
	repo := telemetry.NewMemoryRepository(0)
	e := explorer.New(explorer.Options{ID: "s-1", Balance: config.DefaultBalance(), Recorder: repo})
	h := NewHandler()
	h.SetExplorerResolver(func(*http.Request) *explorer.Explorer { return e })
	h.SetEventRepository(repo)
	return h, e
}

func jsonReq(method, path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formReq(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var out struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return out.Error
}

func TestAdvanceUntilStageCompletes(t *testing.T) {
	h, _ := newTestHandler(t)

	var out AdvanceResponse
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.Advance(rec, jsonReq(http.MethodPost, "/api/water-cycle/advance", map[string]any{"stage": "evaporation"}))
		if rec.Code != http.StatusOK {
			t.Fatalf("advance expected 200, got %d body=%s", rec.Code, rec.Body.String())
		}
		out = AdvanceResponse{}
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("decode advance: %v", err)
		}
	}
	if !out.Applied || !out.CompletedNow {
		t.Fatalf("expected fifth advance to complete the stage, got %+v", out)
	}
	if out.State == nil || out.State.DropsCollected != 5 {
		t.Fatalf("expected 5 drops, got %+v", out.State)
	}
	if out.Profile != (progress.Profile{Points: 30, Level: 1, TotalExperience: 30}) {
		t.Fatalf("unexpected profile %+v", out.Profile)
	}

	rec := httptest.NewRecorder()
	h.Advance(rec, jsonReq(http.MethodPost, "/api/water-cycle/advance", map[string]any{"stage": "evaporation"}))
	out = AdvanceResponse{}
	_ = json.NewDecoder(rec.Body).Decode(&out)
	if out.Applied || out.Profile.Points != 30 {
		t.Fatalf("completed stage must not advance again, got %+v", out)
	}
}

func TestAdvanceErrors(t *testing.T) {
	h, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Advance(rec, jsonReq(http.MethodPost, "/api/water-cycle/advance", map[string]any{"stage": "sublimation"}))
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != "unknown stage" {
		t.Fatalf("unknown stage expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Advance(rec, httptest.NewRequest(http.MethodPost, "/api/water-cycle/advance", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != "invalid json" {
		t.Fatalf("invalid json expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Advance(rec, httptest.NewRequest(http.MethodGet, "/api/water-cycle/advance", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET expected 405, got %d", rec.Code)
	}

	if _, err := e.SwitchPanel(panel.GlobalWarming); err != nil {
		t.Fatalf("switch panel: %v", err)
	}
	rec = httptest.NewRecorder()
	h.Advance(rec, jsonReq(http.MethodPost, "/api/water-cycle/advance", map[string]any{"stage": "condensation"}))
	if rec.Code != http.StatusConflict || errorOf(t, rec) != "panel_inactive" {
		t.Fatalf("inactive panel expected 409, got %d", rec.Code)
	}
}

func TestResetRequiresCompleteCycle(t *testing.T) {
	h, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/water-cycle/reset", nil))
	if rec.Code != http.StatusConflict || errorOf(t, rec) != "cycle_incomplete" {
		t.Fatalf("incomplete reset expected 409, got %d", rec.Code)
	}

	for _, st := range []string{"evaporation", "condensation", "precipitation"} {
		for i := 0; i < 5; i++ {
			h.Advance(httptest.NewRecorder(), jsonReq(http.MethodPost, "/api/water-cycle/advance", map[string]any{"stage": st}))
		}
	}
	if !e.Snapshot().WaterCycle.AllCompleted {
		t.Fatalf("expected all stages completed")
	}

	rec = httptest.NewRecorder()
	h.Reset(rec, httptest.NewRequest(http.MethodPost, "/api/water-cycle/reset", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("reset expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var view explorer.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.WaterCycle.DropsCollected != 0 || view.WaterCycle.CompletedCount != 0 {
		t.Fatalf("expected pristine cycle, got %+v", view.WaterCycle)
	}
	if view.Profile.TotalExperience != 90 {
		t.Fatalf("reset must keep experience, got %+v", view.Profile)
	}
}

func TestSwitchPanelAndDecide(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.SwitchPanel(rec, jsonReq(http.MethodPost, "/api/panel", map[string]any{"panel": "global-warming"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("switch expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Decide(rec, jsonReq(http.MethodPost, "/api/climate/decide", map[string]any{"challenge": 0, "option": 0}))
	if rec.Code != http.StatusOK {
		t.Fatalf("decide expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var view explorer.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	sc := view.Climate.Scenario
	if sc.CarbonLevel != 80 || sc.Temperature != 14 || sc.EcosystemHealth != 100 {
		t.Fatalf("unexpected scenario %+v", sc)
	}
	if view.Profile.TotalExperience != 50 || view.Profile.Level != 1 {
		t.Fatalf("unexpected profile %+v", view.Profile)
	}

	rec = httptest.NewRecorder()
	h.Decide(rec, jsonReq(http.MethodPost, "/api/climate/decide", map[string]any{"challenge": 0, "option": 7}))
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != "unknown option" {
		t.Fatalf("unknown option expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Decide(rec, jsonReq(http.MethodPost, "/api/climate/decide", map[string]any{"challenge": 0}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing option expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.SwitchPanel(rec, jsonReq(http.MethodPost, "/api/panel", map[string]any{"panel": "ocean-lab"}))
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != "unknown panel" {
		t.Fatalf("unknown panel expected 400, got %d", rec.Code)
	}
}

func TestStateProfileAndStats(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.State(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	var view explorer.View
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if view.ActivePanel != panel.WaterCycle || view.WaterCycle == nil || view.Profile.Level != 1 {
		t.Fatalf("unexpected initial view %+v", view)
	}

	for i := 0; i < 5; i++ {
		h.Advance(httptest.NewRecorder(), jsonReq(http.MethodPost, "/api/water-cycle/advance", map[string]any{"stage": "precipitation"}))
	}

	rec = httptest.NewRecorder()
	h.Profile(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	var prof progress.Profile
	if err := json.NewDecoder(rec.Body).Decode(&prof); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if prof.Points != 30 {
		t.Fatalf("expected 30 points, got %+v", prof)
	}

	rec = httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats?days=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats expected 200, got %d", rec.Code)
	}
	var stats telemetry.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.StageCompletions["precipitation"] != 1 || stats.PointsBySource["water-cycle"] != 30 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	rec = httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/stats?days=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad days expected 400, got %d", rec.Code)
	}
}

func TestFormRoutesRedirect(t *testing.T) {
	h, e := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.FormAdvance(rec, formReq("/play/water-cycle/advance", url.Values{"stage": {"condensation"}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("advance form expected 303 to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if e.Snapshot().WaterCycle.DropsCollected != 1 {
		t.Fatalf("expected one drop")
	}

	rec = httptest.NewRecorder()
	h.FormReset(rec, formReq("/play/water-cycle/reset", nil))
	if rec.Code != http.StatusConflict {
		t.Fatalf("incomplete reset form expected 409, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.FormSwitchPanel(rec, formReq("/play/panel", url.Values{"panel": {"global-warming"}}))
	if rec.Code != http.StatusSeeOther || e.ActivePanel() != panel.GlobalWarming {
		t.Fatalf("panel form expected 303 and climate panel, got %d %s", rec.Code, e.ActivePanel())
	}

	rec = httptest.NewRecorder()
	h.FormDecide(rec, formReq("/play/climate/decide", url.Values{"challenge": {"0"}, "option": {"1"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("decide form expected 303, got %d", rec.Code)
	}
	if got := e.Profile().TotalExperience; got != 40 {
		t.Fatalf("expected 40 experience from forest conservation, got %d", got)
	}

	rec = httptest.NewRecorder()
	h.FormDecide(rec, formReq("/play/climate/decide", url.Values{"challenge": {"0"}, "option": {"x"}}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad option form expected 400, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.FormAdvance(rec, httptest.NewRequest(http.MethodGet, "/play/water-cycle/advance", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET form expected 405, got %d", rec.Code)
	}
}
