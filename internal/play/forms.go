package play

import (
	"net/http"
	"strconv"
	"strings"

	"ecolearn/internal/explorer"
	"ecolearn/internal/panel"
	"ecolearn/internal/watercycle"
)

// Form routes back the server-rendered page. Every successful post
// redirects to "/" so a refresh never replays the action.

func (h *Handler) form(w http.ResponseWriter, r *http.Request) *explorer.Explorer {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return nil
	}
	e := h.explorerForRequest(r)
	if e == nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil
	}
	return e
}

func backToApp(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		code, msg := statusFor(err)
		http.Error(w, strings.ReplaceAll(msg, "_", " "), code)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// POST /play/panel
func (h *Handler) FormSwitchPanel(w http.ResponseWriter, r *http.Request) {
	e := h.form(w, r)
	if e == nil {
		return
	}
	_, err := e.SwitchPanel(panel.ID(r.PostFormValue("panel")))
	backToApp(w, r, err)
}

// POST /play/water-cycle/advance
func (h *Handler) FormAdvance(w http.ResponseWriter, r *http.Request) {
	e := h.form(w, r)
	if e == nil {
		return
	}
	stage, err := watercycle.ParseStage(r.PostFormValue("stage"))
	if err == nil {
		_, err = e.AdvanceStage(stage)
	}
	backToApp(w, r, err)
}

// POST /play/water-cycle/reset
func (h *Handler) FormReset(w http.ResponseWriter, r *http.Request) {
	e := h.form(w, r)
	if e == nil {
		return
	}
	_, err := e.ResetWaterCycle()
	backToApp(w, r, err)
}

// POST /play/climate/decide
func (h *Handler) FormDecide(w http.ResponseWriter, r *http.Request) {
	e := h.form(w, r)
	if e == nil {
		return
	}
	challenge, cerr := strconv.Atoi(strings.TrimSpace(r.PostFormValue("challenge")))
	option, oerr := strconv.Atoi(strings.TrimSpace(r.PostFormValue("option")))
	if cerr != nil || oerr != nil {
		http.Error(w, "unknown option", http.StatusBadRequest)
		return
	}
	_, err := e.Choose(challenge, option)
	backToApp(w, r, err)
}
