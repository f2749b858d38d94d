package server

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
)

//go:embed templates/admin.html
var adminTemplatesFS embed.FS

var adminTmpl = template.Must(
	template.New("admin.html").
		Funcs(template.FuncMap{
			"contains": func(s, sub string) bool { return strings.Contains(s, sub) },
		}).
		ParseFS(adminTemplatesFS, "templates/admin.html"),
)

type adminPageData struct {
	Addr   string
	Routes []RouteDoc
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func RegisterAdminUI(mux *http.ServeMux, rr *RouteRegistry, addr string) {
	// JSON list (handy for tooling)
	mux.HandleFunc("GET /_/admin/routes.json", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, rr.List())
	})

	mux.HandleFunc("GET /_/admin", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		data := adminPageData{
			Addr:   addr,
			Routes: rr.List(),
		}

		if err := adminTmpl.Execute(w, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
