package page

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strconv"

	"ecolearn/internal/climate"
	"ecolearn/internal/explorer"
	"ecolearn/internal/panel"
	"ecolearn/internal/watercycle"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tmpl = template.Must(
	template.New("pages").
		Funcs(template.FuncMap{
			"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
		}).
		ParseFS(templatesFS, "templates/*.html"),
)

type stageCard struct {
	watercycle.StageState
	watercycle.Details
	Name string
}

type challengeCard struct {
	Index int
	climate.Challenge
}

type appData struct {
	View       explorer.View
	Tabs       []panel.Tab
	Stages     []stageCard
	StageCount int
	Challenges []challengeCard
}

func newAppData(v explorer.View) appData {
	data := appData{View: v, Tabs: panel.Tabs(), StageCount: len(watercycle.Stages)}
	if v.WaterCycle != nil {
		for _, st := range v.WaterCycle.Stages {
			data.Stages = append(data.Stages, stageCard{
				StageState: st,
				Details:    st.Stage.Details(),
				Name:       st.Stage.String(),
			})
		}
	}
	if v.Climate != nil {
		for i, c := range v.Climate.Challenges {
			data.Challenges = append(data.Challenges, challengeCard{Index: i, Challenge: c})
		}
	}
	return data
}

// App renders the full explorer page for one session.
func App(v explorer.View) templ.Component {
	data := newAppData(v)
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, "app.html", data)
	})
}
