package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Renderer executes embedded page templates against a shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var pageNames = []string{
	"index.html",
	"register.html",
	"login.html",
	"quiz.html",
	"leaderboard.html",
	"profile.html",
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).
			ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// PageData is what every template receives.
type PageData struct {
	Title       string
	DisplayName string
	Flashes     []Flash
	Data        interface{}
}

// Render writes the named page; flashes are popped by the caller so a page
// can also be rendered without consuming them.
func (rd *Renderer) Render(w http.ResponseWriter, name string, data PageData) {
	tmpl, ok := rd.pages[name]
	if !ok {
		log.Printf("unknown template %q", name)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("error rendering %s: %v", name, err)
	}
}
