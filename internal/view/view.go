package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/leca/picvault/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(
	template.New("").
		Funcs(template.FuncMap{"pathEscape": url.PathEscape}).
		ParseFS(templatesFS, "templates/*.html"),
)

// Page is the data rendered by the index template.
type Page struct {
	LoggedIn bool
	Images   []*model.Image
}

// Render writes the login form or, when p.LoggedIn, the upload form and
// gallery. The page is rendered to a buffer first so a template error never
// leaves a half-written response.
func Render(w io.Writer, p Page) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "index.html", p); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
