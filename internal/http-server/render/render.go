package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"upload-relay/internal/domain"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templates embed.FS

type successPage struct {
	URL      string
	Filename string
	Size     string
}

type failurePage struct {
	Message string
}

type Renderer struct {
	form    []byte
	success *template.Template
	failure *template.Template
}

func NewRenderer(formField string) (*Renderer, error) {
	if formField == "" {
		formField = domain.DefaultFormField
	}

	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	var form bytes.Buffer
	if err := tmpl.ExecuteTemplate(&form, "index.html", struct{ FormField string }{formField}); err != nil {
		return nil, fmt.Errorf("failed to render upload form: %w", err)
	}

	return &Renderer{
		form:    form.Bytes(),
		success: tmpl.Lookup("success.html"),
		failure: tmpl.Lookup("failure.html"),
	}, nil
}

// Form returns the upload form. It is rendered once at construction.
func (r *Renderer) Form() []byte {
	return r.form
}

func (r *Renderer) Render(result domain.UploadResult) ([]byte, error) {
	var buf bytes.Buffer

	if result.Success {
		page := successPage{URL: result.URL, Filename: result.Filename}
		if result.Size > 0 {
			page.Size = humanize.Bytes(uint64(result.Size))
		}
		if err := r.success.Execute(&buf, page); err != nil {
			return nil, fmt.Errorf("failed to render success page: %w", err)
		}
		return buf.Bytes(), nil
	}

	message := result.ErrorMessage
	if message == "" {
		message = domain.GenericUploadFailure
	}
	if err := r.failure.Execute(&buf, failurePage{Message: message}); err != nil {
		return nil, fmt.Errorf("failed to render failure page: %w", err)
	}
	return buf.Bytes(), nil
}
