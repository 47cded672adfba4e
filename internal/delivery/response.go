package delivery

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

const indexTemplate = "index.gohtml"

type ErrorResponse struct {
	Error string `json:"error"`
}

// LoadTemplates parses the embedded page templates and installs them on router.
func LoadTemplates(router *gin.Engine) error {
	tmpl, err := template.ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)
	return nil
}
