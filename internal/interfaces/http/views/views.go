// Package views contiene las plantillas HTML embebidas de reportes imprimibles.
package views

import (
	"embed"
	"net/http"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html layouts/*.html
var files embed.FS

// NewEngine motor de plantillas de Fiber sobre los archivos embebidos.
func NewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")

	engine.AddFunc("default", func(d interface{}, s string) interface{} {
		if s != "" {
			return s
		}
		return d
	})
	engine.AddFunc("datetime", func(t time.Time) string { return t.Format("02/01/2006 15:04") })
	return engine
}
