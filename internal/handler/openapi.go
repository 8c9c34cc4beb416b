package handler

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/cars-api/internal/server"
)

//go:embed static
var staticFiles embed.FS

// StaticFS is the docs asset tree served under /static.
func StaticFS() fs.FS {
	return echo.MustSubFS(staticFiles, "static")
}

// OpenAPIHandler serves the API reference UI.
type OpenAPIHandler struct {
	Handler
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI serves openapi.html, which loads /static/openapi.json.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := staticFiles.ReadFile("static/openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err := c.HTMLBlob(http.StatusOK, page); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
