package api

import (
	"github.com/labstack/echo/v4"
	"github.com/odnamestaj/catalog/internal/webserver"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handlers) registerHealthRoutes(s *webserver.WebServer) {
	s.GET("/", h.readRoot)
	s.GET("/health", h.readRoot)
	s.GET("/test", h.testDatabase)
	s.ApiGET("/hello", h.hello)
}

func (h *Handlers) readRoot(c echo.Context) error {
	return ok(c, messageResponse{Message: "OD Nameštaj backend je spreman"})
}

func (h *Handlers) hello(c echo.Context) error {
	return ok(c, messageResponse{Message: "Pozdrav sa backend API-ja!"})
}

// testDatabase reports store connectivity inline and never fails.
func (h *Handlers) testDatabase(c echo.Context) error {
	return ok(c, h.store.Diagnose(c.Request().Context(), h.cfg.Database))
}
