// Package httpapi exposes the compositing pipeline over HTTP.
//
// Routes:
//
//	POST /api/upload               multipart field "file"
//	POST /api/process              JSON {"filename": ..., <edit config>}
//	GET  /api/download/{filename}  rendered output as attachment
//	GET  /api/preview/{filename}   rendered output inline
//	GET  /api/original/{filename}  uploaded source inline
//	GET  /api/presets              wallpaper presets in table order
//	GET  /healthz
//
// Errors are JSON bodies of the form {"error": "..."}.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// NewRouter wires the handlers behind the request middleware stack.
func NewRouter(h *Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(log),
		middleware.Recoverer,
	)

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", h.Upload)
		r.Post("/process", h.Process)
		r.Get("/download/{filename}", h.Download)
		r.Get("/preview/{filename}", h.Preview)
		r.Get("/original/{filename}", h.Original)
		r.Get("/presets", h.Presets)
	})

	return r
}
