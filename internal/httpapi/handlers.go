package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ironsheep/ewok/internal/compose"
	ewimg "github.com/ironsheep/ewok/internal/imaging"
	"github.com/ironsheep/ewok/internal/store"
)

// DownloadPrefix is prepended to the attachment name of downloads.
const DownloadPrefix = "edited_"

// maxProcessBody bounds the JSON body of /api/process.
const maxProcessBody = 1 << 20

// Handler serves the API routes.
type Handler struct {
	store     *store.Store
	pipeline  *compose.Pipeline
	maxUpload int64
}

// NewHandler returns a Handler. maxUpload bounds upload request bodies.
func NewHandler(s *store.Store, p *compose.Pipeline, maxUpload int64) *Handler {
	return &Handler{store: s, pipeline: p, maxUpload: maxUpload}
}

type uploadResponse struct {
	Success    bool                   `json:"success"`
	Filename   string                 `json:"filename"`
	Dimensions ewimg.DimensionsResult `json:"dimensions"`
}

type processRequest struct {
	Filename string `json:"filename"`
	compose.Config
}

type processResponse struct {
	Success           bool                   `json:"success"`
	ProcessedFilename string                 `json:"processed_filename"`
	Dimensions        ewimg.DimensionsResult `json:"dimensions"`
	Warnings          []string               `json:"warnings,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Upload stores a multipart image upload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d byte limit", h.maxUpload))
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "No file provided")
		default:
			writeError(w, http.StatusBadRequest, "Invalid upload")
		}
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	up, err := h.store.Save(r.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, store.ErrUnsupportedType) || errors.Is(err, store.ErrInvalidKey) {
			log.Debug().Err(err).Str("filename", header.Filename).Msg("upload rejected")
			writeError(w, http.StatusBadRequest, "Invalid file type")
			return
		}
		log.Error().Err(err).Msg("failed to save upload")
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	log.Info().
		Str("filename", up.Filename).
		Int("width", up.Dimensions.Width).
		Int("height", up.Dimensions.Height).
		Msg("upload stored")

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:    true,
		Filename:   up.Filename,
		Dimensions: up.Dimensions,
	})
}

// Process renders an edit configuration onto a stored upload and writes
// the result to the output directory.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	var req processRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxProcessBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, "No filename provided")
		return
	}

	src, err := h.store.LoadStoredImage(req.Filename)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidKey) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		log.Error().Err(err).Str("filename", req.Filename).Msg("failed to load source")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
		return
	}

	res, err := h.pipeline.Render(r.Context(), src, req.Config)
	if err != nil {
		if errors.Is(err, ewimg.ErrInvalidColorFormat) || errors.Is(err, compose.ErrTooLarge) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
		return
	}

	name, err := h.store.WriteOutput(r.Context(), res.Image)
	if err != nil {
		log.Error().Err(err).Msg("failed to write output")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
		return
	}

	log.Info().
		Str("source", req.Filename).
		Str("output", name).
		Int("width", res.Width).
		Int("height", res.Height).
		Msg("image processed")

	writeJSON(w, http.StatusOK, processResponse{
		Success:           true,
		ProcessedFilename: name,
		Dimensions:        ewimg.DimensionsResult{Width: res.Width, Height: res.Height},
		Warnings:          res.Warnings,
	})
}

// Download sends a rendered output as an attachment named "edited_<name>".
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "filename")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadPrefix+name))
	serveFile(w, r, name, h.store.OpenOutput)
}

// Preview sends a rendered output inline.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	serveFile(w, r, chi.URLParam(r, "filename"), h.store.OpenOutput)
}

// Original sends an uploaded source inline.
func (h *Handler) Original(w http.ResponseWriter, r *http.Request) {
	serveFile(w, r, chi.URLParam(r, "filename"), h.store.OpenUpload)
}

// Presets lists the wallpaper presets in table order.
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pipeline.Presets().List())
}

func serveFile(w http.ResponseWriter, r *http.Request, name string, open func(string) (*os.File, error)) {
	f, err := open(name)
	if err != nil {
		w.Header().Del("Content-Disposition")
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidKey) {
			writeError(w, http.StatusNotFound, "File not found")
			return
		}
		zerolog.Ctx(r.Context()).Error().Err(err).Str("filename", name).Msg("failed to open file")
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		w.Header().Del("Content-Disposition")
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	http.ServeContent(w, r, name, info.ModTime(), f)
}
