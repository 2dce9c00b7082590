// Package api exposes the soundtrack catalog and download manager over HTTP
// for the on-device frontend.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/droidspec/droidspec/pkg/downloads"
	"github.com/droidspec/droidspec/pkg/khinsider"
)

// Catalog is the part of the scraping client the handlers need.
type Catalog interface {
	Search(ctx context.Context, query string) ([]khinsider.SearchResult, error)
	Album(ctx context.Context, id string) (*khinsider.Album, error)
	StreamURL(ctx context.Context, trackPageURL string) (string, error)
}

// Downloads is the surface of the download manager the handlers need.
type Downloads interface {
	Start(albumID, outputDir string, selected []string) string
	Progress(id string) (downloads.Progress, bool)
	Cancel(id string) bool
}

// Server wires the catalog and download manager to the HTTP routes.
type Server struct {
	catalog   Catalog
	downloads Downloads

	// outputDir is where albums land when a request names no output path.
	outputDir string

	// stream fetches upstream audio for the /stream proxy.
	stream *http.Client
}

// NewServer returns a Server downloading into outputDir by default.
func NewServer(c Catalog, d Downloads, outputDir string) *Server {
	return &Server{
		catalog:   c,
		downloads: d,
		outputDir: outputDir,
		stream:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/search", s.handleSearch)
	r.Get("/album/{id}", s.handleAlbum)
	r.Post("/download", s.handleDownload)
	r.Get("/progress/{id}", s.handleProgress)
	r.Post("/cancel/{id}", s.handleCancel)
	r.Get("/stream", s.handleStream)

	return r
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "No search query provided")
		return
	}

	results, err := s.catalog.Search(r.Context(), query)
	if err != nil {
		log.Error("search failed", "query", query, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []khinsider.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.catalog.Album(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Album not found")
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AlbumID        string   `json:"album_id"`
		OutputPath     string   `json:"output_path"`
		SelectedTracks []string `json:"selected_tracks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	albumID := strings.TrimSpace(req.AlbumID)
	if albumID == "" {
		writeError(w, http.StatusBadRequest, "No album ID provided")
		return
	}

	id := s.downloads.Start(albumID, s.resolveOutputDir(req.OutputPath), req.SelectedTracks)
	log.Info("download started", "album", albumID, "progress_id", id)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "started",
		"progress_id": id,
		"message":     "Download started",
	})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	p, ok := s.downloads.Progress(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Progress ID not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.downloads.Cancel(id) {
		writeError(w, http.StatusNotFound, "Download not found")
		return
	}
	log.Info("download cancelled", "progress_id", id)
	writeJSON(w, http.StatusOK, map[string]any{"status": "cancelled"})
}

// passthroughHeaders let the browser's audio element seek within the proxied
// stream.
var passthroughHeaders = []string{
	"Content-Length", "Content-Range", "Accept-Ranges",
	"ETag", "Last-Modified", "Cache-Control",
}

// handleStream resolves a track page to its audio URL and proxies the bytes,
// forwarding Range so seeking works.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	pageURL := strings.TrimSpace(r.URL.Query().Get("p"))
	if pageURL == "" {
		writeError(w, http.StatusBadRequest, "missing param p")
		return
	}

	audioURL, err := s.catalog.StreamURL(r.Context(), pageURL)
	if err != nil {
		writeError(w, http.StatusNotFound, "could not resolve download link")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, audioURL, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	resp, err := s.stream.Do(req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	defer resp.Body.Close()

	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "audio/mpeg"
	}
	w.Header().Set("Content-Type", mime)
	for _, h := range passthroughHeaders {
		if v := resp.Header.Get(h); v != "" {
			w.Header().Set(h, v)
		}
	}
	if w.Header().Get("Accept-Ranges") == "" {
		w.Header().Set("Accept-Ranges", "bytes")
	}

	status := resp.StatusCode
	if status != http.StatusOK && status != http.StatusPartialContent {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Debug("stream interrupted", "url", audioURL, "err", err)
	}
}

// resolveOutputDir maps a request's output path onto the filesystem: empty
// means the server default, relative paths nest under it.
func (s *Server) resolveOutputDir(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return s.outputDir
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(s.outputDir, p)
	}
	return p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
