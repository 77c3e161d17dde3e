package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// ---------------------------------------------------------------------------
// POST /download
// ---------------------------------------------------------------------------

type downloadRequest struct {
	URL     string `json:"url"`
	Type    string `json:"type"`
	Quality string `json:"quality"`
}

type downloadResponse struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Type     string `json:"type"`
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Quality == "" {
		req.Quality = "720"
	}

	job, err := s.manager.Submit(r.Context(), req.URL, req.Type, req.Quality)
	if err != nil {
		writeClassified(w, err)
		return
	}

	writeJSON(w, http.StatusOK, downloadResponse{
		Success:  true,
		ID:       job.ID,
		Filename: job.Filename,
		Title:    job.Title,
		Type:     job.Kind,
	})
}

// ---------------------------------------------------------------------------
// GET /files
// ---------------------------------------------------------------------------

type fileEntry struct {
	Name string `json:"name"`
	Size string `json:"size"`
	Date string `json:"date"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.files.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list files")
		return
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})

	entries := make([]fileEntry, 0, len(files))
	for _, f := range files {
		entries = append(entries, fileEntry{
			Name: f.Name,
			Size: fmt.Sprintf("%.2f MB", float64(f.SizeBytes)/(1024*1024)),
			Date: f.ModifiedAt.Format(time.ANSIC),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// ---------------------------------------------------------------------------
// GET /file/{filename}
// ---------------------------------------------------------------------------

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	rc, info, err := s.files.Open(r.Context(), name)
	if err != nil {
		writeClassified(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeContent(w, r, info.Name, info.ModifiedAt, rc)
}

// ---------------------------------------------------------------------------
// DELETE /delete/{filename}
// ---------------------------------------------------------------------------

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	removed, err := s.files.Delete(r.Context(), name)
	if err != nil {
		writeClassified(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ---------------------------------------------------------------------------
// GET /healthz
// ---------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
