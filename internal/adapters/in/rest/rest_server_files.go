package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"file-vault-api/internal/adapters/out/metrics"
)

type createFolderRequestBody struct {
	Name string `json:"name"`
}

// pathParam is the client-supplied sub-path, relative to the user's
// storage root; it is never trusted and always goes through the
// sandbox inside the storage layer.
func pathParam(r *http.Request) string {
	return r.URL.Query().Get("path")
}

func (s *DefaultRestServer) ListFiles(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	action := metrics.NewVaultAction("list", identity.Username)
	entries, err := s.apis.List(identity, pathParam(r))
	s.actionMetrics.OnActionDone(action.DoneFromError(err))
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *DefaultRestServer) UploadFile(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.restCfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file part")
		return
	}
	defer func() { _ = file.Close() }()

	action := metrics.NewVaultAction("upload", identity.Username)
	err = s.apis.Upload(identity, pathParam(r), header.Filename, file)
	s.actionMetrics.OnActionDone(action.DoneFromError(err))
	if err != nil {
		writeKindError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": fmt.Sprintf("file %q uploaded", header.Filename),
	})
}

func (s *DefaultRestServer) CreateFolder(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !isJSON(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	var in createFolderRequestBody
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	action := metrics.NewVaultAction("create-folder", identity.Username)
	err := s.apis.CreateFolder(identity, pathParam(r), in.Name)
	s.actionMetrics.OnActionDone(action.DoneFromError(err))
	if err != nil {
		writeKindError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *DefaultRestServer) DeleteFile(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	action := metrics.NewVaultAction("delete", identity.Username)
	err := s.apis.DeleteFile(identity, pathParam(r))
	s.actionMetrics.OnActionDone(action.DoneFromError(err))
	if err != nil {
		writeKindError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *DefaultRestServer) DownloadFile(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	action := metrics.NewVaultAction("download", identity.Username)
	rc, meta, err := s.apis.DownloadFile(identity, pathParam(r))
	s.actionMetrics.OnActionDone(action.DoneFromError(err))
	if err != nil {
		writeKindError(w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(meta.Name))
	if meta.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(meta.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}
