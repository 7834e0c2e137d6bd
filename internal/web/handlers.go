package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/distsort/internal/core"
	"github.com/JonMunkholm/distsort/internal/logging"
	"github.com/JonMunkholm/distsort/internal/web/templates"
)

// multipartOverhead is the slack allowed on top of the file size limit for
// multipart boundaries and the other form fields.
const multipartOverhead = 1 << 20

// handleIndex renders the page for the caller's session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess, r := s.sessionOrNew(w, r)
	s.renderPage(w, r, sess, nil, http.StatusOK)
}

// handleUpload loads the uploaded file into the caller's session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, r := s.sessionOrNew(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			s.respondError(w, r, sess, &core.LoadError{Kind: core.LoadTooLarge, Err: err})
			return
		}
		s.respondError(w, r, sess, &core.LoadError{Kind: core.LoadParse, Err: fmt.Errorf("invalid form: %w", err)})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, sess, fmt.Errorf("no file provided: %w", err))
		return
	}
	defer file.Close()

	ctx := WithRequestMetadata(r.Context(), r, sess)
	if err := s.service.Upload(ctx, sess, header.Filename, file); err != nil {
		s.respondError(w, r, sess, err)
		return
	}

	s.respondOK(w, r, sess)
}

// handleColumns applies explicit column choices from the form fields
// "name", "distance" and "neighborhood". Absent fields are left alone.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	sess, r, err := s.requireSession(r)
	if err != nil {
		s.respondError(w, r, nil, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, sess, err)
		return
	}

	for _, role := range []core.Role{core.RoleName, core.RoleDistance, core.RoleNeighborhood} {
		vals, ok := r.PostForm[string(role)]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := sess.SetColumn(role, vals[0]); err != nil {
			s.respondError(w, r, sess, err)
			return
		}
	}

	s.respondOK(w, r, sess)
}

// handleNotes stores the notes text.
func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	sess, r, err := s.requireSession(r)
	if err != nil {
		s.respondError(w, r, nil, err)
		return
	}
	sess.SetNotes(r.FormValue("notes"))
	s.respondOK(w, r, sess)
}

// handleSort runs the pipeline for the submitted selection. The "filter"
// action only updates the search text.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	sess, r, err := s.requireSession(r)
	if err != nil {
		s.respondError(w, r, nil, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, sess, err)
		return
	}

	if _, ok := r.PostForm["search"]; ok {
		sess.SetSearch(r.PostForm.Get("search"))
	}
	if r.PostForm.Get("action") == "filter" {
		s.respondOK(w, r, sess)
		return
	}

	order, err := core.ParseSortOrder(r.PostForm.Get("order"))
	if err != nil {
		logging.FromContext(r.Context()).Debug("invalid sort order, using ascending", "error", err)
	}

	req := core.RunRequest{
		Selection: core.NewSelection(r.PostForm["selected"]...),
		Order:     order,
		Analyze:   r.PostForm.Get("analyze") != "",
	}
	if _, err := sess.Run(req); err != nil {
		s.respondError(w, r, sess, err)
		return
	}

	if isHTMX(r) && !wantsJSON(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.Results(sess.Snapshot()).Render(r.Context(), w); err != nil {
			logging.FromContext(r.Context()).Error("render results", "error", err)
		}
		return
	}
	s.respondOK(w, r, sess)
}

// handleDownload sends the last result as CSV, or as XLSX with ?format=xlsx.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, r, err := s.requireSession(r)
	if err != nil {
		s.respondError(w, r, nil, err)
		return
	}
	if !sess.Features().Download {
		http.NotFound(w, r)
		return
	}

	res, err := sess.Result()
	if err != nil {
		s.respondError(w, r, sess, err)
		return
	}

	var (
		data        []byte
		fileName    = core.ExportFileName
		contentType = core.ExportContentType
	)
	if r.URL.Query().Get("format") == "xlsx" {
		data, err = res.XLSX()
		fileName, contentType = core.ExportXLSXFileName, core.ExportXLSXType
	} else {
		data, err = res.CSV()
	}
	if err != nil {
		s.respondError(w, r, sess, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// CandidatesResponse is the body of GET /api/candidates.
type CandidatesResponse struct {
	Candidates []string `json:"candidates"`
}

// handleCandidates returns the names matching ?q=.
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	sess, r, err := s.requireSession(r)
	if err != nil {
		s.respondError(w, r, nil, err)
		return
	}

	names, err := sess.Candidates(r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, sess, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, CandidatesResponse{Candidates: names})
}

// handleSessionSnapshot returns the session state as JSON.
func (s *Server) handleSessionSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, r, err := s.requireSession(r)
	if err != nil {
		s.respondError(w, r, nil, err)
		return
	}
	writeJSON(w, sess.Snapshot())
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status   string             `json:"status"`
	Sessions int                `json:"sessions"`
	Uploads  core.LimiterStatus `json:"uploads"`
}

// handleHealth reports liveness and upload slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status:   "ok",
		Sessions: s.service.SessionCount(),
		Uploads:  s.service.LimiterStatus(),
	})
}

// respondOK answers a successful form post: JSON snapshot for API callers,
// otherwise the re-rendered page.
func (s *Server) respondOK(w http.ResponseWriter, r *http.Request, sess *core.Session) {
	if wantsJSON(r) {
		writeJSON(w, sess.Snapshot())
		return
	}
	s.renderPage(w, r, sess, nil, http.StatusOK)
}

// renderPage renders the full page. A warning hides the previous result so
// the warning stands on its own; the result itself is kept in the session.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, sess *core.Session, alert *templates.Alert, status int) {
	data := templates.PageData{
		Session: sess.Snapshot(),
		Alert:   alert,
		Accept:  s.acceptTypes(),
	}
	if alert != nil && alert.Level == "warning" {
		data.Session.Result = nil
		data.Session.Summary = nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Page(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// acceptTypes is the file input's accept attribute.
func (s *Server) acceptTypes() string {
	if s.cfg.Upload.Spreadsheets {
		return ".csv,.xlsx,.xlsm,.xltx,.xltm,.xls"
	}
	return ".csv"
}
