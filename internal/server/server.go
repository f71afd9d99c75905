// Package server exposes the deck over HTTP.
//
// The server shares one view and one lesson store with whatever started
// it: navigating in the browser moves the same active slide the
// exporter captures, and lesson edits are visible to every client.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/formulalab/masterclass/pkg/deck"
	"github.com/formulalab/masterclass/pkg/errors"
	"github.com/formulalab/masterclass/pkg/export"
	"github.com/formulalab/masterclass/pkg/lesson"
	"github.com/formulalab/masterclass/pkg/view"
)

// Server handles HTTP access to a shared deck session.
type Server struct {
	view     *view.HTMLView
	store    *lesson.Store
	deck     deck.Deck
	exporter *export.Exporter
	logger   *log.Logger
}

// New creates a server over a shared session.
func New(v *view.HTMLView, store *lesson.Store, d deck.Deck, e *export.Exporter, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{view: v, store: store, deck: d, exporter: e, logger: logger}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)

	r.Route("/slides", func(r chi.Router) {
		r.Get("/{index}", s.handleSlide)
		r.Post("/{index}/activate", s.handleActivate)
	})

	r.Route("/lesson", func(r chi.Router) {
		r.Get("/", s.handleLessonGet)
		r.Patch("/", s.handleLessonPatch)
	})

	r.Post("/export/{format}", s.handleExport)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r,
		"/slides/"+strconv.Itoa(s.view.ActiveIndex()+1), http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"slides": len(s.deck),
		"busy":   s.exporter.Busy(),
	})
}

// handleSlide activates and renders one slide. ?edit=1 renders
// editable form controls instead of static text.
func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	i, ok := s.slideIndex(w, r)
	if !ok {
		return
	}
	if err := s.view.SetEditing(r.URL.Query().Get("edit") == "1"); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.view.SetActiveIndex(i); err != nil {
		s.writeError(w, err)
		return
	}
	page, err := s.view.Page()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	i, ok := s.slideIndex(w, r)
	if !ok {
		return
	}
	if err := s.view.SetActiveIndex(i); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLessonGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := lesson.WriteJSON(s.store.Snapshot(), w); err != nil {
		s.logger.Error("write lesson", "err", err)
	}
}

// handleLessonPatch merges the posted fields over the current lesson.
// Fields absent from the body keep their current values.
func (s *Server) handleLessonPatch(w http.ResponseWriter, r *http.Request) {
	doc, err := lesson.ReadJSON(r.Body, s.store.Snapshot())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidLesson, err, "parse lesson body"))
		return
	}
	s.store.Replace(doc)
	if err := s.view.Refresh(); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := lesson.WriteJSON(doc, w); err != nil {
		s.logger.Error("write lesson", "err", err)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := export.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	var res *export.Result
	var err error
	switch format {
	case export.FormatPDF:
		res, err = s.exporter.CurrentSlidePDF(r.Context())
	case export.FormatPPTX:
		res, err = s.exporter.CurrentSlidePPTX(r.Context())
	case export.FormatHTML:
		res, err = s.exporter.FullDeckHTML(r.Context())
	case export.FormatZIP:
		res, err = s.exporter.FullDeckZIP(r.Context())
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// slideIndex parses the 1-based index path parameter.
func (s *Server) slideIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || !s.deck.Valid(n-1) {
		s.writeError(w, errors.New(errors.ErrCodeInvalidSlide,
			"slide %q out of range (deck has %d slides)", chi.URLParam(r, "index"), len(s.deck)))
		return 0, false
	}
	return n - 1, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

// writeError maps error codes onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeExportInProgress:
		status = http.StatusConflict
	case errors.ErrCodeInvalidSlide, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLesson:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	s.writeJSON(w, status, map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}
