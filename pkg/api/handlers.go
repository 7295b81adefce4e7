package api

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/csvimport"
	"github.com/rubiojr/fiszki/pkg/quiz"
	"github.com/rubiojr/fiszki/pkg/search"
	"github.com/rubiojr/fiszki/pkg/version"
)

// maxUploadSize bounds CSV uploads.
const maxUploadSize = 5 << 20

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	params := search.ParseSearchParams(r.URL.Query())

	// API requires a query parameter
	if strings.TrimSpace(params.Query) == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}

	results := s.search.Search(r.Context(), params.Query, s.Corpus())
	s.writeJSON(w, http.StatusOK, SearchResponse{Query: params.Query, Results: results})
}

// viewPath returns the client route of a quiz view.
func viewPath(view string) string {
	if view == quiz.ViewFavorites {
		return "/favorites"
	}
	return core.Kind(view).Path()
}

func (s *Server) HandleQuizOpen(w http.ResponseWriter, r *http.Request) {
	view := r.PathValue("view")
	params := r.URL.Query()
	sessionID := params.Get("session")
	params.Del("session")

	snap, err := s.quiz.Open(r.Context(), sessionID, view, params)
	if err != nil {
		s.writeQuizError(w, err)
		return
	}

	location := viewPath(view)
	if len(params) > 0 {
		location += "?" + params.Encode()
	}
	s.writeJSON(w, http.StatusOK, QuizResponse{Snapshot: snap, Location: location})
}

func (s *Server) HandleQuizReveal(w http.ResponseWriter, r *http.Request) {
	s.handleQuizMove(w, r, s.quiz.Reveal)
}

func (s *Server) HandleQuizNext(w http.ResponseWriter, r *http.Request) {
	s.handleQuizMove(w, r, s.quiz.Next)
}

func (s *Server) HandleQuizPrevious(w http.ResponseWriter, r *http.Request) {
	s.handleQuizMove(w, r, s.quiz.Previous)
}

func (s *Server) handleQuizMove(w http.ResponseWriter, r *http.Request, move func(id, view string) (*quiz.Snapshot, error)) {
	view := r.PathValue("view")
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		s.writeError(w, http.StatusBadRequest, "Missing session parameter", "Query parameter 'session' is required")
		return
	}

	snap, err := move(sessionID, view)
	if err != nil {
		s.writeQuizError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, QuizResponse{Snapshot: snap, Location: viewPath(view)})
}

func (s *Server) writeQuizError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quiz.ErrUnknownView):
		s.writeError(w, http.StatusNotFound, "Unknown quiz view", err.Error())
	case errors.Is(err, quiz.ErrUnknownSession):
		s.writeError(w, http.StatusNotFound, "Unknown session", err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, "Quiz failed", err.Error())
	}
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Storage unavailable", "the server runs without a database")
		return false
	}
	return true
}

func (s *Server) HandleListWords(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	words, err := s.store.LoadCustomWords(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load words", err.Error())
		return
	}
	if words == nil {
		words = []core.CustomWord{}
	}
	s.writeJSON(w, http.StatusOK, WordsResponse{Words: words, Count: len(words)})
}

// HandleImportWords reads a Google Translate CSV export, sent either as the
// request body or as the "file" field of a multipart form. When at least one
// row parses, the imported words replace the stored ones.
func (s *Server) HandleImportWords(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	body, err := uploadReader(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}
	defer func() {
		if err := body.Close(); err != nil {
			s.logger.Warnf("closing upload: %v", err)
		}
	}()

	result, err := csvimport.Parse(body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}

	saved := false
	if len(result.Words) > 0 {
		if err := s.store.SaveCustomWords(r.Context(), result.Words); err != nil {
			s.writeError(w, http.StatusInternalServerError, "Failed to save words", err.Error())
			return
		}
		saved = true
		s.logger.Infof("imported %d of %d rows", result.SuccessfulRows, result.TotalRows)
	}
	s.writeJSON(w, http.StatusOK, ImportResponse{Result: result, Saved: saved})
}

func uploadReader(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, nil
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	return file, nil
}

func (s *Server) HandleClearWords(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.ClearCustomWords(r.Context()); err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to clear words", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ids, err := s.store.Favorites(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to load favorites", err.Error())
		return
	}
	s.writeFavorites(w, ids)
}

func (s *Server) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	s.handleFavoriteChange(w, r, s.addFavorite)
}

func (s *Server) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	s.handleFavoriteChange(w, r, func(r *http.Request, id int) ([]int, error) {
		return s.store.RemoveFavorite(r.Context(), id)
	})
}

func (s *Server) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s.handleFavoriteChange(w, r, func(r *http.Request, id int) ([]int, error) {
		return s.store.ToggleFavorite(r.Context(), id)
	})
}

var errUnknownWord = errors.New("no vocabulary entry with that id")

func (s *Server) addFavorite(r *http.Request, id int) ([]int, error) {
	known := false
	for _, e := range s.Corpus().Vocabulary {
		if e.ID == id {
			known = true
			break
		}
	}
	if !known {
		return nil, errUnknownWord
	}
	return s.store.AddFavorite(r.Context(), id)
}

func (s *Server) handleFavoriteChange(w http.ResponseWriter, r *http.Request, change func(*http.Request, int) ([]int, error)) {
	if !s.requireStore(w) {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid favorite id", err.Error())
		return
	}

	ids, err := change(r, id)
	if errors.Is(err, errUnknownWord) {
		s.writeError(w, http.StatusNotFound, "Unknown word", err.Error())
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to update favorites", err.Error())
		return
	}
	s.writeFavorites(w, ids)
}

func (s *Server) writeFavorites(w http.ResponseWriter, ids []int) {
	if ids == nil {
		ids = []int{}
	}
	s.writeJSON(w, http.StatusOK, FavoritesResponse{
		IDs:   ids,
		Words: core.FavoriteWords(s.Corpus().Vocabulary, ids),
	})
}

func (s *Server) HandleCaseDescriptions(w http.ResponseWriter, r *http.Request) {
	descriptions := s.Corpus().CaseDescriptions
	if descriptions == nil {
		descriptions = []core.CaseDescription{}
	}
	s.writeJSON(w, http.StatusOK, CaseDescriptionsResponse{Descriptions: descriptions, Count: len(descriptions)})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	c := s.Corpus()
	datasets := make(map[string]int, len(core.Kinds()))
	for _, k := range core.Kinds() {
		datasets[k.String()] = c.Len(k)
	}

	health := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.APIVersion(),
		Datasets:  datasets,
	}

	s.writeJSON(w, http.StatusOK, health)
}
