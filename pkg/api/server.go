package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/log"
	"github.com/rubiojr/fiszki/pkg/quiz"
	"github.com/rubiojr/fiszki/pkg/realtime"
	"github.com/rubiojr/fiszki/pkg/search"
)

// Store is the learner data the API reads and writes. *storage.Store
// implements it.
type Store interface {
	search.CustomWordSource
	quiz.FavoriteSource
	SaveCustomWords(ctx context.Context, words []core.CustomWord) error
	ClearCustomWords(ctx context.Context) error
	AddFavorite(ctx context.Context, id int) ([]int, error)
	RemoveFavorite(ctx context.Context, id int) ([]int, error)
	ToggleFavorite(ctx context.Context, id int) ([]int, error)
}

type Options struct {
	// Debounce is the live search delay. Zero uses realtime.DefaultDelay.
	Debounce   time.Duration
	SessionTTL time.Duration
}

type Server struct {
	corpus   atomic.Pointer[core.Corpus]
	store    Store
	search   *search.Service
	quiz     *quiz.Manager
	hub      *realtime.Hub
	debounce time.Duration
	logger   *log.Logger
}

// NewServer returns a server over corpus. A nil corpus serves empty
// datasets until SetCorpus is called.
func NewServer(corpus *core.Corpus, store Store, opts Options) *Server {
	s := &Server{
		store:    store,
		search:   search.NewService(store),
		hub:      realtime.NewHub(0),
		debounce: opts.Debounce,
		logger:   log.ForService("api"),
	}
	if s.debounce <= 0 {
		s.debounce = realtime.DefaultDelay
	}
	if corpus == nil {
		corpus = &core.Corpus{}
	}
	s.corpus.Store(corpus)
	s.quiz = quiz.NewManager(s.Corpus, store, store, opts.SessionTTL)
	return s
}

// Corpus returns the corpus currently served.
func (s *Server) Corpus() *core.Corpus {
	return s.corpus.Load()
}

// SetCorpus swaps the served corpus and tells live search sessions to
// refresh. Requests in flight finish on the corpus they started with.
func (s *Server) SetCorpus(c *core.Corpus) {
	if c == nil {
		c = &core.Corpus{}
	}
	s.corpus.Store(c)

	sizes := make(map[string]int, len(core.Kinds()))
	for _, k := range core.Kinds() {
		sizes[k.String()] = c.Len(k)
	}
	s.hub.Broadcast(realtime.NewReloadEvent(sizes))
	s.logger.Infof("serving reloaded datasets to %d live sessions", s.hub.Size())
}

// Quiz returns the quiz session manager.
func (s *Server) Quiz() *quiz.Manager {
	return s.quiz
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
