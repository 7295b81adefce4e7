// Package quiz keeps the server side state of quiz views: which cards a
// learner is looking at, where they are and whether the answer is shown.
//
// A session holds one deck per view. Decks are built on first use from the
// corpus current at that moment, so a session keeps its cards when the
// datasets are reloaded. Deep links are resolved with package navigate.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/log"
	"github.com/rubiojr/fiszki/pkg/navigate"
	"github.com/rubiojr/fiszki/pkg/search"
)

// ViewFavorites is the quiz over favorite vocabulary. It is not a search
// dataset, so it has no core.Kind.
const ViewFavorites = "favorites"

var (
	ErrUnknownSession = errors.New("unknown quiz session")
	ErrUnknownView    = errors.New("unknown quiz view")
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 2 * time.Hour

// FavoriteSource provides favorite vocabulary ids.
type FavoriteSource interface {
	Favorites(ctx context.Context) ([]int, error)
}

// Snapshot is the state of one view of one session.
type Snapshot struct {
	Session string `json:"session"`
	View    string `json:"view"`
	State
}

type session struct {
	decks    map[string]deck
	lastSeen time.Time
}

// Manager owns every quiz session. It is safe for concurrent use.
type Manager struct {
	corpus    func() *core.Corpus
	words     search.CustomWordSource
	favorites FavoriteSource
	ttl       time.Duration
	now       func() time.Time
	logger    *log.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	sessions map[string]*session
}

// NewManager returns a Manager. corpus is called whenever a deck is built
// and must return the current corpus. words and favorites may be nil.
func NewManager(corpus func() *core.Corpus, words search.CustomWordSource, favorites FavoriteSource, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	seed := uint64(time.Now().UnixNano())
	return &Manager{
		corpus:    corpus,
		words:     words,
		favorites: favorites,
		ttl:       ttl,
		now:       time.Now,
		logger:    log.ForService("quiz"),
		rng:       rand.New(rand.NewPCG(seed, seed>>1)),
		sessions:  make(map[string]*session),
	}
}

// ValidView reports whether view names a quiz view.
func ValidView(view string) bool {
	return view == ViewFavorites || core.Kind(view).Valid()
}

// Open returns the state of view in session id, creating the session when id
// is empty, unknown or expired. A jump request in p moves the view and is
// removed from p. Custom word and favorite decks are rebuilt on every Open so
// they follow imports and favorite changes.
func (m *Manager) Open(ctx context.Context, id, view string, p navigate.Params) (*Snapshot, error) {
	if !ValidView(view) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, view)
	}

	// Storage reads happen outside the lock.
	var words []core.CustomWord
	var favorites []int
	switch view {
	case string(core.KindMyWords):
		words = m.loadWords(ctx)
	case ViewFavorites:
		favorites = m.loadFavorites(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()
	s, ok := m.sessions[id]
	if !ok {
		id = uuid.NewString()
		s = &session{decks: make(map[string]deck)}
		m.sessions[id] = s
		m.logger.Debugf("created session %s", id)
	}
	s.lastSeen = m.now()

	d, ok := s.decks[view]
	if !ok || view == string(core.KindMyWords) || view == ViewFavorites {
		d = m.buildDeck(view, words, favorites)
		s.decks[view] = d
	}
	if p != nil && d.resolve(p) {
		m.logger.Debugf("session %s jumped in %s", id, view)
	}
	return &Snapshot{Session: id, View: view, State: d.state()}, nil
}

func (m *Manager) buildDeck(view string, words []core.CustomWord, favorites []int) deck {
	c := m.corpus()
	if c == nil {
		c = &core.Corpus{}
	}
	if view == ViewFavorites {
		return newFavoritesDeck(c, favorites, m.rng)
	}
	return newDeck(core.Kind(view), c, words, m.rng)
}

func (m *Manager) loadWords(ctx context.Context) []core.CustomWord {
	if m.words == nil {
		return nil
	}
	words, err := m.words.LoadCustomWords(ctx)
	if err != nil {
		m.logger.Warnf("loading custom words: %v", err)
		return nil
	}
	return words
}

func (m *Manager) loadFavorites(ctx context.Context) []int {
	if m.favorites == nil {
		return nil
	}
	ids, err := m.favorites.Favorites(ctx)
	if err != nil {
		m.logger.Warnf("loading favorites: %v", err)
		return nil
	}
	return ids
}

// Reveal shows the answer of the current card.
func (m *Manager) Reveal(id, view string) (*Snapshot, error) {
	return m.move(id, view, deck.reveal)
}

// Next moves to the next card and hides the answer.
func (m *Manager) Next(id, view string) (*Snapshot, error) {
	return m.move(id, view, deck.next)
}

// Previous moves to the previous card and hides the answer.
func (m *Manager) Previous(id, view string) (*Snapshot, error) {
	return m.move(id, view, deck.previous)
}

func (m *Manager) move(id, view string, fn func(deck)) (*Snapshot, error) {
	if !ValidView(view) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, view)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	d, ok := s.decks[view]
	if !ok {
		return nil, fmt.Errorf("%w: %s not opened in session %s", ErrUnknownView, view, id)
	}
	s.lastSeen = m.now()
	fn(d)
	return &Snapshot{Session: id, View: view, State: d.state()}, nil
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were dropped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked()
}

func (m *Manager) sweepLocked() int {
	cutoff := m.now().Add(-m.ttl)
	dropped := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		m.logger.Debugf("dropped %d idle sessions", dropped)
	}
	return dropped
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
