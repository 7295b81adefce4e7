package search

import (
	"context"
	"net/url"
	"strings"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/log"
)

// CustomWordSource provides the user's current custom word list. It is
// consulted on every non-blank search so results reflect the latest
// saved state.
type CustomWordSource interface {
	LoadCustomWords(ctx context.Context) ([]core.CustomWord, error)
}

// SearchParams holds the parameters of a search request.
type SearchParams struct {
	// Query is the free text to look for. Blank queries yield no results.
	Query string
}

// ParseSearchParams reads search parameters from an HTTP query string.
//
// Supported parameters:
//   - q: search query string
func ParseSearchParams(values url.Values) SearchParams {
	return SearchParams{Query: values.Get("q")}
}

// handler searches one dataset kind.
type handler func(ctx context.Context, s *Service, q string, corpus *core.Corpus) []Result

// handlers has exactly one entry per core.Kind.
var handlers = map[core.Kind]handler{
	core.KindVocabulary: func(_ context.Context, _ *Service, q string, c *core.Corpus) []Result {
		return SearchVocabulary(c.Vocabulary, q)
	},
	core.KindNumbers: func(_ context.Context, _ *Service, q string, c *core.Corpus) []Result {
		return SearchNumbers(c.Numbers, q)
	},
	core.KindDates: func(_ context.Context, _ *Service, q string, c *core.Corpus) []Result {
		return SearchDates(c.Dates, q)
	},
	core.KindMyWords: func(ctx context.Context, s *Service, q string, _ *core.Corpus) []Result {
		return SearchCustomWords(s.customWords(ctx), q)
	},
	core.KindTenses: func(_ context.Context, _ *Service, q string, c *core.Corpus) []Result {
		return SearchTenses(c.Tenses, q)
	},
	core.KindCases: func(_ context.Context, _ *Service, q string, c *core.Corpus) []Result {
		return SearchCases(c.Cases, q)
	},
}

// Service runs a query against every dataset and assembles the aggregate.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	words    CustomWordSource
	handlers map[core.Kind]handler
	logger   *log.Logger
}

// NewService creates a search service reading custom words from words.
// A nil source behaves as an empty custom word list.
func NewService(words CustomWordSource) *Service {
	return &Service{
		words:    words,
		handlers: handlers,
		logger:   log.ForService("search"),
	}
}

// Search matches q against every dataset of corpus and the stored custom
// words. A whitespace-only query returns empty sections without scanning
// anything.
func (s *Service) Search(ctx context.Context, q string, corpus *core.Corpus) Results {
	results := emptyResults()
	if strings.TrimSpace(q) == "" {
		return results
	}
	if corpus == nil {
		corpus = &core.Corpus{}
	}

	for _, k := range core.Kinds() {
		rs := s.handlers[k](ctx, s, q, corpus)
		results.set(k, rs)
		results.TotalResults += len(rs)
	}

	s.logger.Debugf("query %q: %d results", q, results.TotalResults)
	return results
}

// customWords fetches the stored word list. Storage failures degrade to an
// empty list so the rest of the search still completes.
func (s *Service) customWords(ctx context.Context) []core.CustomWord {
	if s.words == nil {
		return nil
	}
	words, err := s.words.LoadCustomWords(ctx)
	if err != nil {
		s.logger.Warnf("loading custom words: %v", err)
		return nil
	}
	return words
}
