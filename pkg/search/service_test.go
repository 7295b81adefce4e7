package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/log"
)

type stubWords struct {
	words []core.CustomWord
	err   error
	calls atomic.Int32
}

func (s *stubWords) LoadCustomWords(ctx context.Context) ([]core.CustomWord, error) {
	s.calls.Add(1)
	return s.words, s.err
}

func conjugation(forms, translations [6]string) core.Conjugation {
	return core.Conjugation{Forms: forms, Translations: translations}
}

func testCorpus() *core.Corpus {
	return &core.Corpus{
		Vocabulary: []core.VocabularyEntry{
			{ID: 10, Word: "kot", Translation: "cat", ExampleSource: "Mam kota.", ExampleTarget: "I have a cat."},
			{ID: 11, Word: "żółw", Translation: "turtle", ExampleSource: "Żółw jest wolny.", ExampleTarget: "The turtle is slow."},
			{ID: 12, Word: "dom", Translation: "house", ExampleSource: "To mój dom.", ExampleTarget: "This is my house."},
		},
		Numbers: []core.NumberEntry{
			{ID: 1, Value: 4, Word: "cztery", Translation: "four"},
			{ID: 2, Value: 42, Word: "czterdzieści dwa", Translation: "forty-two"},
			{ID: 3, Value: 100, Word: "sto", Translation: "one hundred"},
		},
		Dates: []core.DateEntry{
			{ID: 1, SourceText: "piątek 3 maja", TargetText: "Friday 3 May", Weekday: "piątek", DayNumber: 3, MonthName: "maja"},
			{ID: 2, SourceText: "środa 12 lutego", TargetText: "Wednesday 12 February", Weekday: "środa", DayNumber: 12, MonthName: "lutego"},
		},
		Tenses: []core.Conjugation{
			conjugation(
				[6]string{"zrobiłem", "robiłem", "-", "robię", "zrobię", "będę robić"},
				[6]string{"I did", "I was doing", "-", "I do", "I will do", "I will be doing"},
			),
			conjugation(
				[6]string{"napisałem", "pisałem", "-", "piszę", "napiszę", "będę pisać"},
				[6]string{"I wrote", "I was writing", "-", "I write", "I will write", "I will be writing"},
			),
		},
		Cases: []core.Declension{declension(5, "kot", "cat"), declension(6, "pies", "dog")},
	}
}

func declension(id int, word, translation string) core.Declension {
	d := core.Declension{ID: id, Translation: translation}
	for _, c := range core.Cases() {
		d.Base[c] = fmt.Sprintf("%s-%s", word, c)
		d.Examples[c] = core.Example{
			Source: fmt.Sprintf("Zdanie z %s (%s).", word, c),
			Target: fmt.Sprintf("Sentence with %s (%s).", translation, c),
		}
	}
	return d
}

func TestSearchBlankQuerySkipsHandlers(t *testing.T) {
	words := &stubWords{words: []core.CustomWord{{ID: 1, Source: "kot", Target: "cat"}}}
	s := NewService(words)

	calls := 0
	s.handlers = make(map[core.Kind]handler, len(handlers))
	for k, h := range handlers {
		s.handlers[k] = func(ctx context.Context, svc *Service, q string, c *core.Corpus) []Result {
			calls++
			return h(ctx, svc, q, c)
		}
	}

	for _, q := range []string{"", " ", "\t\n  "} {
		results := s.Search(context.Background(), q, testCorpus())
		if results.TotalResults != 0 {
			t.Errorf("query %q: expected 0 results, got %d", q, results.TotalResults)
		}
		for _, k := range core.Kinds() {
			section := results.Section(k)
			if section == nil || len(section) != 0 {
				t.Errorf("query %q: section %s should be empty and non-nil, got %v", q, k, section)
			}
		}
	}

	if calls != 0 {
		t.Errorf("expected no handler calls for blank queries, got %d", calls)
	}
	if n := words.calls.Load(); n != 0 {
		t.Errorf("expected no custom word reads for blank queries, got %d", n)
	}

	s.Search(context.Background(), "kot", testCorpus())
	if calls != len(core.Kinds()) {
		t.Errorf("expected one call per kind, got %d", calls)
	}
}

func TestSearchAggregates(t *testing.T) {
	words := &stubWords{words: []core.CustomWord{
		{ID: 1, Source: "kotlet", Target: "cutlet"},
		{ID: 2, Source: "pies", Target: "dog"},
	}}
	s := NewService(words)

	results := s.Search(context.Background(), "kot", testCorpus())

	if len(results.Vocabulary) != 1 || results.Vocabulary[0].ID != "vocab-10" {
		t.Errorf("vocabulary = %+v", results.Vocabulary)
	}
	if len(results.MyWords) != 1 || results.MyWords[0].ID != "custom-1" {
		t.Errorf("myWords = %+v", results.MyWords)
	}
	if len(results.Cases) != 8 {
		t.Errorf("expected cases capped at 8, got %d", len(results.Cases))
	}

	total := 0
	for _, k := range core.Kinds() {
		total += len(results.Section(k))
	}
	if results.TotalResults != total {
		t.Errorf("TotalResults = %d, sum of sections = %d", results.TotalResults, total)
	}
	if n := words.calls.Load(); n != 1 {
		t.Errorf("expected custom words read once, got %d", n)
	}
}

func TestSearchCustomWordsFailureDegrades(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetOutput(buf)

	s := NewService(&stubWords{err: errors.New("database is locked")})
	results := s.Search(context.Background(), "kot", testCorpus())

	if len(results.MyWords) != 0 {
		t.Errorf("expected empty custom words section, got %d", len(results.MyWords))
	}
	if len(results.Vocabulary) == 0 {
		t.Error("other sections must survive a custom word failure")
	}
	if !strings.Contains(buf.String(), "database is locked") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}

func TestSearchNilSourceAndCorpus(t *testing.T) {
	s := NewService(nil)
	results := s.Search(context.Background(), "kot", nil)
	if results.TotalResults != 0 {
		t.Errorf("expected no results, got %d", results.TotalResults)
	}
}

func TestSearchConcurrent(t *testing.T) {
	s := NewService(&stubWords{})
	corpus := testCorpus()

	done := make(chan Results)
	for i := 0; i < 8; i++ {
		go func() {
			done <- s.Search(context.Background(), "pisa", corpus)
		}()
	}
	for i := 0; i < 8; i++ {
		r := <-done
		if len(r.Tenses) != 3 {
			t.Errorf("expected 3 tense results, got %d", len(r.Tenses))
		}
	}
}

func TestResultsSections(t *testing.T) {
	s := NewService(nil)
	results := s.Search(context.Background(), "sto", testCorpus())

	sections := results.Sections()
	if len(sections) == 0 {
		t.Fatal("expected at least one section")
	}
	order := map[core.Kind]int{}
	for i, k := range core.Kinds() {
		order[k] = i
	}
	for i, sec := range sections {
		if len(sec.Results) == 0 {
			t.Errorf("section %s is empty", sec.Kind)
		}
		if i > 0 && order[sections[i-1].Kind] > order[sec.Kind] {
			t.Errorf("sections out of order: %s before %s", sections[i-1].Kind, sec.Kind)
		}
	}
}

func TestParseSearchParams(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{query: "q=kot", expected: "kot"},
		{query: "q=%C5%82%C3%B3d%C5%BA", expected: "łódź"},
		{query: "", expected: ""},
		{query: "page=2", expected: ""},
	}
	for _, tt := range tests {
		values, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatal(err)
		}
		if got := ParseSearchParams(values).Query; got != tt.expected {
			t.Errorf("ParseSearchParams(%q).Query = %q, want %q", tt.query, got, tt.expected)
		}
	}
}
