package core

import (
	"fmt"
	"strings"
)

// Kind tags a dataset. The set is closed: every Kind has exactly one
// search handler and one quiz view.
type Kind string

const (
	KindVocabulary Kind = "vocabulary"
	KindNumbers    Kind = "numbers"
	KindDates      Kind = "dates"
	KindMyWords    Kind = "mywords"
	KindTenses     Kind = "tenses"
	KindCases      Kind = "cases"
)

// NavMode selects how a view resolves jump requests.
type NavMode int

const (
	// NavSimple views hold the whole dataset in a fixed order.
	NavSimple NavMode = iota
	// NavResampled views show a randomly sampled working subset.
	NavResampled
)

type kindInfo struct {
	cap      int
	path     string
	prefix   string
	label    string
	nav      NavMode
	quizSize int
}

var kinds = map[Kind]kindInfo{
	KindVocabulary: {cap: 10, path: "/polish-to-english", prefix: "vocab", label: "Vocabulary", nav: NavResampled, quizSize: 20},
	KindNumbers:    {cap: 5, path: "/numbers", prefix: "number", label: "Numbers", nav: NavSimple},
	KindDates:      {cap: 5, path: "/dates", prefix: "date", label: "Dates", nav: NavSimple},
	KindMyWords:    {cap: 5, path: "/my-words", prefix: "custom", label: "My Words", nav: NavSimple},
	KindTenses:     {cap: 8, path: "/tenses", prefix: "tense", label: "Tenses", nav: NavResampled, quizSize: 15},
	KindCases:      {cap: 8, path: "/cases", prefix: "case", label: "Cases", nav: NavResampled, quizSize: 15},
}

// Kinds returns every Kind in display order.
func Kinds() []Kind {
	return []Kind{KindVocabulary, KindNumbers, KindDates, KindMyWords, KindTenses, KindCases}
}

// Cap is the maximum number of search results the kind contributes.
func (k Kind) Cap() int { return kinds[k].cap }

// Path is the route of the view that owns the dataset.
func (k Kind) Path() string { return kinds[k].path }

// Prefix is the leading segment of result ids for the kind.
func (k Kind) Prefix() string { return kinds[k].prefix }

// Label is the human readable section title.
func (k Kind) Label() string { return kinds[k].label }

// NavMode reports whether the kind's view is simple or resampled.
func (k Kind) NavMode() NavMode { return kinds[k].nav }

// QuizSize is the working subset size for resampled views. Zero for
// simple views, which show the whole dataset.
func (k Kind) QuizSize() int { return kinds[k].quizSize }

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

func (k Kind) String() string { return string(k) }

// ParseKind accepts a kind name ("tenses") or a view path ("/tenses",
// "polish-to-english").
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k := Kind(s); k.Valid() {
		return k, nil
	}
	path := "/" + strings.TrimPrefix(s, "/")
	for _, k := range Kinds() {
		if k.Path() == path {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown dataset kind %q", s)
}
