package core

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrMissingKey marks a conjugation or declension entry without one of
	// its fixed tense or case keys.
	ErrMissingKey = errors.New("missing required key")

	// ErrDuplicateID marks two entries of one dataset sharing an id.
	ErrDuplicateID = errors.New("duplicate id")
)

// Corpus is the set of in-memory datasets a search runs over. Custom words
// are not part of it; they are read from storage on every search.
type Corpus struct {
	Vocabulary       []VocabularyEntry
	Numbers          []NumberEntry
	Dates            []DateEntry
	Tenses           []Conjugation
	Cases            []Declension
	CaseDescriptions []CaseDescription
}

// Validate checks that ids are unique within each dataset.
func (c *Corpus) Validate() error {
	if err := uniqueIDs("vocabulary", c.Vocabulary); err != nil {
		return err
	}
	if err := uniqueIDs("numbers", c.Numbers); err != nil {
		return err
	}
	if err := uniqueIDs("dates", c.Dates); err != nil {
		return err
	}
	return uniqueIDs("cases", c.Cases)
}

// Len returns the number of entries in the dataset of kind k. Custom words
// live in storage, so KindMyWords reports zero.
func (c *Corpus) Len(k Kind) int {
	switch k {
	case KindVocabulary:
		return len(c.Vocabulary)
	case KindNumbers:
		return len(c.Numbers)
	case KindDates:
		return len(c.Dates)
	case KindTenses:
		return len(c.Tenses)
	case KindCases:
		return len(c.Cases)
	}
	return 0
}

// ValidateCustomWords checks a custom word list the same way Validate
// checks the corpus.
func ValidateCustomWords(words []CustomWord) error {
	return uniqueIDs("custom words", words)
}

func uniqueIDs[T interface{ ItemID() (int, bool) }](dataset string, items []T) error {
	seen := make(map[int]int, len(items))
	for i, item := range items {
		id, ok := item.ItemID()
		if !ok {
			continue
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%s: %w %d at positions %d and %d", dataset, ErrDuplicateID, id, prev, i)
		}
		seen[id] = i
	}
	return nil
}

// FavoriteWords returns the vocabulary entries whose ids are in ids, in
// vocabulary order.
func FavoriteWords(vocab []VocabularyEntry, ids []int) []VocabularyEntry {
	out := make([]VocabularyEntry, 0, len(ids))
	for _, w := range vocab {
		if slices.Contains(ids, w.ID) {
			out = append(out, w)
		}
	}
	return out
}
