package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rubiojr/fiszki/pkg/core"
)

// CustomWordsKey is the key custom words are stored under.
const CustomWordsKey = "customWords"

// LoadCustomWords reads the custom word list fresh from the database. An
// absent key yields no words. A stored value that is not a JSON array of
// words is logged and treated as empty; only database failures are errors.
func (s *Store) LoadCustomWords(ctx context.Context) ([]core.CustomWord, error) {
	raw, ok, err := s.Get(ctx, CustomWordsKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var words []core.CustomWord
	if err := json.Unmarshal(raw, &words); err != nil {
		s.logger.Warnf("ignoring malformed custom words: %v", err)
		return nil, nil
	}
	return words, nil
}

// SaveCustomWords replaces the stored custom word list.
func (s *Store) SaveCustomWords(ctx context.Context, words []core.CustomWord) error {
	if err := core.ValidateCustomWords(words); err != nil {
		return fmt.Errorf("saving custom words: %w", err)
	}
	if words == nil {
		words = []core.CustomWord{}
	}
	data, err := json.Marshal(words)
	if err != nil {
		return fmt.Errorf("marshaling custom words: %w", err)
	}
	return s.Put(ctx, CustomWordsKey, data)
}

// ClearCustomWords removes every custom word.
func (s *Store) ClearCustomWords(ctx context.Context) error {
	return s.Delete(ctx, CustomWordsKey)
}
