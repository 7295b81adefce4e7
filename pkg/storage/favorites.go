package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
)

// FavoritesKey is the key favorite vocabulary ids are stored under.
const FavoritesKey = "polish-app-favorites"

// Favorites returns the favorite vocabulary ids in the order they were
// added. A malformed stored value is logged and treated as empty.
func (s *Store) Favorites(ctx context.Context) ([]int, error) {
	raw, ok, err := s.Get(ctx, FavoritesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []int{}, nil
	}
	return s.decodeFavorites(raw), nil
}

func (s *Store) decodeFavorites(raw json.RawMessage) []int {
	if raw == nil {
		return []int{}
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.logger.Warnf("ignoring malformed favorites: %v", err)
		return []int{}
	}
	if ids == nil {
		ids = []int{}
	}
	return ids
}

// IsFavorite reports whether id is a favorite.
func (s *Store) IsFavorite(ctx context.Context, id int) (bool, error) {
	ids, err := s.Favorites(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, id), nil
}

// AddFavorite appends id unless it is already a favorite and returns the
// updated list.
func (s *Store) AddFavorite(ctx context.Context, id int) ([]int, error) {
	return s.modifyFavorites(ctx, func(ids []int) []int {
		if slices.Contains(ids, id) {
			return ids
		}
		return append(ids, id)
	})
}

// RemoveFavorite drops id and returns the updated list.
func (s *Store) RemoveFavorite(ctx context.Context, id int) ([]int, error) {
	return s.modifyFavorites(ctx, func(ids []int) []int {
		return slices.DeleteFunc(ids, func(v int) bool { return v == id })
	})
}

// ToggleFavorite removes id if it is a favorite and adds it otherwise.
func (s *Store) ToggleFavorite(ctx context.Context, id int) ([]int, error) {
	return s.modifyFavorites(ctx, func(ids []int) []int {
		if i := slices.Index(ids, id); i >= 0 {
			return slices.Delete(ids, i, i+1)
		}
		return append(ids, id)
	})
}

func (s *Store) modifyFavorites(ctx context.Context, fn func([]int) []int) ([]int, error) {
	var updated []int
	err := s.update(ctx, FavoritesKey, func(raw json.RawMessage) (json.RawMessage, error) {
		updated = fn(s.decodeFavorites(raw))
		data, err := json.Marshal(updated)
		if err != nil {
			return nil, fmt.Errorf("marshaling favorites: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
