package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
)

// SnapshotVersion is the format version written by Export.
const SnapshotVersion = 1

var ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")

// Snapshot is the decompressed content of a backup file.
type Snapshot struct {
	Version   int                        `json:"version"`
	CreatedAt time.Time                  `json:"createdAt"`
	Entries   map[string]json.RawMessage `json:"entries"`
}

// Export writes every stored key as a zstd compressed JSON snapshot.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	keys, err := s.Keys(ctx)
	if err != nil {
		return err
	}

	snap := Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC(),
		Entries:   make(map[string]json.RawMessage, len(keys)),
	}
	for _, k := range keys {
		v, ok, err := s.Get(ctx, k)
		if err != nil {
			return err
		}
		if ok {
			snap.Entries[k] = v
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	encoder, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	if _, err := encoder.Write(data); err != nil {
		_ = encoder.Close()
		return fmt.Errorf("compressing snapshot: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	s.logger.Debugf("exported %d keys", len(snap.Entries))
	return nil
}

// ReadSnapshot decodes a backup written by Export.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	var snap Snapshot
	if err := json.NewDecoder(decoder).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSnapshot, snap.Version)
	}
	return &snap, nil
}

// Restore replaces the stored keys with the content of a backup. Keys not
// in the backup are removed. It returns the number of restored keys.
func (s *Store) Restore(ctx context.Context, r io.Reader) (int, error) {
	snap, err := ReadSnapshot(r)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				s.logger.Warnf("failed to rollback restore transaction: %v", err)
			}
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM kv"); err != nil {
		return 0, fmt.Errorf("clearing store: %w", err)
	}
	for k, v := range snap.Entries {
		if err := put(ctx, tx, k, v); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing restore: %w", err)
	}
	committed = true
	s.logger.Infof("restored %d keys from snapshot of %s", len(snap.Entries), snap.CreatedAt.Format(time.RFC3339))
	return len(snap.Entries), nil
}
