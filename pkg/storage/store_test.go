package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/log"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "fiszki.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetPutDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}

	if err := s.Put(ctx, "k", json.RawMessage(`{"a":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "k", json.RawMessage(`[1,2]`)); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok %v, err %v", ok, err)
	}
	if string(v) != `[1,2]` {
		t.Errorf("Get = %s", v)
	}

	if err := s.Put(ctx, "bad", json.RawMessage(`{not json`)); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("Put invalid JSON: err = %v", err)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete absent key: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("key still present after Delete")
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fiszki.db")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, "k", json.RawMessage(`"v"`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(v) != `"v"` {
		t.Errorf("after reopen Get = %s, %v, %v", v, ok, err)
	}
}

func TestCustomWordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	words, err := s.LoadCustomWords(ctx)
	if err != nil || len(words) != 0 {
		t.Fatalf("empty store: %v, %v", words, err)
	}

	want := []core.CustomWord{
		{ID: 1, Source: "kot", Target: "cat", SourceLanguage: "Polish", TargetLanguage: "English"},
		{ID: 2, Source: "pies", Target: "dog", SourceLanguage: "Polish", TargetLanguage: "English"},
	}
	if err := s.SaveCustomWords(ctx, want); err != nil {
		t.Fatalf("SaveCustomWords: %v", err)
	}
	got, err := s.LoadCustomWords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, want) {
		t.Errorf("LoadCustomWords = %+v", got)
	}

	raw, _, _ := s.Get(ctx, CustomWordsKey)
	if !strings.Contains(string(raw), `"polish":"kot"`) {
		t.Errorf("stored layout = %s", raw)
	}

	if err := s.ClearCustomWords(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ = s.LoadCustomWords(ctx)
	if len(got) != 0 {
		t.Errorf("after clear: %+v", got)
	}
}

func TestSaveCustomWordsRejectsDuplicateIDs(t *testing.T) {
	s := openTestStore(t)
	err := s.SaveCustomWords(context.Background(), []core.CustomWord{{ID: 1}, {ID: 1}})
	if !errors.Is(err, core.ErrDuplicateID) {
		t.Errorf("err = %v", err)
	}
}

func TestLoadCustomWordsMalformedDegrades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var buf bytes.Buffer
	log.SetOutput(&buf)

	for _, value := range []string{`{"polish":"kot"}`, `"text"`, `[1,2,3]`} {
		if err := s.Put(ctx, CustomWordsKey, json.RawMessage(value)); err != nil {
			t.Fatal(err)
		}
		words, err := s.LoadCustomWords(ctx)
		if err != nil {
			t.Errorf("%s: unexpected error %v", value, err)
		}
		if len(words) != 0 {
			t.Errorf("%s: expected no words, got %+v", value, words)
		}
	}
	if !strings.Contains(buf.String(), "WARN [storage]") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestLoadCustomWordsClosedStoreFails(t *testing.T) {
	s := openTestStore(t)
	_ = s.Close()
	if _, err := s.LoadCustomWords(context.Background()); err == nil {
		t.Error("expected error from closed store")
	}
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	ids, err := s.Favorites(ctx)
	if err != nil || len(ids) != 0 {
		t.Fatalf("empty favorites = %v, %v", ids, err)
	}

	steps := []struct {
		name string
		op   func() ([]int, error)
		want []int
	}{
		{"add 3", func() ([]int, error) { return s.AddFavorite(ctx, 3) }, []int{3}},
		{"add 1", func() ([]int, error) { return s.AddFavorite(ctx, 1) }, []int{3, 1}},
		{"add 3 again", func() ([]int, error) { return s.AddFavorite(ctx, 3) }, []int{3, 1}},
		{"toggle 7 on", func() ([]int, error) { return s.ToggleFavorite(ctx, 7) }, []int{3, 1, 7}},
		{"toggle 3 off", func() ([]int, error) { return s.ToggleFavorite(ctx, 3) }, []int{1, 7}},
		{"remove 1", func() ([]int, error) { return s.RemoveFavorite(ctx, 1) }, []int{7}},
		{"remove absent", func() ([]int, error) { return s.RemoveFavorite(ctx, 42) }, []int{7}},
	}
	for _, step := range steps {
		got, err := step.op()
		if err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		if !slices.Equal(got, step.want) {
			t.Fatalf("%s: got %v, want %v", step.name, got, step.want)
		}
		stored, _ := s.Favorites(ctx)
		if !slices.Equal(stored, step.want) {
			t.Fatalf("%s: stored %v, want %v", step.name, stored, step.want)
		}
	}

	if ok, _ := s.IsFavorite(ctx, 7); !ok {
		t.Error("IsFavorite(7) = false")
	}
	if ok, _ := s.IsFavorite(ctx, 1); ok {
		t.Error("IsFavorite(1) = true")
	}

	raw, _, _ := s.Get(ctx, FavoritesKey)
	if string(raw) != "[7]" {
		t.Errorf("stored favorites = %s", raw)
	}
}

func TestFavoritesConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := s.AddFavorite(ctx, id); err != nil {
				t.Errorf("AddFavorite(%d): %v", id, err)
			}
		}(i)
	}
	wg.Wait()

	ids, err := s.Favorites(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 10 {
		t.Errorf("expected 10 favorites, got %v", ids)
	}
}

func TestFavoritesMalformedDegrades(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	log.SetOutput(&bytes.Buffer{})

	if err := s.Put(ctx, FavoritesKey, json.RawMessage(`{"x":1}`)); err != nil {
		t.Fatal(err)
	}
	ids, err := s.Favorites(ctx)
	if err != nil || len(ids) != 0 {
		t.Fatalf("Favorites = %v, %v", ids, err)
	}
	ids, err = s.AddFavorite(ctx, 5)
	if err != nil || !slices.Equal(ids, []int{5}) {
		t.Errorf("AddFavorite over malformed value = %v, %v", ids, err)
	}
}

func TestExportRestore(t *testing.T) {
	ctx := context.Background()
	src := openTestStore(t)

	words := []core.CustomWord{{ID: 1, Source: "dom", Target: "house"}}
	if err := src.SaveCustomWords(ctx, words); err != nil {
		t.Fatal(err)
	}
	if _, err := src.AddFavorite(ctx, 12); err != nil {
		t.Fatal(err)
	}

	var backup bytes.Buffer
	if err := src.Export(ctx, &backup); err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst := openTestStore(t)
	if err := dst.Put(ctx, "stale", json.RawMessage(`true`)); err != nil {
		t.Fatal(err)
	}
	n, err := dst.Restore(ctx, bytes.NewReader(backup.Bytes()))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if n != 2 {
		t.Errorf("restored %d keys, want 2", n)
	}

	got, _ := dst.LoadCustomWords(ctx)
	if !slices.Equal(got, words) {
		t.Errorf("restored words = %+v", got)
	}
	favs, _ := dst.Favorites(ctx)
	if !slices.Equal(favs, []int{12}) {
		t.Errorf("restored favorites = %v", favs)
	}
	if _, ok, _ := dst.Get(ctx, "stale"); ok {
		t.Error("restore kept a key missing from the snapshot")
	}
}

func TestRestoreRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.Put(ctx, "keep", json.RawMessage(`1`)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Restore(ctx, strings.NewReader("not zstd")); err == nil {
		t.Error("expected error for non zstd input")
	}

	var buf bytes.Buffer
	enc, _ := zstd.NewWriter(&buf)
	_, _ = enc.Write([]byte(`{"version":99,"entries":{}}`))
	_ = enc.Close()
	if _, err := s.Restore(ctx, &buf); !errors.Is(err, ErrUnsupportedSnapshot) {
		t.Errorf("err = %v, want ErrUnsupportedSnapshot", err)
	}

	if _, ok, _ := s.Get(ctx, "keep"); !ok {
		t.Error("failed restore modified the store")
	}
}
