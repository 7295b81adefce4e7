package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/log"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, name, string(data))
}

func testDeclension(id int) core.Declension {
	d := core.Declension{ID: id, Translation: "cat"}
	for _, c := range core.Cases() {
		d.Base[c] = "kot-" + c.String()
		d.Examples[c] = core.Example{Source: "Kot " + c.String(), Target: "Cat " + c.String()}
	}
	return d
}

func writeDatasets(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, dir, VocabularyFile, `[
		{"id": 1, "word": "kot", "translation": "cat", "exampleSentence": "Mam kota.", "exampleSentenceTranslate": "I have a cat.", "category": "animals"},
		{"id": 2, "word": "\\x41la", "translation": "Ala", "exampleSentence": "", "exampleSentenceTranslate": "", "category": "names"}
	]`)
	writeJSON(t, dir, TensesFile, []core.Conjugation{{
		Forms:        [6]string{"zrobiłem", "robiłem", "-", "robię", "zrobię", "będę robić"},
		Translations: [6]string{"I did", "I was doing", "-", "I do", "I will do", "I will be doing"},
	}})
	writeJSON(t, dir, CasesFile, []core.Declension{testDeclension(1), testDeclension(2)})
	writeJSON(t, dir, CaseDescriptionsFile, []core.CaseDescription{{Case: "nominative", Question: "kto? co?", Description: "subject", Examples: []string{"To jest kot."}}})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeDatasets(t, dir)

	corpus, err := Load(dir, Options{DecodeEscapes: true, DatesCount: 7, DatesSeed: 42})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(corpus.Vocabulary) != 2 || corpus.Vocabulary[0].Word != "kot" {
		t.Errorf("vocabulary = %+v", corpus.Vocabulary)
	}
	if corpus.Vocabulary[1].Word != "Ala" {
		t.Errorf("escapes not decoded: %q", corpus.Vocabulary[1].Word)
	}
	if len(corpus.Tenses) != 1 || corpus.Tenses[0].Form(core.ImperfectiveFuture) != "będę robić" {
		t.Errorf("tenses = %+v", corpus.Tenses)
	}
	if len(corpus.Cases) != 2 || corpus.Cases[1].Base[core.Locative] != "kot-locative" {
		t.Errorf("cases = %+v", corpus.Cases)
	}
	if len(corpus.CaseDescriptions) != 1 {
		t.Errorf("case descriptions = %+v", corpus.CaseDescriptions)
	}
	if len(corpus.Dates) != 7 {
		t.Errorf("expected 7 dates, got %d", len(corpus.Dates))
	}
	if len(corpus.Numbers) != len(Numbers()) {
		t.Errorf("numbers = %d entries", len(corpus.Numbers))
	}
}

func TestLoadKeepsEscapesWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	writeDatasets(t, dir)

	corpus, err := Load(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if corpus.Vocabulary[1].Word != `\x41la` {
		t.Errorf("Word = %q", corpus.Vocabulary[1].Word)
	}
	if len(corpus.Dates) != DefaultDatesCount {
		t.Errorf("expected %d default dates, got %d", DefaultDatesCount, len(corpus.Dates))
	}
}

func TestLoadMissingFilesWarn(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)

	corpus, err := Load(t.TempDir(), Options{DatesSeed: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(corpus.Vocabulary) != 0 || len(corpus.Tenses) != 0 || len(corpus.Cases) != 0 {
		t.Errorf("expected empty datasets, got %+v", corpus)
	}
	if corpus.Vocabulary == nil {
		t.Error("empty dataset should be non-nil")
	}
	for _, f := range Files {
		if !strings.Contains(buf.String(), f) {
			t.Errorf("no warning for missing %s: %q", f, buf.String())
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		is      error
		want    string
	}{
		{"relaxed syntax", VocabularyFile, `[{id: 1, word: 'kot'}]`, ErrNotStrictJSON, "fiszki convert"},
		{"not an array", VocabularyFile, `{"id": 1}`, nil, "expected a JSON array"},
		{"missing tense key", TensesFile, `[{"perfectivePast": "x"}]`, core.ErrMissingKey, "entry 0"},
		{"missing case", CasesFile, `[{"id": 1, "base": {}, "examples": {}}]`, core.ErrMissingKey, "entry 0"},
		{"duplicate ids", VocabularyFile, `[{"id": 1}, {"id": 1}]`, core.ErrDuplicateID, "vocabulary"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)
			log.SetOutput(&bytes.Buffer{})

			_, err := Load(dir, Options{DatesSeed: 1})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error %v is not %v", err, tt.is)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	relaxed := `[
		// first word
		{id: 1, word: 'kot', translation: "cat", tags: ['a', 'b',],},
		{id: 2, word: "dom", translation: 'house'},
	]`

	var out bytes.Buffer
	if err := Convert(strings.NewReader(relaxed), &out); err != nil {
		t.Fatalf("Convert: %v", err)
	}

	var entries []core.VocabularyEntry
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("output is not strict JSON: %v\n%s", err, out.String())
	}
	if len(entries) != 2 || entries[0].Word != "kot" || entries[1].Translation != "house" || entries[1].ID != 2 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestConvertQuotesAndComments(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"single quote with double inside", `['say "hi"']`, `["say \"hi\""]`},
		{"escaped single quote", `['it\'s']`, `["it's"]`},
		{"escaped single quote in double quotes", `[{id: 1, word: "it\'s"}]`, `[{"id":1,"word":"it's"}]`},
		{"comment marker inside string", `['http://x', "a//b"]`, `["http://x","a//b"]`},
		{"block comment", `[1, /* two */ 3]`, `[1,3]`},
		{"trailing commas", `{"a": [1, 2, ], }`, `{"a":[1,2]}`},
		{"comma inside string", `["a, ]"]`, `["a, ]"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := Convert(strings.NewReader(tt.in), &out); err != nil {
				t.Fatalf("Convert(%q): %v", tt.in, err)
			}
			var compact bytes.Buffer
			if err := json.Compact(&compact, out.Bytes()); err != nil {
				t.Fatalf("compact: %v", err)
			}
			if compact.String() != tt.want {
				t.Errorf("Convert(%q) = %s, want %s", tt.in, compact.String(), tt.want)
			}
		})
	}
}

func TestConvertUnterminated(t *testing.T) {
	for _, in := range []string{`['abc]`, `["abc]`, `[1 /* open`} {
		if err := Convert(strings.NewReader(in), &bytes.Buffer{}); err == nil {
			t.Errorf("Convert(%q): expected error", in)
		}
	}
}

func TestConvertRejectsGarbage(t *testing.T) {
	if err := Convert(strings.NewReader("[{"), &bytes.Buffer{}); err == nil {
		t.Error("expected error")
	}
}

func TestSpellPolish(t *testing.T) {
	tests := map[int]string{
		0:      "zero",
		1:      "jeden",
		5:      "pięć",
		11:     "jedenaście",
		19:     "dziewiętnaście",
		20:     "dwadzieścia",
		42:     "czterdzieści dwa",
		99:     "dziewięćdziesiąt dziewięć",
		100:    "sto",
		215:    "dwieście piętnaście",
		1000:   "tysiąc",
		1001:   "tysiąc jeden",
		2000:   "dwa tysiące",
		5000:   "pięć tysięcy",
		12000:  "dwanaście tysięcy",
		22000:  "dwadzieścia dwa tysiące",
		100000: "sto tysięcy",
	}
	for n, want := range tests {
		if got := SpellPolish(n); got != want {
			t.Errorf("SpellPolish(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestSpellEnglish(t *testing.T) {
	tests := map[int]string{
		0:      "zero",
		13:     "thirteen",
		40:     "forty",
		42:     "forty-two",
		100:    "one hundred",
		215:    "two hundred fifteen",
		2000:   "two thousand",
		10000:  "ten thousand",
		100000: "one hundred thousand",
	}
	for n, want := range tests {
		if got := SpellEnglish(n); got != want {
			t.Errorf("SpellEnglish(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestNumbersDataset(t *testing.T) {
	numbers := Numbers()
	if len(numbers) != 101+len(extraNumbers) {
		t.Fatalf("len = %d", len(numbers))
	}
	seen := map[int]bool{}
	for i, n := range numbers {
		if n.ID != i+1 {
			t.Errorf("entry %d has id %d", i, n.ID)
		}
		if seen[n.Value] {
			t.Errorf("duplicate value %d", n.Value)
		}
		seen[n.Value] = true
		if n.Word == "" || n.Translation == "" || n.Category == "" {
			t.Errorf("incomplete entry %+v", n)
		}
	}
	if numbers[42].Category != "tens" || numbers[15].Category != "teens" || numbers[len(numbers)-1].Category != "thousands" {
		t.Error("unexpected categories")
	}
}

func TestDates(t *testing.T) {
	dates := Dates(200, rand.New(rand.NewPCG(1, 2)))
	if len(dates) != 200 {
		t.Fatalf("len = %d", len(dates))
	}
	for i, d := range dates {
		if d.ID != i+1 {
			t.Errorf("date %d has id %d", i, d.ID)
		}
		if d.DayNumber < 1 || d.DayNumber > 28 {
			t.Errorf("day out of range: %+v", d)
		}
		parts := strings.Fields(d.SourceText)
		if len(parts) != 3 || parts[0] != d.Weekday || parts[2] != d.MonthName {
			t.Errorf("malformed date %+v", d)
		}
		if len(strings.Fields(d.TargetText)) != 3 {
			t.Errorf("malformed english date %q", d.TargetText)
		}
	}

	again := Dates(200, rand.New(rand.NewPCG(1, 2)))
	for i := range dates {
		if dates[i] != again[i] {
			t.Fatal("same seed produced different dates")
		}
	}

	if len(Dates(0, nil)) != 0 {
		t.Error("Dates(0) should be empty")
	}
	if len(Dates(3, nil)) != 3 {
		t.Error("nil rng should still generate dates")
	}
}
