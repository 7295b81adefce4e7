package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/log"
	"github.com/rubiojr/fiszki/pkg/text"
)

// Dataset file names inside the data directory.
const (
	VocabularyFile       = "1000-words.json"
	TensesFile           = "tenses.json"
	CasesFile            = "cases.json"
	CaseDescriptionsFile = "case-descriptions.json"
)

// Files lists every dataset file Load reads.
var Files = []string{VocabularyFile, TensesFile, CasesFile, CaseDescriptionsFile}

var ErrNotStrictJSON = errors.New("not strict JSON")

// DefaultDatesCount is the number of dates generated when Options leaves it
// unset.
const DefaultDatesCount = 50

type Options struct {
	// DecodeEscapes resolves literal \xHH escapes in every text field.
	DecodeEscapes bool
	DatesCount    int
	// DatesSeed seeds the dates generator. Zero seeds from the clock.
	DatesSeed uint64
}

var logger = log.ForService("dataset")

// Load reads the datasets in dir and builds a validated corpus. A missing
// file yields an empty dataset and a warning. Files that are not strict JSON
// fail with ErrNotStrictJSON.
func Load(dir string, opts Options) (*core.Corpus, error) {
	corpus := &core.Corpus{}

	var err error
	if corpus.Vocabulary, err = readArray[core.VocabularyEntry](dir, VocabularyFile); err != nil {
		return nil, err
	}
	if corpus.Tenses, err = readArray[core.Conjugation](dir, TensesFile); err != nil {
		return nil, err
	}
	if corpus.Cases, err = readArray[core.Declension](dir, CasesFile); err != nil {
		return nil, err
	}
	if corpus.CaseDescriptions, err = readArray[core.CaseDescription](dir, CaseDescriptionsFile); err != nil {
		return nil, err
	}

	if opts.DecodeEscapes {
		decodeCorpus(corpus)
	}

	count := opts.DatesCount
	if count <= 0 {
		count = DefaultDatesCount
	}
	seed := opts.DatesSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	corpus.Numbers = Numbers()
	corpus.Dates = Dates(count, rand.New(rand.NewPCG(seed, seed>>1)))

	if err := corpus.Validate(); err != nil {
		return nil, fmt.Errorf("validating datasets: %w", err)
	}

	logger.Debugf("loaded %d vocabulary, %d tenses, %d cases, %d case descriptions from %s",
		len(corpus.Vocabulary), len(corpus.Tenses), len(corpus.Cases), len(corpus.CaseDescriptions), dir)
	return corpus, nil
}

// readArray decodes the JSON array in dir/name entry by entry so errors
// name the offending position.
func readArray[T any](dir, name string) ([]T, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warnf("dataset %s not found, using an empty dataset", path)
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("parsing %s: expected a JSON array: %w", path, err)
		}
		return nil, fmt.Errorf("parsing %s: %w: %v; convert relaxed files with `fiszki convert`", path, ErrNotStrictJSON, err)
	}

	out := make([]T, 0, len(raw))
	for i, msg := range raw {
		var v T
		if err := json.Unmarshal(msg, &v); err != nil {
			return nil, fmt.Errorf("parsing %s: entry %d: %w", path, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeCorpus(c *core.Corpus) {
	d := text.DecodeEscapes
	for i := range c.Vocabulary {
		e := &c.Vocabulary[i]
		e.Word, e.Translation = d(e.Word), d(e.Translation)
		e.ExampleSource, e.ExampleTarget = d(e.ExampleSource), d(e.ExampleTarget)
		e.Category = d(e.Category)
	}
	for i := range c.Tenses {
		e := &c.Tenses[i]
		for t := range e.Forms {
			e.Forms[t], e.Translations[t] = d(e.Forms[t]), d(e.Translations[t])
		}
	}
	for i := range c.Cases {
		e := &c.Cases[i]
		e.Translation = d(e.Translation)
		for k := range e.Base {
			e.Base[k] = d(e.Base[k])
			e.Examples[k].Source, e.Examples[k].Target = d(e.Examples[k].Source), d(e.Examples[k].Target)
		}
	}
	for i := range c.CaseDescriptions {
		e := &c.CaseDescriptions[i]
		e.Case, e.Question, e.Description = d(e.Case), d(e.Question), d(e.Description)
		for j := range e.Examples {
			e.Examples[j] = d(e.Examples[j])
		}
	}
}
