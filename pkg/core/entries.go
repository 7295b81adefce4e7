package core

import (
	"encoding/json"
	"fmt"
)

// VocabularyEntry is a word with a translation and an example sentence pair.
type VocabularyEntry struct {
	ID            int    `json:"id"`
	Word          string `json:"word"`
	Translation   string `json:"translation"`
	ExampleSource string `json:"exampleSentence"`
	ExampleTarget string `json:"exampleSentenceTranslate"`
	Category      string `json:"category"`
}

func (e VocabularyEntry) ItemID() (int, bool) { return e.ID, true }

// NumberEntry is a numeral spelled out in Polish and English.
type NumberEntry struct {
	ID          int    `json:"id"`
	Value       int    `json:"number"`
	Word        string `json:"polish"`
	Translation string `json:"english"`
	Category    string `json:"category"`
}

func (e NumberEntry) ItemID() (int, bool) { return e.ID, true }

// DateEntry is a spoken date such as "piątek 3 maja".
type DateEntry struct {
	ID         int    `json:"id"`
	SourceText string `json:"polish"`
	TargetText string `json:"english"`
	Weekday    string `json:"dayOfWeek"`
	DayNumber  int    `json:"dayNumber"`
	MonthName  string `json:"month"`
}

func (e DateEntry) ItemID() (int, bool) { return e.ID, true }

// CustomWord is a user imported word pair. Source is always the Polish side.
type CustomWord struct {
	ID             int    `json:"id"`
	Source         string `json:"polish"`
	Target         string `json:"english"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
}

func (w CustomWord) ItemID() (int, bool) { return w.ID, true }

// Conjugation holds the Polish form and English translation of a verb for
// every Tense. Conjugations carry no id; they are addressed by position.
type Conjugation struct {
	Forms        [numTenses]string
	Translations [numTenses]string
}

func (c Conjugation) ItemID() (int, bool) { return 0, false }

// Form returns the Polish form for t.
func (c Conjugation) Form(t Tense) string { return c.Forms[t] }

// Translation returns the English translation for t.
func (c Conjugation) Translation(t Tense) string { return c.Translations[t] }

// UnmarshalJSON requires all twelve tense keys. A missing key is reported as
// ErrMissingKey.
func (c *Conjugation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Conjugation
	for _, t := range Tenses() {
		if err := requireString(raw, t.String(), &out.Forms[t]); err != nil {
			return err
		}
		if err := requireString(raw, t.EnglishKey(), &out.Translations[t]); err != nil {
			return err
		}
	}
	*c = out
	return nil
}

func (c Conjugation) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, 2*numTenses)
	for _, t := range Tenses() {
		m[t.String()] = c.Forms[t]
		m[t.EnglishKey()] = c.Translations[t]
	}
	return json.Marshal(m)
}

// Example is a sentence pair illustrating one case.
type Example struct {
	Source string `json:"pl"`
	Target string `json:"en"`
}

// Declension lists the seven case forms of a word with an example per case.
type Declension struct {
	ID          int
	Base        [numCases]string
	Translation string
	Examples    [numCases]Example
}

func (d Declension) ItemID() (int, bool) { return d.ID, true }

type declensionJSON struct {
	ID          int                        `json:"id"`
	Base        map[string]json.RawMessage `json:"base"`
	Translation string                     `json:"translation"`
	Examples    map[string]json.RawMessage `json:"examples"`
}

// UnmarshalJSON requires every case in both base and examples, and both
// sides of every example.
func (d *Declension) UnmarshalJSON(data []byte) error {
	var raw declensionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Declension{ID: raw.ID, Translation: raw.Translation}
	for _, c := range Cases() {
		if err := requireString(raw.Base, c.String(), &out.Base[c]); err != nil {
			return fmt.Errorf("base: %w", err)
		}

		msg, ok := raw.Examples[c.String()]
		if !ok {
			return fmt.Errorf("examples: %w: %s", ErrMissingKey, c)
		}
		var ex map[string]json.RawMessage
		if err := json.Unmarshal(msg, &ex); err != nil {
			return fmt.Errorf("examples.%s: %w", c, err)
		}
		if err := requireString(ex, "pl", &out.Examples[c].Source); err != nil {
			return fmt.Errorf("examples.%s: %w", c, err)
		}
		if err := requireString(ex, "en", &out.Examples[c].Target); err != nil {
			return fmt.Errorf("examples.%s: %w", c, err)
		}
	}
	*d = out
	return nil
}

func (d Declension) MarshalJSON() ([]byte, error) {
	base := make(map[string]string, numCases)
	examples := make(map[string]Example, numCases)
	for _, c := range Cases() {
		base[c.String()] = d.Base[c]
		examples[c.String()] = d.Examples[c]
	}
	return json.Marshal(struct {
		ID          int                `json:"id"`
		Base        map[string]string  `json:"base"`
		Translation string             `json:"translation"`
		Examples    map[string]Example `json:"examples"`
	}{d.ID, base, d.Translation, examples})
}

// CaseDescription explains when a case is used. Loaded and served as
// reference material; not searched.
type CaseDescription struct {
	Case        string   `json:"case"`
	Question    string   `json:"question"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
}

func requireString(raw map[string]json.RawMessage, key string, dst *string) error {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		return fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	if err := json.Unmarshal(msg, dst); err != nil {
		return fmt.Errorf("key %s: %w", key, err)
	}
	return nil
}
