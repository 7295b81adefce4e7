package search

import (
	"net/url"
	"strconv"

	"github.com/rubiojr/fiszki/pkg/core"
)

// Navigation request parameters understood by every view.
const (
	ParamJumpToID = "jumpToId"
	ParamJumpTo   = "jumpTo"
)

// Result describes one match. Results are values; nothing mutates them
// once a matcher returns.
type Result struct {
	ID          string    `json:"id"`
	Type        core.Kind `json:"type"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	PolishText  string    `json:"polishText"`
	EnglishText string    `json:"englishText"`
	Path        string    `json:"path"`
	// ItemID is the stable id of the matched entry, when the dataset has one.
	ItemID *int `json:"itemId,omitempty"`
	// ItemIndex is the position of the matched entry in its dataset.
	ItemIndex *int `json:"itemIndex,omitempty"`
}

// Link renders the navigation target of the result, preferring the stable
// id over the positional index.
func (r Result) Link() string {
	v := url.Values{}
	switch {
	case r.ItemID != nil:
		v.Set(ParamJumpToID, strconv.Itoa(*r.ItemID))
	case r.ItemIndex != nil:
		v.Set(ParamJumpTo, strconv.Itoa(*r.ItemIndex))
	default:
		return r.Path
	}
	return r.Path + "?" + v.Encode()
}

// Results is the aggregate of one search across every dataset.
type Results struct {
	Vocabulary   []Result `json:"vocabulary"`
	Numbers      []Result `json:"numbers"`
	Dates        []Result `json:"dates"`
	MyWords      []Result `json:"myWords"`
	Tenses       []Result `json:"tenses"`
	Cases        []Result `json:"cases"`
	TotalResults int      `json:"totalResults"`
}

// Section is a non-empty group of results of one kind.
type Section struct {
	Kind    core.Kind `json:"kind"`
	Label   string    `json:"label"`
	Results []Result  `json:"results"`
}

func emptyResults() Results {
	return Results{
		Vocabulary: []Result{},
		Numbers:    []Result{},
		Dates:      []Result{},
		MyWords:    []Result{},
		Tenses:     []Result{},
		Cases:      []Result{},
	}
}

// Section returns the results of kind k.
func (r *Results) Section(k core.Kind) []Result {
	if p := r.slot(k); p != nil {
		return *p
	}
	return nil
}

func (r *Results) set(k core.Kind, rs []Result) {
	if rs == nil {
		rs = []Result{}
	}
	if p := r.slot(k); p != nil {
		*p = rs
	}
}

func (r *Results) slot(k core.Kind) *[]Result {
	switch k {
	case core.KindVocabulary:
		return &r.Vocabulary
	case core.KindNumbers:
		return &r.Numbers
	case core.KindDates:
		return &r.Dates
	case core.KindMyWords:
		return &r.MyWords
	case core.KindTenses:
		return &r.Tenses
	case core.KindCases:
		return &r.Cases
	}
	return nil
}

// Sections returns the non-empty sections in display order.
func (r *Results) Sections() []Section {
	var out []Section
	for _, k := range core.Kinds() {
		if rs := r.Section(k); len(rs) > 0 {
			out = append(out, Section{Kind: k, Label: k.Label(), Results: rs})
		}
	}
	return out
}

func intPtr(i int) *int { return &i }
