package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/text"
)

// query is a search term normalized once per matcher run.
type query struct {
	raw  string
	norm string
}

func newQuery(q string) (query, bool) {
	if strings.TrimSpace(q) == "" {
		return query{}, false
	}
	return query{raw: q, norm: text.Normalize(q)}, true
}

// in reports whether any field contains the query.
func (q query) in(fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(text.Normalize(f), q.norm) {
			return true
		}
	}
	return false
}

// SearchVocabulary matches word, translation and both example sentences.
func SearchVocabulary(data []core.VocabularyEntry, q string) []Result {
	qq, ok := newQuery(q)
	if !ok {
		return nil
	}
	k := core.KindVocabulary

	var out []Result
	for i, e := range data {
		if len(out) == k.Cap() {
			break
		}
		if !qq.in(e.Word, e.Translation, e.ExampleSource, e.ExampleTarget) {
			continue
		}
		out = append(out, Result{
			ID:          fmt.Sprintf("%s-%d", k.Prefix(), e.ID),
			Type:        k,
			Title:       e.Word,
			Subtitle:    e.Translation,
			PolishText:  e.Word,
			EnglishText: e.Translation,
			Path:        k.Path(),
			ItemID:      intPtr(e.ID),
			ItemIndex:   intPtr(i),
		})
	}
	return out
}

// SearchNumbers matches the spelled out forms, or the decimal digits of the
// value against the raw query. A partial numeral matches: "4" finds 42.
func SearchNumbers(data []core.NumberEntry, q string) []Result {
	qq, ok := newQuery(q)
	if !ok {
		return nil
	}
	k := core.KindNumbers
	digits := strings.TrimSpace(qq.raw)

	var out []Result
	for i, e := range data {
		if len(out) == k.Cap() {
			break
		}
		if !qq.in(e.Word, e.Translation) && !strings.Contains(strconv.Itoa(e.Value), digits) {
			continue
		}
		out = append(out, Result{
			ID:          fmt.Sprintf("%s-%d", k.Prefix(), e.ID),
			Type:        k,
			Title:       e.Word,
			Subtitle:    fmt.Sprintf("%d - %s", e.Value, e.Translation),
			PolishText:  e.Word,
			EnglishText: e.Translation,
			Path:        k.Path(),
			ItemID:      intPtr(e.ID),
			ItemIndex:   intPtr(i),
		})
	}
	return out
}

// SearchDates matches the full date texts, the weekday and the month name.
func SearchDates(data []core.DateEntry, q string) []Result {
	qq, ok := newQuery(q)
	if !ok {
		return nil
	}
	k := core.KindDates

	var out []Result
	for i, e := range data {
		if len(out) == k.Cap() {
			break
		}
		if !qq.in(e.SourceText, e.TargetText, e.Weekday, e.MonthName) {
			continue
		}
		out = append(out, Result{
			ID:          fmt.Sprintf("%s-%d", k.Prefix(), e.ID),
			Type:        k,
			Title:       e.SourceText,
			Subtitle:    e.TargetText,
			PolishText:  e.SourceText,
			EnglishText: e.TargetText,
			Path:        k.Path(),
			ItemID:      intPtr(e.ID),
			ItemIndex:   intPtr(i),
		})
	}
	return out
}

// SearchCustomWords matches both sides of the user's imported pairs.
func SearchCustomWords(data []core.CustomWord, q string) []Result {
	qq, ok := newQuery(q)
	if !ok {
		return nil
	}
	k := core.KindMyWords

	var out []Result
	for i, w := range data {
		if len(out) == k.Cap() {
			break
		}
		if !qq.in(w.Source, w.Target) {
			continue
		}
		out = append(out, Result{
			ID:          fmt.Sprintf("%s-%d", k.Prefix(), w.ID),
			Type:        k,
			Title:       w.Source,
			Subtitle:    w.Target,
			PolishText:  w.Source,
			EnglishText: w.Target,
			Path:        k.Path(),
			ItemID:      intPtr(w.ID),
			ItemIndex:   intPtr(i),
		})
	}
	return out
}

// SearchTenses tests every tense of every entry on its own, so one entry can
// contribute a result per tense. Conjugations have no id; results carry the
// entry position only.
func SearchTenses(data []core.Conjugation, q string) []Result {
	qq, ok := newQuery(q)
	if !ok {
		return nil
	}
	k := core.KindTenses

	var out []Result
	for i, e := range data {
		for _, t := range core.Tenses() {
			if len(out) == k.Cap() {
				return out
			}
			form, tr := e.Form(t), e.Translation(t)
			if !qq.in(form, tr) {
				continue
			}
			out = append(out, Result{
				ID:          fmt.Sprintf("%s-%d-%s", k.Prefix(), i, t),
				Type:        k,
				Title:       form,
				Subtitle:    fmt.Sprintf("%s - %s", t, tr),
				PolishText:  form,
				EnglishText: tr,
				Path:        k.Path(),
				ItemIndex:   intPtr(i),
			})
		}
	}
	return out
}

// SearchCases tests each base form (against itself and the entry's
// translation) and then each example sentence pair, so one entry can
// contribute up to fourteen results.
func SearchCases(data []core.Declension, q string) []Result {
	qq, ok := newQuery(q)
	if !ok {
		return nil
	}
	k := core.KindCases

	var out []Result
	add := func(r Result) bool {
		out = append(out, r)
		return len(out) < k.Cap()
	}

	for i, e := range data {
		for _, c := range core.Cases() {
			form := e.Base[c]
			if !qq.in(form, e.Translation) {
				continue
			}
			if !add(Result{
				ID:          fmt.Sprintf("%s-%d-%s", k.Prefix(), i, c),
				Type:        k,
				Title:       form,
				Subtitle:    fmt.Sprintf("%s case - %s", c, e.Translation),
				PolishText:  form,
				EnglishText: e.Translation,
				Path:        k.Path(),
				ItemID:      intPtr(e.ID),
				ItemIndex:   intPtr(i),
			}) {
				return out
			}
		}
		for _, c := range core.Cases() {
			ex := e.Examples[c]
			if !qq.in(ex.Source, ex.Target) {
				continue
			}
			if !add(Result{
				ID:          fmt.Sprintf("%s-example-%d-%s", k.Prefix(), i, c),
				Type:        k,
				Title:       ex.Source,
				Subtitle:    fmt.Sprintf("%s example - %s", c, ex.Target),
				PolishText:  ex.Source,
				EnglishText: ex.Target,
				Path:        k.Path(),
				ItemID:      intPtr(e.ID),
				ItemIndex:   intPtr(i),
			}) {
				return out
			}
		}
	}
	return out
}
