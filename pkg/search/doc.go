// Package search finds entries matching a free text query across every
// fiszki dataset.
//
// # Overview
//
// A query is compared against vocabulary, numbers, dates, the user's custom
// words, verb conjugations and case declensions. Matching is a
// diacritic-insensitive substring test (see pkg/text), so "zolw" finds
// "żółw" and "LODZ" finds "Łódź". There is no ranking and no index: each
// dataset is scanned in order and the first matches win.
//
// # Matchers
//
// Each dataset has its own matcher (SearchVocabulary, SearchNumbers,
// SearchDates, SearchCustomWords, SearchTenses, SearchCases). A matcher
// returns results in dataset order, truncated to the cap of its kind:
//
//	vocabulary 10, numbers 5, dates 5, mywords 5, tenses 8, cases 8
//
// Conjugations and declensions are tested per sub-key. One conjugation can
// produce a result per tense and one declension a result per case form plus
// one per example sentence, each with its own id:
//
//	tense-3-perfectivePast
//	case-0-genitive
//	case-example-0-genitive
//
// Numbers also match when the decimal rendering of the value contains the
// raw query, so "42" finds the entry for czterdzieści dwa.
//
// # Aggregation
//
// Service.Search fans the query out to one handler per core.Kind and
// returns a Results envelope with every section and the total count:
//
//	service := search.NewService(store)
//	results := service.Search(ctx, "kot", corpus)
//	for _, section := range results.Sections() {
//		fmt.Println(section.Label, len(section.Results))
//	}
//
// Blank queries short-circuit: no handler runs and custom words are not
// read. Custom words come from a CustomWordSource on every other call; if
// that read fails the custom word section is empty and a warning is logged.
//
// # Navigation
//
// Every Result names the view that owns it (Path) and either the entry's
// stable id or its position. Result.Link renders the deep link consumed by
// pkg/navigate:
//
//	/polish-to-english?jumpToId=12
//	/tenses?jumpTo=3
package search
