package quiz

import (
	"math/rand/v2"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/navigate"
)

// deck is the state of one quiz view inside a session.
type deck interface {
	resolve(p navigate.Params) bool
	reveal()
	next()
	previous()
	state() State
}

// State is what a client needs to draw a quiz card.
type State struct {
	Items    any  `json:"items"`
	Current  any  `json:"current"`
	Index    int  `json:"index"`
	Total    int  `json:"total"`
	Revealed bool `json:"revealed"`
}

// simpleDeck walks a fixed array and wraps around at both ends.
type simpleDeck[T navigate.Identifiable] struct {
	items []T
	pos   navigate.Position
}

func (d *simpleDeck[T]) resolve(p navigate.Params) bool {
	return navigate.ResolveSimple(d.items, p, &d.pos)
}

func (d *simpleDeck[T]) reveal() { d.pos.Revealed = true }

func (d *simpleDeck[T]) next() {
	if n := len(d.items); n > 0 {
		d.pos = navigate.Position{Index: (d.pos.Index + 1) % n}
	}
}

func (d *simpleDeck[T]) previous() {
	if n := len(d.items); n > 0 {
		d.pos = navigate.Position{Index: (d.pos.Index - 1 + n) % n}
	}
}

func (d *simpleDeck[T]) state() State {
	return snapshot(d.items, d.pos)
}

// resampledDeck walks a random working subset of all. Moving past the last
// card draws a fresh subset; moving before the first card does nothing.
type resampledDeck[T navigate.Identifiable] struct {
	all  []T
	size int
	rng  *rand.Rand
	work navigate.Working[T]
}

func newResampledDeck[T navigate.Identifiable](all []T, size int, rng *rand.Rand) *resampledDeck[T] {
	d := &resampledDeck[T]{all: all, size: size, rng: rng}
	d.resample()
	return d
}

func (d *resampledDeck[T]) resample() {
	d.work = navigate.Working[T]{Items: navigate.Sample(d.all, d.size, d.rng)}
}

func (d *resampledDeck[T]) resolve(p navigate.Params) bool {
	return navigate.ResolveResampled(d.all, &d.work, p)
}

func (d *resampledDeck[T]) reveal() { d.work.Position.Revealed = true }

func (d *resampledDeck[T]) next() {
	if len(d.work.Items) == 0 {
		return
	}
	if d.work.Position.Index < len(d.work.Items)-1 {
		d.work.Position = navigate.Position{Index: d.work.Position.Index + 1}
		return
	}
	d.resample()
}

func (d *resampledDeck[T]) previous() {
	if d.work.Position.Index > 0 {
		d.work.Position = navigate.Position{Index: d.work.Position.Index - 1}
	}
}

func (d *resampledDeck[T]) state() State {
	return snapshot(d.work.Items, d.work.Position)
}

func snapshot[T any](items []T, pos navigate.Position) State {
	st := State{Items: items, Index: pos.Index, Total: len(items), Revealed: pos.Revealed}
	if pos.Index >= 0 && pos.Index < len(items) {
		st.Current = items[pos.Index]
	}
	if items == nil {
		st.Items = []T{}
	}
	return st
}

// newDeck builds the deck of kind k from the corpus. words are the custom
// words, needed only for KindMyWords.
func newDeck(k core.Kind, c *core.Corpus, words []core.CustomWord, rng *rand.Rand) deck {
	switch k {
	case core.KindVocabulary:
		return newResampledDeck(c.Vocabulary, k.QuizSize(), rng)
	case core.KindTenses:
		return newResampledDeck(c.Tenses, k.QuizSize(), rng)
	case core.KindCases:
		return newResampledDeck(c.Cases, k.QuizSize(), rng)
	case core.KindNumbers:
		return &simpleDeck[core.NumberEntry]{items: navigate.Shuffle(c.Numbers, rng)}
	case core.KindDates:
		return &simpleDeck[core.DateEntry]{items: c.Dates}
	case core.KindMyWords:
		return &simpleDeck[core.CustomWord]{items: navigate.Shuffle(words, rng)}
	}
	return nil
}

// newFavoritesDeck holds every favorite word in random order.
func newFavoritesDeck(c *core.Corpus, ids []int, rng *rand.Rand) deck {
	favorites := core.FavoriteWords(c.Vocabulary, ids)
	return &simpleDeck[core.VocabularyEntry]{items: navigate.Shuffle(favorites, rng)}
}
