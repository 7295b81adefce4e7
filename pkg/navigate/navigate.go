// Package navigate resolves deep-link jump requests (jumpToId, jumpTo) to a
// position inside a quiz view.
//
// Simple views (numbers, dates, custom words) show a fixed array and resolve
// with ResolveSimple. Resampled views (vocabulary, tenses, cases) show a
// random working subset of a larger dataset and resolve with
// ResolveResampled, which can splice the requested item into the subset.
//
// Request parameters are single use: a successful jump deletes them from
// their carrier so re-evaluating the view does not jump again. A request that
// resolves to nothing leaves every piece of state untouched.
package navigate

import (
	"math/rand/v2"
	"strconv"

	"github.com/rubiojr/fiszki/pkg/search"
)

// WorkingSetSize caps the working subset of a resampled view.
const WorkingSetSize = 20

// Params carries jump requests. url.Values satisfies it.
type Params interface {
	Get(key string) string
	Del(key string)
}

// Identifiable is implemented by every dataset entry. Entries without a
// stable id report false.
type Identifiable interface {
	ItemID() (int, bool)
}

// Position is the cursor of a view.
type Position struct {
	Index    int  `json:"index"`
	Revealed bool `json:"revealed"`
}

// Working is the current working subset of a resampled view.
type Working[T Identifiable] struct {
	Items    []T
	Position Position
}

type request struct {
	id, index       int
	hasID, hasIndex bool
}

// parseRequest reads jumpToId and jumpTo with strconv.Atoi. Values with
// trailing garbage such as "3abc" count as absent, not as 3.
func parseRequest(p Params) request {
	var r request
	if v := p.Get(search.ParamJumpToID); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.id, r.hasID = n, true
		}
	}
	if v := p.Get(search.ParamJumpTo); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			r.index, r.hasIndex = n, true
		}
	}
	return r
}

func (r request) empty() bool { return !r.hasID && !r.hasIndex }

func consume(p Params) {
	p.Del(search.ParamJumpToID)
	p.Del(search.ParamJumpTo)
}

func indexOf[T Identifiable](items []T, id int) int {
	for i, item := range items {
		if itemID, ok := item.ItemID(); ok && itemID == id {
			return i
		}
	}
	return -1
}

func (r request) indexIn(n int) int {
	if r.hasIndex && r.index >= 0 && r.index < n {
		return r.index
	}
	return -1
}

// ResolveSimple jumps within a fixed dataset: by id first, then by a bounds
// checked index. It reports whether pos moved.
func ResolveSimple[T Identifiable](items []T, p Params, pos *Position) bool {
	if len(items) == 0 {
		return false
	}
	req := parseRequest(p)
	if req.empty() {
		return false
	}

	target := -1
	if req.hasID {
		target = indexOf(items, req.id)
	}
	if target < 0 {
		target = req.indexIn(len(items))
	}
	if target < 0 {
		return false
	}

	pos.Index = target
	pos.Revealed = false
	consume(p)
	return true
}

// ResolveResampled jumps within a working subset drawn from all. An id found
// in the subset is used in place. An id found only in all is spliced to the
// front of a new subset holding the target followed by up to the first 19
// previous items. An id found nowhere falls back to a bounds checked index
// into the current subset. It reports whether w changed.
func ResolveResampled[T Identifiable](all []T, w *Working[T], p Params) bool {
	if len(w.Items) == 0 {
		return false
	}
	req := parseRequest(p)
	if req.empty() {
		return false
	}

	target := -1
	if req.hasID {
		target = indexOf(w.Items, req.id)
		if target < 0 {
			if i := indexOf(all, req.id); i >= 0 {
				keep := min(len(w.Items)-1, WorkingSetSize-1)
				items := make([]T, 0, keep+1)
				items = append(items, all[i])
				items = append(items, w.Items[:keep]...)
				w.Items = items
				target = 0
			}
		}
	}
	if target < 0 {
		target = req.indexIn(len(w.Items))
	}
	if target < 0 {
		return false
	}

	w.Position.Index = target
	w.Position.Revealed = false
	consume(p)
	return true
}

// Sample returns a random subset of up to n items from items, leaving items
// untouched.
func Sample[T any](items []T, n int, rng *rand.Rand) []T {
	out := Shuffle(items, rng)
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Shuffle returns a shuffled copy of items.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
