package dataset

import (
	"strings"

	"github.com/rubiojr/fiszki/pkg/core"
)

var (
	plUnits = [...]string{"zero", "jeden", "dwa", "trzy", "cztery", "pięć", "sześć", "siedem", "osiem", "dziewięć"}
	plTeens = [...]string{"dziesięć", "jedenaście", "dwanaście", "trzynaście", "czternaście", "piętnaście",
		"szesnaście", "siedemnaście", "osiemnaście", "dziewiętnaście"}
	plTens     = [...]string{"", "", "dwadzieścia", "trzydzieści", "czterdzieści", "pięćdziesiąt", "sześćdziesiąt", "siedemdziesiąt", "osiemdziesiąt", "dziewięćdziesiąt"}
	plHundreds = [...]string{"", "sto", "dwieście", "trzysta", "czterysta", "pięćset", "sześćset", "siedemset", "osiemset", "dziewięćset"}

	enUnits = [...]string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen", "eighteen", "nineteen"}
	enTens = [...]string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}
)

// extraNumbers are the round numbers past 100 in the numbers dataset.
var extraNumbers = []int{200, 300, 400, 500, 600, 700, 800, 900, 1000, 2000, 5000, 10000, 100000}

// Numbers returns the fixed numbers dataset: every number from 0 to 100
// followed by selected hundreds and thousands.
func Numbers() []core.NumberEntry {
	values := make([]int, 0, 101+len(extraNumbers))
	for n := 0; n <= 100; n++ {
		values = append(values, n)
	}
	values = append(values, extraNumbers...)

	out := make([]core.NumberEntry, len(values))
	for i, n := range values {
		out[i] = core.NumberEntry{
			ID:          i + 1,
			Value:       n,
			Word:        SpellPolish(n),
			Translation: SpellEnglish(n),
			Category:    numberCategory(n),
		}
	}
	return out
}

func numberCategory(n int) string {
	switch {
	case n < 10:
		return "units"
	case n < 20:
		return "teens"
	case n < 100:
		return "tens"
	case n < 1000:
		return "hundreds"
	}
	return "thousands"
}

// SpellPolish writes n in Polish words. n must be in [0, 999999].
func SpellPolish(n int) string {
	if n == 0 {
		return plUnits[0]
	}
	var words []string
	if k := n / 1000; k > 0 {
		if k == 1 {
			words = append(words, "tysiąc")
		} else {
			words = append(words, polishBelowThousand(k)...)
			words = append(words, thousandForm(k))
		}
	}
	words = append(words, polishBelowThousand(n%1000)...)
	return strings.Join(words, " ")
}

// thousandForm picks the plural of "tysiąc" that follows k.
func thousandForm(k int) string {
	last, lastTwo := k%10, k%100
	if last >= 2 && last <= 4 && (lastTwo < 12 || lastTwo > 14) {
		return "tysiące"
	}
	return "tysięcy"
}

func polishBelowThousand(n int) []string {
	var words []string
	if h := n / 100; h > 0 {
		words = append(words, plHundreds[h])
	}
	rest := n % 100
	switch {
	case rest >= 10 && rest < 20:
		words = append(words, plTeens[rest-10])
	default:
		if t := rest / 10; t > 0 {
			words = append(words, plTens[t])
		}
		if u := rest % 10; u > 0 {
			words = append(words, plUnits[u])
		}
	}
	return words
}

// SpellEnglish writes n in English words. n must be in [0, 999999].
func SpellEnglish(n int) string {
	if n == 0 {
		return enUnits[0]
	}
	var words []string
	if k := n / 1000; k > 0 {
		words = append(words, englishBelowThousand(k)...)
		words = append(words, "thousand")
	}
	words = append(words, englishBelowThousand(n%1000)...)
	return strings.Join(words, " ")
}

func englishBelowThousand(n int) []string {
	var words []string
	if h := n / 100; h > 0 {
		words = append(words, enUnits[h], "hundred")
	}
	rest := n % 100
	switch {
	case rest == 0:
	case rest < 20:
		words = append(words, enUnits[rest])
	case rest%10 == 0:
		words = append(words, enTens[rest/10])
	default:
		words = append(words, enTens[rest/10]+"-"+enUnits[rest%10])
	}
	return words
}
