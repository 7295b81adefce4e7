package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/rubiojr/fiszki/pkg/core"
)

var (
	plWeekdays = [...]string{"poniedziałek", "wtorek", "środa", "czwartek", "piątek", "sobota", "niedziela"}
	enWeekdays = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	// Month names in the genitive, as used in dates.
	plMonths = [...]string{"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca",
		"lipca", "sierpnia", "września", "października", "listopada", "grudnia"}
	enMonths = [...]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
)

// Dates generates n random spoken dates such as "piątek 3 maja". Weekday,
// day and month are drawn independently and days stop at 28. A nil rng
// uses the global source.
func Dates(n int, rng *rand.Rand) []core.DateEntry {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	out := make([]core.DateEntry, n)
	for i := range out {
		weekday := intN(len(plWeekdays))
		month := intN(len(plMonths))
		day := intN(28) + 1

		out[i] = core.DateEntry{
			ID:         i + 1,
			SourceText: fmt.Sprintf("%s %d %s", plWeekdays[weekday], day, plMonths[month]),
			TargetText: fmt.Sprintf("%s %d %s", enWeekdays[weekday], day, enMonths[month]),
			Weekday:    plWeekdays[weekday],
			DayNumber:  day,
			MonthName:  plMonths[month],
		}
	}
	return out
}
