package core

// Tense is one of the six aspect/tense combinations of a conjugation entry.
type Tense int

const (
	PerfectivePast Tense = iota
	ImperfectivePast
	PerfectivePresent
	ImperfectivePresent
	PerfectiveFuture
	ImperfectiveFuture

	numTenses
)

var tenseKeys = [numTenses]string{
	"perfectivePast",
	"imperfectivePast",
	"perfectivePresent",
	"imperfectivePresent",
	"perfectiveFuture",
	"imperfectiveFuture",
}

var tenseEnglishKeys = [numTenses]string{
	"englishPerfectivePast",
	"englishImperfectivePast",
	"englishPerfectivePresent",
	"englishImperfectivePresent",
	"englishPerfectiveFuture",
	"englishImperfectiveFuture",
}

// Tenses returns the tense keys in their canonical order.
func Tenses() []Tense {
	out := make([]Tense, numTenses)
	for i := range out {
		out[i] = Tense(i)
	}
	return out
}

// String returns the data key of the tense, e.g. "perfectivePast".
func (t Tense) String() string {
	if t < 0 || t >= numTenses {
		return "unknown"
	}
	return tenseKeys[t]
}

// EnglishKey returns the data key that holds the tense's translation.
func (t Tense) EnglishKey() string {
	if t < 0 || t >= numTenses {
		return "unknown"
	}
	return tenseEnglishKeys[t]
}

// Case is one of the seven Polish grammatical cases.
type Case int

const (
	Nominative Case = iota
	Genitive
	Dative
	Accusative
	Instrumental
	Locative
	Vocative

	numCases
)

var caseKeys = [numCases]string{
	"nominative",
	"genitive",
	"dative",
	"accusative",
	"instrumental",
	"locative",
	"vocative",
}

// Cases returns the case keys in their canonical order.
func Cases() []Case {
	out := make([]Case, numCases)
	for i := range out {
		out[i] = Case(i)
	}
	return out
}

func (c Case) String() string {
	if c < 0 || c >= numCases {
		return "unknown"
	}
	return caseKeys[c]
}
