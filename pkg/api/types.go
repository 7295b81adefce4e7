package api

import (
	"encoding/json"
	"time"

	"github.com/rubiojr/fiszki/pkg/core"
	"github.com/rubiojr/fiszki/pkg/csvimport"
	"github.com/rubiojr/fiszki/pkg/quiz"
	"github.com/rubiojr/fiszki/pkg/search"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type SearchResponse struct {
	Query string `json:"query"`
	search.Results
}

type QuizResponse struct {
	*quiz.Snapshot
	// Location is the view route with consumed jump parameters removed.
	Location string `json:"location"`
}

type WordsResponse struct {
	Words []core.CustomWord `json:"words"`
	Count int               `json:"count"`
}

type ImportResponse struct {
	*csvimport.Result
	Saved bool `json:"saved"`
}

type FavoritesResponse struct {
	IDs   []int                  `json:"ids"`
	Words []core.VocabularyEntry `json:"words"`
}

type CaseDescriptionsResponse struct {
	Descriptions []core.CaseDescription `json:"descriptions"`
	Count        int                    `json:"count"`
}

type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Datasets  map[string]int `json:"datasets"`
}

// Live search messages. Clients send SearchRequest frames; the server
// answers with LiveMessage frames.
type SearchRequest struct {
	Query string `json:"query"`
}

const (
	MessageInit    = "init"
	MessageResults = "results"
	MessageReload  = "reload"
	MessageError   = "error"
)

type LiveMessage struct {
	Type       string          `json:"type"`
	Seq        uint64          `json:"seq,omitempty"`
	Query      string          `json:"query,omitempty"`
	Results    *search.Results `json:"results,omitempty"`
	DebounceMs int64           `json:"debounceMs,omitempty"`
	Message    string          `json:"message,omitempty"`
	Sizes      map[string]int  `json:"sizes,omitempty"`
}

func (m LiveMessage) encode() ([]byte, error) {
	return json.Marshal(m)
}
