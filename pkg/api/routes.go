package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/search", s.HandleSearch)
	mux.HandleFunc("GET /api/search/ws", s.HandleSearchWS)

	mux.HandleFunc("GET /api/quiz/{view}", s.HandleQuizOpen)
	mux.HandleFunc("POST /api/quiz/{view}/reveal", s.HandleQuizReveal)
	mux.HandleFunc("POST /api/quiz/{view}/next", s.HandleQuizNext)
	mux.HandleFunc("POST /api/quiz/{view}/previous", s.HandleQuizPrevious)

	mux.HandleFunc("GET /api/words", s.HandleListWords)
	mux.HandleFunc("POST /api/words", s.HandleImportWords)
	mux.HandleFunc("DELETE /api/words", s.HandleClearWords)

	mux.HandleFunc("GET /api/favorites", s.HandleListFavorites)
	mux.HandleFunc("PUT /api/favorites/{id}", s.HandleAddFavorite)
	mux.HandleFunc("DELETE /api/favorites/{id}", s.HandleRemoveFavorite)
	mux.HandleFunc("POST /api/favorites/{id}/toggle", s.HandleToggleFavorite)

	mux.HandleFunc("GET /api/case-descriptions", s.HandleCaseDescriptions)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
