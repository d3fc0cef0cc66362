package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/hexbots-backend/internal/apperror"
	"github.com/rocketscienceinc/hexbots-backend/internal/entity"
	"github.com/rocketscienceinc/hexbots-backend/internal/movesource"
	"github.com/rocketscienceinc/hexbots-backend/internal/repository"
)

type Model struct {
	Name    string `json:"name"`
	Backend string `json:"backend"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleModels lists the selectable AI models in display order.
func (that *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	models := make([]Model, 0, len(entity.ModelNames))
	for _, name := range entity.ModelNames {
		models = append(models, Model{Name: name, Backend: movesource.BackendModels[name]})
	}

	that.writeJSON(w, http.StatusOK, map[string][]Model{"models": models})
}

// handleGame renders the session's game for the board client.
func (that *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleGame", "request_id", chimw.GetReqID(r.Context()))

	playerID := chi.URLParam(r, "playerID")

	game, err := that.games.GetGameByPlayerID(r.Context(), playerID)
	switch {
	case errors.Is(err, repository.ErrPlayerNotFound), errors.Is(err, apperror.ErrNoActiveGame):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrNoActiveGame.Error()})
		return
	case err != nil:
		log.Error("failed to get game", "playerID", playerID, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, game.View())
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
