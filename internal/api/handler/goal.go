package handler

import (
	"encoding/json"
	"net/http"

	"github.com/modukick/matchledger/internal/api/identity"
	"github.com/modukick/matchledger/internal/api/respond"
	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/scoring"
)

// AddGoal records a goal (or own goal) and its optional assist as one batch.
// @Summary Add goal
// @Tags goals
// @Accept json
// @Produce json
// @Success 201 {object} scoring.Goal
// @Router /matches/{matchID}/quarters/{quarterID}/goals [post]
func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlID(r, "matchID")
	if err != nil {
		respond.Error(w, err)
		return
	}
	quarterID, err := urlID(r, "quarterID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req scoring.GoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.InvalidParam("invalid request body"))
		return
	}

	goal, err := scoring.AddGoal(r.Context(), h.pool, identity.CallerID(r), matchID, quarterID, req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, goal)
}

// ListGoals returns the goals of a quarter ordered by event time, each with
// its assist attached.
// @Summary List goals of a quarter
// @Tags goals
// @Produce json
// @Success 200 {array} scoring.Goal
// @Router /matches/{matchID}/quarters/{quarterID}/goals [get]
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlID(r, "matchID")
	if err != nil {
		respond.Error(w, err)
		return
	}
	quarterID, err := urlID(r, "quarterID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	goals, err := scoring.GoalsOfQuarter(r.Context(), h.pool, matchID, quarterID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, goals)
}
