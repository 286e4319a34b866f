package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/modukick/matchledger/internal/api/identity"
	"github.com/modukick/matchledger/internal/api/respond"
	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/match"
)

type createMatchRequest struct {
	TeamAID   int64     `json:"team_a_id"`
	TeamBID   int64     `json:"team_b_id"`
	MatchDate time.Time `json:"match_date"`
}

// CreateMatch creates a match between two teams.
// @Summary Create match
// @Tags matches
// @Accept json
// @Produce json
// @Success 201 {object} match.Match
// @Router /matches [post]
func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.InvalidParam("invalid request body"))
		return
	}

	m, err := match.Create(r.Context(), h.pool, identity.CallerID(r), req.TeamAID, req.TeamBID, req.MatchDate)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}

// GetMatch returns one match.
// @Summary Get match
// @Tags matches
// @Produce json
// @Success 200 {object} match.Match
// @Router /matches/{matchID} [get]
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlID(r, "matchID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	m, err := match.Get(r.Context(), h.pool, matchID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, m)
}

// ListTeamMatches returns all matches a team took part in.
// @Summary List matches of a team
// @Tags matches
// @Produce json
// @Success 200 {array} match.Match
// @Router /teams/{teamID}/matches [get]
func (h *Handler) ListTeamMatches(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "teamID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	matches, err := match.ListByTeam(r.Context(), h.pool, teamID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, matches)
}
