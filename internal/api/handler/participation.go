package handler

import (
	"encoding/json"
	"net/http"

	"github.com/modukick/matchledger/internal/api/identity"
	"github.com/modukick/matchledger/internal/api/respond"
	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/participation"
)

type insertParticipationsRequest struct {
	TeamID         int64                      `json:"team_id"`
	Participations []participation.Submission `json:"participations"`
}

// InsertParticipations records a batch of substitution events for one team of
// a quarter.
// @Summary Insert participation events
// @Tags participations
// @Accept json
// @Produce json
// @Success 201 {array} participation.Event
// @Router /matches/{matchID}/quarters/{quarterID}/participations [post]
func (h *Handler) InsertParticipations(w http.ResponseWriter, r *http.Request) {
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

	var req insertParticipationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.InvalidParam("invalid request body"))
		return
	}

	events, err := participation.Insert(r.Context(), h.pool, identity.CallerID(r),
		matchID, quarterID, req.TeamID, req.Participations)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, events)
}

// EditParticipation overwrites one substitution event.
// @Summary Edit a participation event
// @Tags participations
// @Accept json
// @Produce json
// @Success 200 {object} participation.Event
// @Router /matches/{matchID}/quarters/{quarterID}/participations [put]
func (h *Handler) EditParticipation(w http.ResponseWriter, r *http.Request) {
	quarterID, err := urlID(r, "quarterID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req participation.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.InvalidParam("invalid request body"))
		return
	}

	e, err := participation.Edit(r.Context(), h.pool, identity.CallerID(r), quarterID, req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, e)
}

// ListParticipations returns all substitution events of a quarter, ordered by
// team and event time.
// @Summary List participation events of a quarter
// @Tags participations
// @Produce json
// @Success 200 {array} participation.Event
// @Router /matches/{matchID}/quarters/{quarterID}/participations [get]
func (h *Handler) ListParticipations(w http.ResponseWriter, r *http.Request) {
	quarterID, err := urlID(r, "quarterID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	events, err := participation.ListOfQuarter(r.Context(), h.pool, quarterID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, events)
}

// OnPitch returns the user ids currently on pitch for a team in a quarter.
// @Summary Current on-pitch roster
// @Tags participations
// @Produce json
// @Success 200 {array} int64
// @Router /matches/{matchID}/quarters/{quarterID}/on-pitch [get]
func (h *Handler) OnPitch(w http.ResponseWriter, r *http.Request) {
	quarterID, err := urlID(r, "quarterID")
	if err != nil {
		respond.Error(w, err)
		return
	}
	teamID := int64(queryInt(r, "team_id", 0))
	if teamID <= 0 {
		respond.Error(w, apperr.InvalidParam("team_id is required"))
		return
	}

	ids, err := participation.OnPitch(r.Context(), h.pool, quarterID, teamID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ids)
}
