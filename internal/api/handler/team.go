package handler

import (
	"encoding/json"
	"net/http"

	"github.com/modukick/matchledger/internal/api/identity"
	"github.com/modukick/matchledger/internal/api/respond"
	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/cache"
	"github.com/modukick/matchledger/internal/membership"
	"github.com/modukick/matchledger/internal/record"
	"github.com/modukick/matchledger/internal/team"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

// CreateTeam creates a team, its empty record row, and the creator's ADMIN
// membership.
// @Summary Create team
// @Tags teams
// @Accept json
// @Produce json
// @Success 201 {object} team.Team
// @Router /teams [post]
func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.InvalidParam("invalid request body"))
		return
	}

	t, err := team.Create(r.Context(), h.pool, identity.CallerID(r), req.Name)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, t)
}

// GetTeam returns one team.
// @Summary Get team
// @Tags teams
// @Produce json
// @Success 200 {object} team.Team
// @Router /teams/{teamID} [get]
func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "teamID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	t, err := team.Get(r.Context(), h.pool, teamID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, t)
}

type teamRecordResponse struct {
	record.Record
	Played  int     `json:"played"`
	WinRate float64 `json:"win_rate"`
}

// GetTeamRecord returns a team's ledger row with derived totals.
// @Summary Team record
// @Tags teams
// @Produce json
// @Success 200 {object} teamRecordResponse
// @Router /teams/{teamID}/record [get]
func (h *Handler) GetTeamRecord(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "teamID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.cached(w, r, cacheKey(r), cache.TTLRecord, func() (interface{}, error) {
		rec, err := record.Get(r.Context(), h.pool, teamID)
		if err != nil {
			return nil, err
		}
		return teamRecordResponse{Record: *rec, Played: rec.Played(), WinRate: rec.WinRate()}, nil
	})
}

// JoinTeam files a join request for the caller.
// @Summary Request to join a team
// @Tags teams
// @Produce json
// @Success 201 {object} membership.Member
// @Router /teams/{teamID}/members [post]
func (h *Handler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "teamID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	m, err := membership.Join(r.Context(), h.pool, teamID, identity.CallerID(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, m)
}

type approveRequest struct {
	Accept bool `json:"accept"`
}

// ApproveMember resolves a WAITING join request.
// @Summary Approve or deny a join request
// @Tags teams
// @Accept json
// @Success 204
// @Router /teams/{teamID}/members/{memberID}/accept [put]
func (h *Handler) ApproveMember(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "teamID")
	if err != nil {
		respond.Error(w, err)
		return
	}
	memberID, err := urlID(r, "memberID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.InvalidParam("invalid request body"))
		return
	}

	if err := membership.Approve(r.Context(), h.pool, identity.CallerID(r), teamID, memberID, req.Accept); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers returns a team's accepted members.
// @Summary List accepted members
// @Tags teams
// @Produce json
// @Success 200 {array} membership.Member
// @Router /teams/{teamID}/members [get]
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "teamID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	members, err := membership.ListAccepted(r.Context(), h.pool, teamID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, members)
}
