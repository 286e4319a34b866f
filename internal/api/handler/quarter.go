package handler

import (
	"encoding/json"
	"net/http"

	"github.com/modukick/matchledger/internal/api/identity"
	"github.com/modukick/matchledger/internal/api/respond"
	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/cache"
	"github.com/modukick/matchledger/internal/quarter"
)

// CreateQuarter finalizes a quarter's result. The quarter row and the ledger
// update commit together or not at all.
// @Summary Create quarter
// @Tags quarters
// @Accept json
// @Produce json
// @Success 201 {object} quarter.Quarter
// @Router /matches/{matchID}/quarters [post]
func (h *Handler) CreateQuarter(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlID(r, "matchID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req quarter.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, apperr.InvalidParam("invalid request body"))
		return
	}

	q, err := quarter.Create(r.Context(), h.pool, identity.CallerID(r), matchID, req)
	if err != nil {
		respond.Error(w, err)
		return
	}
	// The POST URL doubles as the cached list key.
	h.cache.Invalidate(cacheKey(r))
	respond.JSON(w, http.StatusCreated, q)
}

// ListQuarters returns a match's quarters ordered by ordinal. Most matches
// being read are already finished, so the list is cached.
// @Summary List quarters of a match
// @Tags quarters
// @Produce json
// @Success 200 {array} quarter.Quarter
// @Router /matches/{matchID}/quarters [get]
func (h *Handler) ListQuarters(w http.ResponseWriter, r *http.Request) {
	matchID, err := urlID(r, "matchID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.cached(w, r, cacheKey(r), cache.TTLMatchData, func() (interface{}, error) {
		return quarter.ListOfMatch(r.Context(), h.pool, matchID)
	})
}

// GetQuarter returns one quarter of a match.
// @Summary Get quarter
// @Tags quarters
// @Produce json
// @Success 200 {object} quarter.Quarter
// @Router /matches/{matchID}/quarters/{quarterID} [get]
func (h *Handler) GetQuarter(w http.ResponseWriter, r *http.Request) {
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

	q, err := quarter.GetOfMatch(r.Context(), h.pool, matchID, quarterID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, q)
}

// DeleteQuarter removes a quarter, cascades its scoring events, and reverses
// its ledger contribution.
// @Summary Delete quarter
// @Tags quarters
// @Success 204
// @Router /matches/{matchID}/quarters/{quarterID} [delete]
func (h *Handler) DeleteQuarter(w http.ResponseWriter, r *http.Request) {
	quarterID, err := urlID(r, "quarterID")
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := quarter.Delete(r.Context(), h.pool, identity.CallerID(r), quarterID); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
