package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/modukick/matchledger/internal/api/respond"
	"github.com/modukick/matchledger/internal/cache"
	"github.com/modukick/matchledger/internal/ranking"
)

// SoloRanking returns a team's top scorers, assisters, or attack-point
// leaders. Responses are cached briefly with ETag revalidation.
// @Summary Solo leaderboard
// @Tags rankings
// @Produce json
// @Param type query string true "GOAL, ASSIST, or ATTACK_POINT"
// @Param page query int false "page number, 0-based"
// @Param size query int false "page size"
// @Success 200 {array} ranking.SoloRecord
// @Router /teams/{teamID}/rankings/solo [get]
func (h *Handler) SoloRanking(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "teamID")
	if err != nil {
		respond.Error(w, err)
		return
	}
	typ := ranking.SoloType(strings.ToUpper(r.URL.Query().Get("type")))
	page := ranking.NewPage(queryInt(r, "page", 0), queryInt(r, "size", 0))

	h.cached(w, r, cacheKey(r), cache.TTLLeaderboard, func() (interface{}, error) {
		return ranking.TopSolo(r.Context(), h.pool, teamID, typ, page)
	})
}

// DuoRanking returns a team's top scorer-assister pairs.
// @Summary Duo leaderboard
// @Tags rankings
// @Produce json
// @Param page query int false "page number, 0-based"
// @Param size query int false "page size"
// @Success 200 {array} ranking.DuoRecord
// @Router /teams/{teamID}/rankings/duo [get]
func (h *Handler) DuoRanking(w http.ResponseWriter, r *http.Request) {
	teamID, err := urlID(r, "teamID")
	if err != nil {
		respond.Error(w, err)
		return
	}
	page := ranking.NewPage(queryInt(r, "page", 0), queryInt(r, "size", 0))

	h.cached(w, r, cacheKey(r), cache.TTLLeaderboard, func() (interface{}, error) {
		return ranking.TopDuo(r.Context(), h.pool, teamID, page)
	})
}

func cacheKey(r *http.Request) string {
	return r.URL.Path + "?" + r.URL.RawQuery
}

// cached serves a read through the TTL cache, honoring If-None-Match.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, load func() (interface{}, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if r.Header.Get("If-None-Match") == etag {
			respond.NotModified(w, etag)
			return
		}
		respond.Cached(w, data, etag, ttl, true)
		return
	}

	v, err := load()
	if err != nil {
		respond.Error(w, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		respond.Error(w, err)
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if r.Header.Get("If-None-Match") == etag {
		respond.NotModified(w, etag)
		return
	}
	respond.Cached(w, data, etag, ttl, false)
}
