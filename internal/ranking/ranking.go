// Package ranking aggregates scoring events into paginated leaderboards:
// per-player solo counts and scorer-assister duo counts. Counts come straight
// from grouped SQL; player identities are resolved in one batch lookup and
// joined back preserving count order. Ties break on ascending user id so
// paging stays deterministic.
package ranking

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/config"
	"github.com/modukick/matchledger/internal/db"
)

// SoloType selects which events a solo leaderboard counts.
type SoloType string

const (
	SoloGoal   SoloType = "GOAL"
	SoloAssist SoloType = "ASSIST"
	// SoloAttackPoint counts goals and assists together, own goals excluded.
	SoloAttackPoint SoloType = "ATTACK_POINT"
)

// Valid reports whether t is a known solo leaderboard type.
func (t SoloType) Valid() bool {
	return t == SoloGoal || t == SoloAssist || t == SoloAttackPoint
}

// SoloRecord is one row of a solo leaderboard.
type SoloRecord struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
	Count    int64  `json:"count"`
}

// DuoRecord is one row of the duo leaderboard: the number of goal+assist
// co-occurrences for an unordered player pair. UserID1 < UserID2 always.
type DuoRecord struct {
	UserID1   int64  `json:"user_id_1"`
	UserName1 string `json:"user_name_1"`
	UserID2   int64  `json:"user_id_2"`
	UserName2 string `json:"user_name_2"`
	Count     int64  `json:"count"`
}

// Page is a sanitized page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps a raw page request to sane bounds.
func NewPage(number, size int) Page {
	if number < 0 {
		number = 0
	}
	if size <= 0 {
		size = config.DefaultPageSize
	}
	if size > config.MaxPageSize {
		size = config.MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) offset() int { return p.Number * p.Size }

// TopSolo returns the team's top players for the given type, ordered by
// count descending.
func TopSolo(ctx context.Context, q db.Querier, teamID int64, typ SoloType, page Page) ([]SoloRecord, error) {
	if !typ.Valid() {
		return nil, apperr.InvalidParam("unknown ranking type %q", typ)
	}

	var (
		rows pgx.Rows
		err  error
	)
	switch typ {
	case SoloAttackPoint:
		rows, err = q.Query(ctx, "rank_solo_attack_points", teamID, page.Size, page.offset())
	default:
		rows, err = q.Query(ctx, "rank_solo_by_type", teamID, string(typ), page.Size, page.offset())
	}
	if err != nil {
		return nil, fmt.Errorf("rank solo %s for team %d: %w", typ, teamID, err)
	}
	defer rows.Close()

	var records []SoloRecord
	var userIDs []int64
	for rows.Next() {
		var r SoloRecord
		if err := rows.Scan(&r.UserID, &r.Count); err != nil {
			return nil, fmt.Errorf("scan solo record: %w", err)
		}
		records = append(records, r)
		userIDs = append(userIDs, r.UserID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names, err := resolveNames(ctx, q, userIDs)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].UserName = names[records[i].UserID]
	}
	return records, nil
}

// TopDuo returns the team's top scorer-assister pairs. A pair is canonical:
// A-scores/B-assists and B-scores/A-assists count as the same duo, so no
// direction is ever double-counted.
func TopDuo(ctx context.Context, q db.Querier, teamID int64, page Page) ([]DuoRecord, error) {
	rows, err := q.Query(ctx, "rank_duo", teamID, page.Size, page.offset())
	if err != nil {
		return nil, fmt.Errorf("rank duos for team %d: %w", teamID, err)
	}
	defer rows.Close()

	var records []DuoRecord
	var userIDs []int64
	for rows.Next() {
		var r DuoRecord
		if err := rows.Scan(&r.UserID1, &r.UserID2, &r.Count); err != nil {
			return nil, fmt.Errorf("scan duo record: %w", err)
		}
		records = append(records, r)
		userIDs = append(userIDs, r.UserID1, r.UserID2)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names, err := resolveNames(ctx, q, userIDs)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].UserName1 = names[records[i].UserID1]
		records[i].UserName2 = names[records[i].UserID2]
	}
	return records, nil
}

// resolveNames looks up display names for a set of user ids in one batch.
func resolveNames(ctx context.Context, q db.Querier, userIDs []int64) (map[int64]string, error) {
	if len(userIDs) == 0 {
		return map[int64]string{}, nil
	}
	seen := make(map[int64]bool, len(userIDs))
	ids := make([]int64, 0, len(userIDs))
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	rows, err := q.Query(ctx, "users_by_ids", ids)
	if err != nil {
		return nil, fmt.Errorf("resolve user names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan user name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
