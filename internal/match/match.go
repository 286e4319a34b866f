// Package match creates and loads matches between two teams. The team pair is
// stored lower id first so every quarter inherits a canonical A/B orientation.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/db"
	"github.com/modukick/matchledger/internal/membership"
)

// Match is one scheduled or played fixture between two teams.
type Match struct {
	ID        int64     `json:"id"`
	TeamAID   int64     `json:"team_a_id"`
	TeamBID   int64     `json:"team_b_id"`
	MatchDate time.Time `json:"match_date"`
	CreatedBy int64     `json:"created_by"`
}

// HasTeam reports whether teamID is one of the match's two sides.
func (m *Match) HasTeam(teamID int64) bool {
	return m.TeamAID == teamID || m.TeamBID == teamID
}

// Create persists a match. Both teams must exist and the caller must belong
// to at least one of them.
func Create(ctx context.Context, q db.Querier, callerID, teamAID, teamBID int64, matchDate time.Time) (*Match, error) {
	if teamAID == teamBID {
		return nil, apperr.InvalidParam("a match needs two distinct teams")
	}

	rows, err := q.Query(ctx, "SELECT id FROM teams WHERE id = ANY($1)", []int64{teamAID, teamBID})
	if err != nil {
		return nil, fmt.Errorf("check teams: %w", err)
	}
	found := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan team: %w", err)
		}
		found++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if found != 2 {
		return nil, apperr.NotFound("team")
	}

	if err := requireMemberOfEither(ctx, q, callerID, teamAID, teamBID); err != nil {
		return nil, err
	}

	a, b := teamAID, teamBID
	if b < a {
		a, b = b, a
	}

	var m Match
	err = q.QueryRow(ctx, `
		INSERT INTO matches (team_a, team_b, match_date, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, team_a, team_b, match_date, created_by`,
		a, b, matchDate, callerID).
		Scan(&m.ID, &m.TeamAID, &m.TeamBID, &m.MatchDate, &m.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("insert match: %w", err)
	}
	return &m, nil
}

// Get loads a match by id.
func Get(ctx context.Context, q db.Querier, matchID int64) (*Match, error) {
	var m Match
	err := q.QueryRow(ctx, "match_by_id", matchID).
		Scan(&m.ID, &m.TeamAID, &m.TeamBID, &m.MatchDate, &m.CreatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("match")
	}
	if err != nil {
		return nil, fmt.Errorf("load match %d: %w", matchID, err)
	}
	return &m, nil
}

// ListByTeam returns all matches a team took part in, ordered by date.
func ListByTeam(ctx context.Context, q db.Querier, teamID int64) ([]Match, error) {
	rows, err := q.Query(ctx, "matches_of_team", teamID)
	if err != nil {
		return nil, fmt.Errorf("list matches of team %d: %w", teamID, err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.TeamAID, &m.TeamBID, &m.MatchDate, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// requireMemberOfEither passes when the caller has a member row on at least
// one of the two teams.
func requireMemberOfEither(ctx context.Context, q db.Querier, callerID, teamAID, teamBID int64) error {
	if _, err := membership.Get(ctx, q, teamAID, callerID); err == nil {
		return nil
	} else if apperr.KindOf(err) != apperr.KindForbidden {
		return err
	}
	if _, err := membership.Get(ctx, q, teamBID, callerID); err == nil {
		return nil
	} else if apperr.KindOf(err) != apperr.KindForbidden {
		return err
	}
	return apperr.Forbidden("not a member of either team")
}
