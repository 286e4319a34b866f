// Package record maintains the durable per-team ledger: wins, draws, losses,
// goals for and against. Rows are created only when a team is created and are
// mutated only through ApplyOutcome, so wins+draws+losses always equals the
// number of quarters currently attributed to the team.
package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/db"
)

// Record is one team's ledger row.
type Record struct {
	TeamID       int64 `json:"team_id"`
	Wins         int   `json:"wins"`
	Draws        int   `json:"draws"`
	Losses       int   `json:"losses"`
	GoalsFor     int   `json:"goals_for"`
	GoalsAgainst int   `json:"goals_against"`
}

// Played returns the number of quarters on the ledger.
func (r Record) Played() int { return r.Wins + r.Draws + r.Losses }

// WinRate returns wins over quarters played, 0 for an empty ledger.
func (r Record) WinRate() float64 {
	if r.Played() == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Played())
}

// Get loads a team's ledger row.
func Get(ctx context.Context, q db.Querier, teamID int64) (*Record, error) {
	var r Record
	err := q.QueryRow(ctx, "team_record_by_team", teamID).
		Scan(&r.TeamID, &r.Wins, &r.Draws, &r.Losses, &r.GoalsFor, &r.GoalsAgainst)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("team record")
	}
	if err != nil {
		return nil, fmt.Errorf("load record for team %d: %w", teamID, err)
	}
	return &r, nil
}

// Init inserts the zero ledger row for a newly created team. Called from the
// team-creation transaction only.
func Init(ctx context.Context, q db.Querier, teamID int64) error {
	_, err := q.Exec(ctx, `
		INSERT INTO team_records (team_id, wins, draws, losses, goals_for, goals_against)
		VALUES ($1, 0, 0, 0, 0, 0)`, teamID)
	if err != nil {
		return fmt.Errorf("init record for team %d: %w", teamID, err)
	}
	return nil
}
