package record

import (
	"context"
	"fmt"

	"github.com/modukick/matchledger/internal/db"
)

// recomputeSQL derives each team's tallies from the quarters currently on
// file. Used by the admin verify/rebuild commands to check the ledger
// invariant: stored wins+draws+losses must equal the quarters attributed to
// the team.
const recomputeSQL = `
	WITH outcomes AS (
		SELECT m.team_a AS team_id, q.team_a_score AS gf, q.team_b_score AS ga
		FROM quarters q JOIN matches m ON m.id = q.match_id
		UNION ALL
		SELECT m.team_b, q.team_b_score, q.team_a_score
		FROM quarters q JOIN matches m ON m.id = q.match_id
	)
	SELECT r.team_id,
	       r.wins, r.draws, r.losses, r.goals_for, r.goals_against,
	       COALESCE(SUM(CASE WHEN o.gf > o.ga THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN o.gf = o.ga THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(CASE WHEN o.gf < o.ga THEN 1 ELSE 0 END), 0),
	       COALESCE(SUM(o.gf), 0),
	       COALESCE(SUM(o.ga), 0)
	FROM team_records r
	LEFT JOIN outcomes o ON o.team_id = r.team_id
	GROUP BY r.team_id, r.wins, r.draws, r.losses, r.goals_for, r.goals_against
	ORDER BY r.team_id`

// Drift is a team whose stored ledger row disagrees with the quarters table.
type Drift struct {
	TeamID   int64
	Stored   Record
	Computed Record
}

// Verify recomputes every team's tallies from quarters and returns the teams
// whose stored rows drifted.
func Verify(ctx context.Context, q db.Querier) ([]Drift, error) {
	rows, err := q.Query(ctx, recomputeSQL)
	if err != nil {
		return nil, fmt.Errorf("recompute records: %w", err)
	}
	defer rows.Close()

	var drifts []Drift
	for rows.Next() {
		var teamID int64
		var stored, computed Record
		if err := rows.Scan(&teamID,
			&stored.Wins, &stored.Draws, &stored.Losses, &stored.GoalsFor, &stored.GoalsAgainst,
			&computed.Wins, &computed.Draws, &computed.Losses, &computed.GoalsFor, &computed.GoalsAgainst,
		); err != nil {
			return nil, fmt.Errorf("scan recomputed record: %w", err)
		}
		stored.TeamID, computed.TeamID = teamID, teamID
		if stored != computed {
			drifts = append(drifts, Drift{TeamID: teamID, Stored: stored, Computed: computed})
		}
	}
	return drifts, rows.Err()
}

// Rebuild rewrites every drifted ledger row from the quarters table in one
// transaction. Returns the number of rows repaired.
func Rebuild(ctx context.Context, b db.Beginner) (int, error) {
	drifts, err := Verify(ctx, b)
	if err != nil {
		return 0, err
	}
	if len(drifts) == 0 {
		return 0, nil
	}

	tx, err := b.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, d := range drifts {
		if _, err := tx.Exec(ctx, `
			UPDATE team_records
			SET wins = $2, draws = $3, losses = $4, goals_for = $5, goals_against = $6
			WHERE team_id = $1`,
			d.TeamID, d.Computed.Wins, d.Computed.Draws, d.Computed.Losses,
			d.Computed.GoalsFor, d.Computed.GoalsAgainst,
		); err != nil {
			return 0, fmt.Errorf("rebuild record for team %d: %w", d.TeamID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	return len(drifts), nil
}
