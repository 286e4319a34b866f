package record

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
)

// Signs for ApplyOutcome. Apply and Reverse share the same delta computation,
// so a reversal is the exact algebraic inverse of the original application.
const (
	Apply   = 1
	Reverse = -1
)

// delta is one quarter's contribution to a single team's ledger row.
type delta struct {
	wins, draws, losses    int
	goalsFor, goalsAgainst int
}

func (d delta) scale(sign int) delta {
	return delta{
		wins:         d.wins * sign,
		draws:        d.draws * sign,
		losses:       d.losses * sign,
		goalsFor:     d.goalsFor * sign,
		goalsAgainst: d.goalsAgainst * sign,
	}
}

// outcomeDelta computes the ledger contribution for the side that scored
// scoreFor against scoreAgainst, scaled by sign.
func outcomeDelta(scoreFor, scoreAgainst, sign int) delta {
	d := delta{goalsFor: scoreFor, goalsAgainst: scoreAgainst}
	switch {
	case scoreFor > scoreAgainst:
		d.wins = 1
	case scoreFor == scoreAgainst:
		d.draws = 1
	default:
		d.losses = 1
	}
	return d.scale(sign)
}

// orderPair returns the two team ids lowest first. Locks are always taken in
// this order so concurrent opposite-order updates cannot deadlock.
func orderPair(a, b int64) (int64, int64) {
	if a < b {
		return a, b
	}
	return b, a
}

const lockRecordsSQL = `SELECT team_id FROM team_records WHERE team_id IN ($1, $2) ORDER BY team_id FOR UPDATE`

const updateRecordSQL = `
	UPDATE team_records
	SET wins = wins + $2,
	    draws = draws + $3,
	    losses = losses + $4,
	    goals_for = goals_for + $5,
	    goals_against = goals_against + $6
	WHERE team_id = $1`

// ApplyOutcome applies (sign=Apply) or reverses (sign=Reverse) the outcome of
// one quarter to both teams' ledger rows. It must be called inside an already
// open transaction; calling it without one is a programming error and fails
// immediately. Both rows are locked exclusively, lower team id first, before
// the deltas are written, so concurrent writers touching an overlapping pair
// of teams serialize instead of losing updates.
func ApplyOutcome(ctx context.Context, tx pgx.Tx, teamAID, teamBID int64, teamAScore, teamBScore, sign int) error {
	if tx == nil {
		return fmt.Errorf("record: ApplyOutcome requires an open transaction")
	}
	if sign != Apply && sign != Reverse {
		return fmt.Errorf("record: invalid sign %d", sign)
	}
	if teamAID == teamBID {
		return apperr.InvalidParam("a quarter needs two distinct teams")
	}
	if teamAScore < 0 || teamBScore < 0 {
		return apperr.InvalidParam("scores must be non-negative")
	}

	first, second := orderPair(teamAID, teamBID)
	rows, err := tx.Query(ctx, lockRecordsSQL, first, second)
	if err != nil {
		return fmt.Errorf("lock team records: %w", err)
	}
	locked := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan locked record: %w", err)
		}
		locked++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock team records: %w", err)
	}
	if locked != 2 {
		return apperr.NotFound("team record")
	}

	deltaA := outcomeDelta(teamAScore, teamBScore, sign)
	deltaB := outcomeDelta(teamBScore, teamAScore, sign)

	if err := applyDelta(ctx, tx, teamAID, deltaA); err != nil {
		return err
	}
	return applyDelta(ctx, tx, teamBID, deltaB)
}

func applyDelta(ctx context.Context, tx pgx.Tx, teamID int64, d delta) error {
	tag, err := tx.Exec(ctx, updateRecordSQL,
		teamID, d.wins, d.draws, d.losses, d.goalsFor, d.goalsAgainst)
	if err != nil {
		return fmt.Errorf("update record for team %d: %w", teamID, err)
	}
	if tag.RowsAffected() != 1 {
		return apperr.NotFound("team record")
	}
	return nil
}
