// Package quarter manages the lifecycle of match quarters. A quarter and its
// ledger contribution are created and destroyed together: no quarter exists
// without a matching contribution and no contribution survives its quarter.
package quarter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/db"
	"github.com/modukick/matchledger/internal/match"
	"github.com/modukick/matchledger/internal/membership"
	"github.com/modukick/matchledger/internal/record"
	"github.com/modukick/matchledger/internal/scoring"
)

// Quarter is one scoring segment of a match with its own sub-score. TeamAID
// and TeamBID are denormalized from the owning match for convenience.
type Quarter struct {
	ID         int64 `json:"id"`
	MatchID    int64 `json:"match_id"`
	Ordinal    int   `json:"ordinal"`
	TeamAScore int   `json:"team_a_score"`
	TeamBScore int   `json:"team_b_score"`
	TeamAID    int64 `json:"team_a_id"`
	TeamBID    int64 `json:"team_b_id"`
}

// CreateRequest carries a finalized quarter result.
type CreateRequest struct {
	Ordinal    int `json:"ordinal"`
	TeamAScore int `json:"team_a_score"`
	TeamBScore int `json:"team_b_score"`
}

// Create persists the quarter and applies its outcome to both teams' ledger
// rows in one transaction. Either both happen or neither does.
func Create(ctx context.Context, b db.Beginner, callerID, matchID int64, req CreateRequest) (*Quarter, error) {
	if req.Ordinal <= 0 {
		return nil, apperr.InvalidParam("quarter ordinal must be positive")
	}
	if req.TeamAScore < 0 || req.TeamBScore < 0 {
		return nil, apperr.InvalidParam("scores must be non-negative")
	}

	tx, err := b.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create quarter: %w", err)
	}
	defer tx.Rollback(ctx)

	m, err := match.Get(ctx, tx, matchID)
	if err != nil {
		return nil, err
	}

	if err := requireMemberOfEither(ctx, tx, callerID, m.TeamAID, m.TeamBID); err != nil {
		return nil, err
	}

	q := Quarter{
		MatchID:    matchID,
		Ordinal:    req.Ordinal,
		TeamAScore: req.TeamAScore,
		TeamBScore: req.TeamBScore,
		TeamAID:    m.TeamAID,
		TeamBID:    m.TeamBID,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO quarters (match_id, ordinal, team_a_score, team_b_score)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		matchID, req.Ordinal, req.TeamAScore, req.TeamBScore).Scan(&q.ID)
	if err != nil {
		return nil, fmt.Errorf("insert quarter: %w", err)
	}

	if err := record.ApplyOutcome(ctx, tx, m.TeamAID, m.TeamBID,
		req.TeamAScore, req.TeamBScore, record.Apply); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create quarter: %w", err)
	}
	return &q, nil
}

// Delete removes a quarter, its scoring events, and reverses its ledger
// contribution using the quarter's own stored scores, all in one
// transaction. A second delete of the same id hits the NotFound path, so the
// ledger can never be reversed twice.
func Delete(ctx context.Context, b db.Beginner, callerID, quarterID int64) error {
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete quarter: %w", err)
	}
	defer tx.Rollback(ctx)

	q, err := get(ctx, tx, quarterID)
	if err != nil {
		return err
	}

	if err := requireManageEither(ctx, tx, callerID, q.TeamAID, q.TeamBID); err != nil {
		return err
	}

	if err := scoring.DeleteAllOfQuarter(ctx, tx, quarterID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, "DELETE FROM quarters WHERE id = $1", quarterID)
	if err != nil {
		return fmt.Errorf("delete quarter %d: %w", quarterID, err)
	}
	if tag.RowsAffected() != 1 {
		return apperr.NotFound("quarter")
	}

	if err := record.ApplyOutcome(ctx, tx, q.TeamAID, q.TeamBID,
		q.TeamAScore, q.TeamBScore, record.Reverse); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Get loads a quarter with its match's team pair.
func Get(ctx context.Context, q db.Querier, quarterID int64) (*Quarter, error) {
	return get(ctx, q, quarterID)
}

// GetOfMatch loads a quarter and verifies it belongs to the given match.
func GetOfMatch(ctx context.Context, qr db.Querier, matchID, quarterID int64) (*Quarter, error) {
	q, err := get(ctx, qr, quarterID)
	if err != nil {
		return nil, err
	}
	if q.MatchID != matchID {
		return nil, apperr.InvalidParam("quarter %d does not belong to match %d", quarterID, matchID)
	}
	return q, nil
}

// ListOfMatch returns a match's quarters ordered by ordinal.
func ListOfMatch(ctx context.Context, qr db.Querier, matchID int64) ([]Quarter, error) {
	rows, err := qr.Query(ctx, "quarters_of_match", matchID)
	if err != nil {
		return nil, fmt.Errorf("list quarters of match %d: %w", matchID, err)
	}
	defer rows.Close()

	var quarters []Quarter
	for rows.Next() {
		var q Quarter
		if err := rows.Scan(&q.ID, &q.MatchID, &q.Ordinal,
			&q.TeamAScore, &q.TeamBScore, &q.TeamAID, &q.TeamBID); err != nil {
			return nil, fmt.Errorf("scan quarter: %w", err)
		}
		quarters = append(quarters, q)
	}
	return quarters, rows.Err()
}

func get(ctx context.Context, qr db.Querier, quarterID int64) (*Quarter, error) {
	var q Quarter
	err := qr.QueryRow(ctx, "quarter_by_id", quarterID).
		Scan(&q.ID, &q.MatchID, &q.Ordinal, &q.TeamAScore, &q.TeamBScore, &q.TeamAID, &q.TeamBID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("quarter")
	}
	if err != nil {
		return nil, fmt.Errorf("load quarter %d: %w", quarterID, err)
	}
	return &q, nil
}

// requireMemberOfEither passes when the caller belongs to one of the two
// teams of the match.
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

// requireManageEither passes when the caller holds manage permission on at
// least one of the two teams.
func requireManageEither(ctx context.Context, q db.Querier, callerID, teamAID, teamBID int64) error {
	errA := membership.RequireManage(ctx, q, teamAID, callerID)
	if errA == nil {
		return nil
	}
	if apperr.KindOf(errA) != apperr.KindForbidden {
		return errA
	}
	errB := membership.RequireManage(ctx, q, teamBID, callerID)
	if errB == nil {
		return nil
	}
	if apperr.KindOf(errB) != apperr.KindForbidden {
		return errB
	}
	return errA
}
