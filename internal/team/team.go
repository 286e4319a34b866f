// Package team creates and loads teams. Team creation is the only place a
// ledger row comes into existence; the creator becomes an accepted ADMIN
// member in the same transaction.
package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/db"
	"github.com/modukick/matchledger/internal/record"
)

// Team is one club.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Create persists a team, its zero ledger row, and the creator's ADMIN
// membership atomically.
func Create(ctx context.Context, b db.Beginner, callerID int64, name string) (*Team, error) {
	if name == "" {
		return nil, apperr.InvalidParam("team name must not be empty")
	}

	tx, err := b.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create team: %w", err)
	}
	defer tx.Rollback(ctx)

	var t Team
	err = tx.QueryRow(ctx,
		"INSERT INTO teams (name, created_by) VALUES ($1, $2) RETURNING id, name",
		name, callerID).Scan(&t.ID, &t.Name)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}

	if err := record.Init(ctx, tx, t.ID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO team_members (team_id, user_id, permission, accept_status)
		VALUES ($1, $2, 'ADMIN', 'ACCEPTED')`,
		t.ID, callerID); err != nil {
		return nil, fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create team: %w", err)
	}
	return &t, nil
}

// Get loads a team by id.
func Get(ctx context.Context, q db.Querier, teamID int64) (*Team, error) {
	var t Team
	err := q.QueryRow(ctx, "SELECT id, name FROM teams WHERE id = $1", teamID).
		Scan(&t.ID, &t.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("team")
	}
	if err != nil {
		return nil, fmt.Errorf("load team %d: %w", teamID, err)
	}
	return &t, nil
}
