// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/modukick/matchledger/internal/config"
)

// Querier is the read/write surface shared by *pgxpool.Pool and pgx.Tx.
// Core services take a Querier so they run the same inside or outside an
// explicit transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner is a Querier that can also open transactions.
type Beginner interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers the statements the read paths use.
// Transactional writes keep their SQL inline next to the code that owns it.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Team records
		"team_record_by_team": "SELECT team_id, wins, draws, losses, goals_for, goals_against FROM team_records WHERE team_id = $1",

		// Membership
		"member_by_team_user":     "SELECT id, team_id, user_id, permission, accept_status FROM team_members WHERE team_id = $1 AND user_id = $2",
		"members_accepted_by_ids": "SELECT id, team_id, user_id, permission, accept_status FROM team_members WHERE team_id = $1 AND user_id = ANY($2) AND accept_status = 'ACCEPTED'",
		"members_accepted":        "SELECT m.id, m.team_id, m.user_id, m.permission, m.accept_status, u.name FROM team_members m JOIN users u ON u.id = m.user_id WHERE m.team_id = $1 AND m.accept_status = 'ACCEPTED' ORDER BY m.id",

		// Identity resolution for leaderboards
		"users_by_ids": "SELECT id, name FROM users WHERE id = ANY($1)",

		// Matches
		"match_by_id":     "SELECT id, team_a, team_b, match_date, created_by FROM matches WHERE id = $1",
		"matches_of_team": "SELECT id, team_a, team_b, match_date, created_by FROM matches WHERE team_a = $1 OR team_b = $1 ORDER BY match_date",

		// Quarters
		"quarter_by_id": "SELECT q.id, q.match_id, q.ordinal, q.team_a_score, q.team_b_score, m.team_a, m.team_b FROM quarters q JOIN matches m ON m.id = q.match_id WHERE q.id = $1",
		"quarters_of_match": "SELECT q.id, q.match_id, q.ordinal, q.team_a_score, q.team_b_score, m.team_a, m.team_b FROM quarters q JOIN matches m ON m.id = q.match_id WHERE q.match_id = $1 ORDER BY q.ordinal",

		// Participations
		"participations_of_quarter": "SELECT id, quarter_id, team_id, in_user_id, in_user_name, out_user_id, out_user_name, position, event_time FROM quarter_participations WHERE quarter_id = $1 ORDER BY team_id, event_time, id",
		"participations_of_quarter_team": "SELECT id, quarter_id, team_id, in_user_id, in_user_name, out_user_id, out_user_name, position, event_time FROM quarter_participations WHERE quarter_id = $1 AND team_id = $2 ORDER BY event_time, id",

		// Scoring events
		"goals_of_quarter": "SELECT g.id, g.quarter_id, g.team_id, g.user_id, g.type, g.event_time, a.id, a.user_id, a.event_time FROM scoring_events g LEFT JOIN scoring_events a ON a.linked_goal_id = g.id WHERE g.quarter_id = $1 AND g.type <> 'ASSIST' ORDER BY g.event_time, g.id",

		// Leaderboards. Ties break on ascending user id so paging is stable.
		"rank_solo_by_type": "SELECT user_id, COUNT(*) AS total FROM scoring_events WHERE team_id = $1 AND type = $2 GROUP BY user_id ORDER BY total DESC, user_id LIMIT $3 OFFSET $4",
		"rank_solo_attack_points": "SELECT user_id, COUNT(*) AS total FROM scoring_events WHERE team_id = $1 AND type <> 'OWN_GOAL' GROUP BY user_id ORDER BY total DESC, user_id LIMIT $2 OFFSET $3",
		"rank_duo": "SELECT LEAST(g.user_id, a.user_id) AS user_id1, GREATEST(g.user_id, a.user_id) AS user_id2, COUNT(*) AS total FROM scoring_events g JOIN scoring_events a ON a.linked_goal_id = g.id WHERE g.team_id = $1 AND g.type <> 'OWN_GOAL' GROUP BY 1, 2 ORDER BY total DESC, user_id1, user_id2 LIMIT $2 OFFSET $3",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
