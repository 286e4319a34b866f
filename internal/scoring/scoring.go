// Package scoring records goal, assist, and own-goal events. A goal and its
// assist are one atomic batch; an assist row points back at its goal through
// linked_goal_id. Own goals never carry an assist.
package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/db"
	"github.com/modukick/matchledger/internal/membership"
)

// Type is the kind of scoring event.
type Type string

const (
	TypeGoal    Type = "GOAL"
	TypeAssist  Type = "ASSIST"
	TypeOwnGoal Type = "OWN_GOAL"
)

// Event is one scoring-event row. EventTime is the minute mark within the
// quarter, an ordering key rather than a wall clock.
type Event struct {
	ID           int64  `json:"id"`
	QuarterID    int64  `json:"quarter_id"`
	TeamID       int64  `json:"team_id"`
	UserID       int64  `json:"user_id"`
	Type         Type   `json:"type"`
	EventTime    int    `json:"event_time"`
	LinkedGoalID *int64 `json:"linked_goal_id,omitempty"`
}

// Goal is a goal-type event with its assist eagerly attached when present.
type Goal struct {
	Event
	Assist *Event `json:"assist,omitempty"`
}

// GoalRequest is one goal-scoring submission.
type GoalRequest struct {
	TeamID       int64  `json:"team_id"`
	ScorerID     int64  `json:"scorer_id"`
	AssistUserID *int64 `json:"assist_user_id,omitempty"`
	OwnGoal      bool   `json:"own_goal"`
	EventTime    int    `json:"event_time"`
}

// AddGoal validates the submission and persists the goal row plus, when an
// assister is named, its linked assist row in one transaction.
func AddGoal(ctx context.Context, b db.Beginner, callerID, matchID, quarterID int64, req GoalRequest) (*Goal, error) {
	if req.OwnGoal && req.AssistUserID != nil {
		return nil, apperr.InvalidParam("an own goal cannot have an assist")
	}
	if req.EventTime < 0 {
		return nil, apperr.InvalidParam("event time must be non-negative")
	}

	if err := checkQuarterOfMatch(ctx, b, matchID, quarterID); err != nil {
		return nil, err
	}

	if _, err := membership.Get(ctx, b, req.TeamID, callerID); err != nil {
		return nil, err
	}

	involved := []int64{req.ScorerID}
	if req.AssistUserID != nil {
		involved = append(involved, *req.AssistUserID)
	}
	if _, err := membership.ResolveAccepted(ctx, b, req.TeamID, involved); err != nil {
		return nil, err
	}

	goalType := TypeGoal
	if req.OwnGoal {
		goalType = TypeOwnGoal
	}

	tx, err := b.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin add goal: %w", err)
	}
	defer tx.Rollback(ctx)

	goal := Goal{Event: Event{
		QuarterID: quarterID,
		TeamID:    req.TeamID,
		UserID:    req.ScorerID,
		Type:      goalType,
		EventTime: req.EventTime,
	}}
	err = tx.QueryRow(ctx, `
		INSERT INTO scoring_events (quarter_id, team_id, user_id, type, event_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		quarterID, req.TeamID, req.ScorerID, goalType, req.EventTime).Scan(&goal.ID)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}

	if req.AssistUserID != nil {
		assist := Event{
			QuarterID:    quarterID,
			TeamID:       req.TeamID,
			UserID:       *req.AssistUserID,
			Type:         TypeAssist,
			EventTime:    req.EventTime,
			LinkedGoalID: &goal.ID,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO scoring_events (quarter_id, team_id, user_id, type, event_time, linked_goal_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			quarterID, req.TeamID, *req.AssistUserID, TypeAssist, req.EventTime, goal.ID).Scan(&assist.ID)
		if err != nil {
			return nil, fmt.Errorf("insert assist: %w", err)
		}
		goal.Assist = &assist
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit add goal: %w", err)
	}
	return &goal, nil
}

// GoalsOfQuarter returns the quarter's goal-type events (assist-only rows
// excluded) ordered by event time, each with its assist attached.
func GoalsOfQuarter(ctx context.Context, q db.Querier, matchID, quarterID int64) ([]Goal, error) {
	if err := checkQuarterOfMatch(ctx, q, matchID, quarterID); err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, "goals_of_quarter", quarterID)
	if err != nil {
		return nil, fmt.Errorf("list goals of quarter %d: %w", quarterID, err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var g Goal
		var assistID, assistUserID *int64
		var assistTime *int
		if err := rows.Scan(&g.ID, &g.QuarterID, &g.TeamID, &g.UserID, &g.Type, &g.EventTime,
			&assistID, &assistUserID, &assistTime); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if assistID != nil {
			g.Assist = &Event{
				ID:           *assistID,
				QuarterID:    g.QuarterID,
				TeamID:       g.TeamID,
				UserID:       *assistUserID,
				Type:         TypeAssist,
				EventTime:    *assistTime,
				LinkedGoalID: &g.ID,
			}
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// DeleteAllOfQuarter removes every scoring event a quarter owns. Called only
// from the quarter-deletion transaction.
func DeleteAllOfQuarter(ctx context.Context, q db.Querier, quarterID int64) error {
	if _, err := q.Exec(ctx, "DELETE FROM scoring_events WHERE quarter_id = $1", quarterID); err != nil {
		return fmt.Errorf("delete scoring events of quarter %d: %w", quarterID, err)
	}
	return nil
}

// checkQuarterOfMatch verifies the quarter exists and belongs to the match.
func checkQuarterOfMatch(ctx context.Context, q db.Querier, matchID, quarterID int64) error {
	var storedMatchID int64
	err := q.QueryRow(ctx, "SELECT match_id FROM quarters WHERE id = $1", quarterID).
		Scan(&storedMatchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("quarter")
	}
	if err != nil {
		return fmt.Errorf("load quarter %d: %w", quarterID, err)
	}
	if storedMatchID != matchID {
		return apperr.InvalidParam("quarter %d does not belong to match %d", quarterID, matchID)
	}
	return nil
}
