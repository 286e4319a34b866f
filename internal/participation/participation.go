// Package participation tracks who was on the pitch during a quarter through
// ordered substitution events. Inserts validate the whole quarter/team
// timeline so the on-pitch roster stays derivable by replay; edits re-check
// the edited row only, mirroring the source system's scope.
package participation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/db"
	"github.com/modukick/matchledger/internal/membership"
	"github.com/modukick/matchledger/internal/quarter"
)

// Event is one persisted substitution row. EventTime is the minute mark
// within the quarter; it orders events and is not wall-clock-bound. A nil
// OutUserID marks an initial entry at the quarter start.
type Event struct {
	ID          int64               `json:"id"`
	QuarterID   int64               `json:"quarter_id"`
	TeamID      int64               `json:"team_id"`
	InUserID    int64               `json:"in_user_id"`
	InUserName  string              `json:"in_user_name"`
	OutUserID   *int64              `json:"out_user_id,omitempty"`
	OutUserName *string             `json:"out_user_name,omitempty"`
	Position    membership.Position `json:"position"`
	EventTime   int                 `json:"event_time"`
}

// Submission is one substitution event in an insert batch.
type Submission struct {
	InUserID    int64               `json:"in_user_id"`
	InUserName  string              `json:"in_user_name"`
	OutUserID   *int64              `json:"out_user_id,omitempty"`
	OutUserName string              `json:"out_user_name,omitempty"`
	Position    membership.Position `json:"position"`
	EventTime   int                 `json:"event_time"`
}

// EditRequest overwrites one event. Out fields are touched only when
// OutUserID is supplied.
type EditRequest struct {
	EventID     int64               `json:"event_id"`
	InUserID    int64               `json:"in_user_id"`
	InUserName  string              `json:"in_user_name"`
	OutUserID   *int64              `json:"out_user_id,omitempty"`
	OutUserName string              `json:"out_user_name,omitempty"`
	Position    membership.Position `json:"position"`
	EventTime   int                 `json:"event_time"`
}

// Insert validates and persists a batch of substitution events for one team
// of a quarter. All events land or none do. The caller must hold manage
// permission on the team; every referenced player must resolve to an accepted
// member of that same team, so cross-team substitution is invalid by
// construction of the lookup.
func Insert(ctx context.Context, b db.Beginner, callerID, matchID, quarterID, teamID int64, subs []Submission) ([]Event, error) {
	if len(subs) == 0 {
		return nil, apperr.InvalidParam("participation batch must not be empty")
	}
	if err := validateShape(subs); err != nil {
		return nil, err
	}

	q, err := quarter.GetOfMatch(ctx, b, matchID, quarterID)
	if err != nil {
		return nil, err
	}
	if teamID != q.TeamAID && teamID != q.TeamBID {
		return nil, apperr.InvalidParam("team %d is not part of match %d", teamID, matchID)
	}

	if err := membership.RequireManage(ctx, b, teamID, callerID); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(subs)*2)
	for _, s := range subs {
		ids = append(ids, s.InUserID)
		if s.OutUserID != nil {
			ids = append(ids, *s.OutUserID)
		}
	}
	if _, err := membership.ResolveAccepted(ctx, b, teamID, ids); err != nil {
		return nil, err
	}

	existing, err := listOfQuarterTeam(ctx, b, quarterID, teamID)
	if err != nil {
		return nil, err
	}

	incoming := make([]Event, len(subs))
	for i, s := range subs {
		incoming[i] = Event{
			QuarterID:  quarterID,
			TeamID:     teamID,
			InUserID:   s.InUserID,
			InUserName: s.InUserName,
			OutUserID:  s.OutUserID,
			Position:   s.Position,
			EventTime:  s.EventTime,
		}
		if s.OutUserID != nil {
			name := s.OutUserName
			incoming[i].OutUserName = &name
		}
	}
	if _, err := replayTimeline(append(append([]Event{}, existing...), incoming...)); err != nil {
		return nil, err
	}

	tx, err := b.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin insert participations: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range incoming {
		e := &incoming[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO quarter_participations
				(quarter_id, team_id, in_user_id, in_user_name, out_user_id, out_user_name, position, event_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			e.QuarterID, e.TeamID, e.InUserID, e.InUserName,
			e.OutUserID, e.OutUserName, e.Position, e.EventTime).Scan(&e.ID)
		if err != nil {
			return nil, fmt.Errorf("insert participation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit insert participations: %w", err)
	}
	return incoming, nil
}

// Edit overwrites one event's time, position, and players. Referenced players
// are re-resolved against the event's team, but the surrounding timeline is
// not replayed again.
func Edit(ctx context.Context, b db.Beginner, callerID, quarterID int64, req EditRequest) (*Event, error) {
	e, err := getEvent(ctx, b, req.EventID)
	if err != nil {
		return nil, err
	}
	if e.QuarterID != quarterID {
		return nil, apperr.InvalidParam("participation %d does not belong to quarter %d", req.EventID, quarterID)
	}

	if err := membership.RequireManage(ctx, b, e.TeamID, callerID); err != nil {
		return nil, err
	}

	if req.InUserName == "" {
		return nil, apperr.InvalidParam("in player name must not be empty")
	}
	if !req.Position.Valid() {
		return nil, apperr.InvalidParam("unknown position %q", req.Position)
	}
	if req.OutUserID != nil && req.OutUserName == "" {
		return nil, apperr.InvalidParam("out player name must not be empty when out player is set")
	}

	ids := []int64{req.InUserID}
	if req.OutUserID != nil {
		ids = append(ids, *req.OutUserID)
	}
	if _, err := membership.ResolveAccepted(ctx, b, e.TeamID, ids); err != nil {
		return nil, err
	}

	e.InUserID = req.InUserID
	e.InUserName = req.InUserName
	e.Position = req.Position
	e.EventTime = req.EventTime
	if req.OutUserID != nil {
		e.OutUserID = req.OutUserID
		name := req.OutUserName
		e.OutUserName = &name
	}

	_, err = b.Exec(ctx, `
		UPDATE quarter_participations
		SET in_user_id = $2, in_user_name = $3, out_user_id = $4, out_user_name = $5,
		    position = $6, event_time = $7
		WHERE id = $1`,
		e.ID, e.InUserID, e.InUserName, e.OutUserID, e.OutUserName, e.Position, e.EventTime)
	if err != nil {
		return nil, fmt.Errorf("update participation %d: %w", e.ID, err)
	}
	return e, nil
}

// ListOfQuarter returns every substitution event of a quarter, ordered by
// team then event time, ready to partition per side for display.
func ListOfQuarter(ctx context.Context, q db.Querier, quarterID int64) ([]Event, error) {
	rows, err := q.Query(ctx, "participations_of_quarter", quarterID)
	if err != nil {
		return nil, fmt.Errorf("list participations of quarter %d: %w", quarterID, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// OnPitch replays a team's timeline and returns the user ids currently on
// the pitch for the quarter.
func OnPitch(ctx context.Context, q db.Querier, quarterID, teamID int64) ([]int64, error) {
	events, err := listOfQuarterTeam(ctx, q, quarterID, teamID)
	if err != nil {
		return nil, err
	}
	roster, err := replayTimeline(events)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(roster))
	for id := range roster {
		ids = append(ids, id)
	}
	return ids, nil
}

func validateShape(subs []Submission) error {
	for _, s := range subs {
		if s.InUserName == "" {
			return apperr.InvalidParam("in player name must not be empty")
		}
		if !s.Position.Valid() {
			return apperr.InvalidParam("unknown position %q", s.Position)
		}
		if s.EventTime < 0 {
			return apperr.InvalidParam("event time must be non-negative")
		}
		if s.OutUserID == nil && s.EventTime != 0 {
			return apperr.InvalidParam("time should be the quarter start when out player is empty")
		}
		if s.OutUserID != nil && s.OutUserName == "" {
			return apperr.InvalidParam("out player name must not be empty when out player is set")
		}
	}
	return nil
}

func listOfQuarterTeam(ctx context.Context, q db.Querier, quarterID, teamID int64) ([]Event, error) {
	rows, err := q.Query(ctx, "participations_of_quarter_team", quarterID, teamID)
	if err != nil {
		return nil, fmt.Errorf("list participations of quarter %d team %d: %w", quarterID, teamID, err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func getEvent(ctx context.Context, q db.Querier, eventID int64) (*Event, error) {
	var e Event
	err := q.QueryRow(ctx, `
		SELECT id, quarter_id, team_id, in_user_id, in_user_name, out_user_id, out_user_name, position, event_time
		FROM quarter_participations WHERE id = $1`, eventID).
		Scan(&e.ID, &e.QuarterID, &e.TeamID, &e.InUserID, &e.InUserName,
			&e.OutUserID, &e.OutUserName, &e.Position, &e.EventTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("participation")
	}
	if err != nil {
		return nil, fmt.Errorf("load participation %d: %w", eventID, err)
	}
	return &e, nil
}

func scanEvents(rows pgx.Rows) ([]Event, error) {
	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.QuarterID, &e.TeamID, &e.InUserID, &e.InUserName,
			&e.OutUserID, &e.OutUserName, &e.Position, &e.EventTime); err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
