// Package membership resolves team membership rows and evaluates the manage
// permission every team-scoped mutation requires. The permission check is one
// predicate over a loaded member row; services never re-derive it ad hoc.
package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/db"
)

// Permission is a member's privilege level within a team.
type Permission string

const (
	PermissionAdmin   Permission = "ADMIN"
	PermissionManager Permission = "MANAGER"
	PermissionMember  Permission = "MEMBER"
)

// CanManage reports whether the permission allows mutating team-scoped
// records (quarters, participations, member approvals).
func (p Permission) CanManage() bool {
	return p == PermissionAdmin || p == PermissionManager
}

// AcceptStatus is the state of a join request.
type AcceptStatus string

const (
	StatusAccepted AcceptStatus = "ACCEPTED"
	StatusWaiting  AcceptStatus = "WAITING"
	StatusDenied   AcceptStatus = "DENIED"
)

// Member is one team-membership row.
type Member struct {
	ID           int64
	TeamID       int64
	UserID       int64
	UserName     string
	Permission   Permission
	AcceptStatus AcceptStatus
}

// Get loads the caller's member row for a team. Absence of a row is a
// Forbidden error: a non-member has no standing on the team at all.
func Get(ctx context.Context, q db.Querier, teamID, userID int64) (*Member, error) {
	var m Member
	err := q.QueryRow(ctx, "member_by_team_user", teamID, userID).
		Scan(&m.ID, &m.TeamID, &m.UserID, &m.Permission, &m.AcceptStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Forbidden("not a member of this team")
	}
	if err != nil {
		return nil, fmt.Errorf("load member team=%d user=%d: %w", teamID, userID, err)
	}
	return &m, nil
}

// RequireManage verifies the caller is an accepted member with manage
// permission on the team. The two failure modes are distinct Forbidden
// errors: no membership vs. membership without permission.
func RequireManage(ctx context.Context, q db.Querier, teamID, userID int64) error {
	m, err := Get(ctx, q, teamID, userID)
	if err != nil {
		return err
	}
	if m.AcceptStatus != StatusAccepted || !m.Permission.CanManage() {
		return apperr.Forbidden("no manage permission on this team")
	}
	return nil
}

// ResolveAccepted resolves a set of user ids to accepted member rows of one
// team in a single batch lookup. Every requested id must resolve; a missing
// id means the referenced player is not an accepted member of the team.
func ResolveAccepted(ctx context.Context, q db.Querier, teamID int64, userIDs []int64) (map[int64]*Member, error) {
	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return map[int64]*Member{}, nil
	}

	rows, err := q.Query(ctx, "members_accepted_by_ids", teamID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve members of team %d: %w", teamID, err)
	}
	defer rows.Close()

	members := make(map[int64]*Member, len(ids))
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Permission, &m.AcceptStatus); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members[m.UserID] = &m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := members[id]; !ok {
			return nil, apperr.NotFoundf("team member (user %d)", id)
		}
	}
	return members, nil
}

// ListAccepted returns all accepted members of a team with display names.
func ListAccepted(ctx context.Context, q db.Querier, teamID int64) ([]Member, error) {
	rows, err := q.Query(ctx, "members_accepted", teamID)
	if err != nil {
		return nil, fmt.Errorf("list members of team %d: %w", teamID, err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Permission, &m.AcceptStatus, &m.UserName); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Join files a join request for userID on a team. The row starts WAITING
// with plain MEMBER permission; a manager approves or denies it later.
func Join(ctx context.Context, q db.Querier, teamID, userID int64) (*Member, error) {
	var exists int
	err := q.QueryRow(ctx,
		"SELECT 1 FROM teams WHERE id = $1", teamID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("team")
	}
	if err != nil {
		return nil, fmt.Errorf("check team %d: %w", teamID, err)
	}

	var status AcceptStatus
	err = q.QueryRow(ctx,
		"SELECT accept_status FROM team_members WHERE team_id = $1 AND user_id = $2",
		teamID, userID).Scan(&status)
	switch {
	case err == nil && status == StatusAccepted:
		return nil, apperr.Conflict("already a member of this team")
	case err == nil:
		return nil, apperr.Conflict("join already requested")
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("check existing member: %w", err)
	}

	var m Member
	err = q.QueryRow(ctx, `
		INSERT INTO team_members (team_id, user_id, permission, accept_status)
		VALUES ($1, $2, 'MEMBER', 'WAITING')
		RETURNING id, team_id, user_id, permission, accept_status`,
		teamID, userID).
		Scan(&m.ID, &m.TeamID, &m.UserID, &m.Permission, &m.AcceptStatus)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return &m, nil
}

// Approve resolves a WAITING join request. Only WAITING rows may transition;
// anything else is an invalid accept-status transition.
func Approve(ctx context.Context, q db.Querier, callerID, teamID, memberID int64, accept bool) error {
	if err := RequireManage(ctx, q, teamID, callerID); err != nil {
		return err
	}

	var status AcceptStatus
	err := q.QueryRow(ctx,
		"SELECT accept_status FROM team_members WHERE id = $1 AND team_id = $2",
		memberID, teamID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("request member")
	}
	if err != nil {
		return fmt.Errorf("load join request %d: %w", memberID, err)
	}
	if status != StatusWaiting {
		return apperr.InvalidParam("member %d is not waiting for approval", memberID)
	}

	next := StatusDenied
	if accept {
		next = StatusAccepted
	}
	if _, err := q.Exec(ctx,
		"UPDATE team_members SET accept_status = $2 WHERE id = $1",
		memberID, next); err != nil {
		return fmt.Errorf("update accept status: %w", err)
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
