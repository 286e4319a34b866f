package membership

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modukick/matchledger/internal/apperr"
)

func TestCanManage(t *testing.T) {
	assert.True(t, PermissionAdmin.CanManage())
	assert.True(t, PermissionManager.CanManage())
	assert.False(t, PermissionMember.CanManage())
	assert.False(t, Permission("").CanManage())
}

func TestPositionValid(t *testing.T) {
	assert.True(t, PositionGK.Valid())
	assert.True(t, PositionRWB.Valid())
	assert.False(t, Position("XX").Valid())
	assert.False(t, Position("").Valid())
}

func memberRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "team_id", "user_id", "permission", "accept_status"})
}

func TestGetNonMemberIsForbidden(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("member_by_team_user").
		WithArgs(int64(1), int64(9)).
		WillReturnError(pgx.ErrNoRows)

	_, err = Get(context.Background(), mock, 1, 9)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestRequireManage(t *testing.T) {
	tests := []struct {
		name       string
		permission Permission
		status     AcceptStatus
		wantErr    bool
	}{
		{"accepted manager", PermissionManager, StatusAccepted, false},
		{"accepted admin", PermissionAdmin, StatusAccepted, false},
		{"accepted plain member", PermissionMember, StatusAccepted, true},
		{"waiting manager", PermissionManager, StatusWaiting, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery("member_by_team_user").
				WithArgs(int64(1), int64(9)).
				WillReturnRows(memberRows().
					AddRow(int64(10), int64(1), int64(9), tt.permission, tt.status))

			err = RequireManage(context.Background(), mock, 1, 9)
			if tt.wantErr {
				assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResolveAccepted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	// Duplicate ids collapse to one lookup row each.
	mock.ExpectQuery("members_accepted_by_ids").
		WithArgs(int64(1), []int64{7, 8}).
		WillReturnRows(memberRows().
			AddRow(int64(20), int64(1), int64(7), PermissionMember, StatusAccepted).
			AddRow(int64(21), int64(1), int64(8), PermissionMember, StatusAccepted))

	members, err := ResolveAccepted(context.Background(), mock, 1, []int64{7, 8, 7})
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, int64(7), members[7].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveAcceptedMissingMember(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("members_accepted_by_ids").
		WithArgs(int64(1), []int64{7, 99}).
		WillReturnRows(memberRows().
			AddRow(int64(20), int64(1), int64(7), PermissionMember, StatusAccepted))

	_, err = ResolveAccepted(context.Background(), mock, 1, []int64{7, 99})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "99")
}

func TestResolveAcceptedEmpty(t *testing.T) {
	members, err := ResolveAccepted(context.Background(), nil, 1, nil)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestJoinAlreadyMember(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT 1 FROM teams").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("SELECT accept_status FROM team_members").
		WithArgs(int64(1), int64(9)).
		WillReturnRows(pgxmock.NewRows([]string{"accept_status"}).AddRow(StatusAccepted))

	_, err = Join(context.Background(), mock, 1, 9)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestApproveNonWaiting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("member_by_team_user").
		WithArgs(int64(1), int64(9)).
		WillReturnRows(memberRows().
			AddRow(int64(10), int64(1), int64(9), PermissionAdmin, StatusAccepted))
	mock.ExpectQuery("SELECT accept_status FROM team_members").
		WithArgs(int64(30), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"accept_status"}).AddRow(StatusDenied))

	err = Approve(context.Background(), mock, 9, 1, 30, true)
	assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
}
