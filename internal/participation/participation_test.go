package participation

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/membership"
)

func TestValidateShape(t *testing.T) {
	valid := Submission{InUserID: 1, InUserName: "Kim", Position: membership.PositionCF, EventTime: 0}

	tests := []struct {
		name    string
		mutate  func(*Submission)
		wantMsg string
	}{
		{"valid entry", func(s *Submission) {}, ""},
		{"missing in name", func(s *Submission) { s.InUserName = "" }, "in player name"},
		{"bad position", func(s *Submission) { s.Position = "QB" }, "unknown position"},
		{"negative time", func(s *Submission) {
			s.OutUserID = ptr(2)
			s.OutUserName = "Lee"
			s.EventTime = -1
		}, "non-negative"},
		{"entry not at quarter start", func(s *Submission) { s.EventTime = 12 }, "quarter start"},
		{"out id without name", func(s *Submission) {
			s.OutUserID = ptr(2)
			s.EventTime = 10
		}, "out player name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := validateShape([]Submission{s})
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestInsertEmptyBatch(t *testing.T) {
	_, err := Insert(context.Background(), nil, 1, 1, 1, 1, nil)
	assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
}

func quarterRow(id, matchID int64, teamA, teamB int64) *pgxmock.Rows {
	return pgxmock.NewRows(
		[]string{"id", "match_id", "ordinal", "team_a_score", "team_b_score", "team_a", "team_b"}).
		AddRow(id, matchID, 1, 0, 0, teamA, teamB)
}

func TestInsertTeamNotInMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("quarter_by_id").
		WithArgs(int64(50)).
		WillReturnRows(quarterRow(50, 40, 1, 2))

	subs := []Submission{{InUserID: 7, InUserName: "Kim", Position: membership.PositionGK}}
	_, err = Insert(context.Background(), mock, 9, 40, 50, 3, subs)
	assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "not part of match")
}

func TestInsertUnknownMemberNothingPersisted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("quarter_by_id").
		WithArgs(int64(50)).
		WillReturnRows(quarterRow(50, 40, 1, 2))
	mock.ExpectQuery("member_by_team_user").
		WithArgs(int64(1), int64(9)).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "team_id", "user_id", "permission", "accept_status"}).
			AddRow(int64(10), int64(1), int64(9), membership.PermissionManager, membership.StatusAccepted))
	// Player 7 does not resolve; no transaction may start after this.
	mock.ExpectQuery("members_accepted_by_ids").
		WithArgs(int64(1), []int64{7}).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "team_id", "user_id", "permission", "accept_status"}))

	subs := []Submission{{InUserID: 7, InUserName: "Kim", Position: membership.PositionGK}}
	_, err = Insert(context.Background(), mock, 9, 40, 50, 1, subs)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertHappyPath(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("quarter_by_id").
		WithArgs(int64(50)).
		WillReturnRows(quarterRow(50, 40, 1, 2))
	mock.ExpectQuery("member_by_team_user").
		WithArgs(int64(1), int64(9)).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "team_id", "user_id", "permission", "accept_status"}).
			AddRow(int64(10), int64(1), int64(9), membership.PermissionManager, membership.StatusAccepted))
	mock.ExpectQuery("members_accepted_by_ids").
		WithArgs(int64(1), []int64{7, 8}).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "team_id", "user_id", "permission", "accept_status"}).
			AddRow(int64(20), int64(1), int64(7), membership.PermissionMember, membership.StatusAccepted).
			AddRow(int64(21), int64(1), int64(8), membership.PermissionMember, membership.StatusAccepted))
	mock.ExpectQuery("participations_of_quarter_team").
		WithArgs(int64(50), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "quarter_id", "team_id", "in_user_id", "in_user_name",
			"out_user_id", "out_user_name", "position", "event_time"}))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO quarter_participations").
		WithArgs(int64(50), int64(1), int64(7), "Kim", (*int64)(nil), (*string)(nil), membership.PositionGK, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectQuery("INSERT INTO quarter_participations").
		WithArgs(int64(50), int64(1), int64(8), "Lee", (*int64)(nil), (*string)(nil), membership.PositionCB, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(101)))
	mock.ExpectCommit()

	subs := []Submission{
		{InUserID: 7, InUserName: "Kim", Position: membership.PositionGK},
		{InUserID: 8, InUserName: "Lee", Position: membership.PositionCB},
	}
	events, err := Insert(context.Background(), mock, 9, 40, 50, 1, subs)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(100), events[0].ID)
	assert.Equal(t, int64(101), events[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditWrongQuarter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, quarter_id, team_id").
		WithArgs(int64(100)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "quarter_id", "team_id", "in_user_id", "in_user_name",
			"out_user_id", "out_user_name", "position", "event_time"}).
			AddRow(int64(100), int64(51), int64(1), int64(7), "Kim",
				(*int64)(nil), (*string)(nil), membership.PositionGK, 0))

	req := EditRequest{EventID: 100, InUserID: 7, InUserName: "Kim", Position: membership.PositionGK}
	_, err = Edit(context.Background(), mock, 9, 50, req)
	assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
}

func TestEditMissingEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, quarter_id, team_id").
		WithArgs(int64(100)).
		WillReturnError(pgx.ErrNoRows)

	_, err = Edit(context.Background(), mock, 9, 50, EditRequest{EventID: 100})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
