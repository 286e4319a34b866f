package scoring

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

func ptr(id int64) *int64 { return &id }

func memberRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "team_id", "user_id", "permission", "accept_status"})
}

func expectQuarterOfMatch(mock pgxmock.PgxPoolIface, quarterID, matchID int64) {
	mock.ExpectQuery("SELECT match_id FROM quarters").
		WithArgs(quarterID).
		WillReturnRows(pgxmock.NewRows([]string{"match_id"}).AddRow(matchID))
}

func TestAddGoalOwnGoalWithAssist(t *testing.T) {
	req := GoalRequest{TeamID: 1, ScorerID: 7, AssistUserID: ptr(8), OwnGoal: true}
	_, err := AddGoal(context.Background(), nil, 9, 40, 50, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
}

func TestAddGoalNegativeTime(t *testing.T) {
	req := GoalRequest{TeamID: 1, ScorerID: 7, EventTime: -1}
	_, err := AddGoal(context.Background(), nil, 9, 40, 50, req)
	assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
}

func TestAddGoalWithAssist(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expectQuarterOfMatch(mock, 50, 40)
	mock.ExpectQuery("member_by_team_user").
		WithArgs(int64(1), int64(9)).
		WillReturnRows(memberRows().AddRow(int64(10), int64(1), int64(9), membership.PermissionMember, membership.StatusAccepted))
	mock.ExpectQuery("members_accepted_by_ids").
		WithArgs(int64(1), []int64{7, 8}).
		WillReturnRows(memberRows().
			AddRow(int64(20), int64(1), int64(7), membership.PermissionMember, membership.StatusAccepted).
			AddRow(int64(21), int64(1), int64(8), membership.PermissionMember, membership.StatusAccepted))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO scoring_events").
		WithArgs(int64(50), int64(1), int64(7), TypeGoal, 12).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(200)))
	mock.ExpectQuery("INSERT INTO scoring_events").
		WithArgs(int64(50), int64(1), int64(8), TypeAssist, 12, int64(200)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(201)))
	mock.ExpectCommit()

	req := GoalRequest{TeamID: 1, ScorerID: 7, AssistUserID: ptr(8), EventTime: 12}
	goal, err := AddGoal(context.Background(), mock, 9, 40, 50, req)
	require.NoError(t, err)
	assert.Equal(t, int64(200), goal.ID)
	assert.Equal(t, TypeGoal, goal.Type)
	require.NotNil(t, goal.Assist)
	assert.Equal(t, int64(201), goal.Assist.ID)
	assert.Equal(t, int64(200), *goal.Assist.LinkedGoalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddGoalOwnGoal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expectQuarterOfMatch(mock, 50, 40)
	mock.ExpectQuery("member_by_team_user").
		WithArgs(int64(1), int64(9)).
		WillReturnRows(memberRows().AddRow(int64(10), int64(1), int64(9), membership.PermissionMember, membership.StatusAccepted))
	mock.ExpectQuery("members_accepted_by_ids").
		WithArgs(int64(1), []int64{7}).
		WillReturnRows(memberRows().AddRow(int64(20), int64(1), int64(7), membership.PermissionMember, membership.StatusAccepted))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO scoring_events").
		WithArgs(int64(50), int64(1), int64(7), TypeOwnGoal, 3).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(200)))
	mock.ExpectCommit()

	req := GoalRequest{TeamID: 1, ScorerID: 7, OwnGoal: true, EventTime: 3}
	goal, err := AddGoal(context.Background(), mock, 9, 40, 50, req)
	require.NoError(t, err)
	assert.Equal(t, TypeOwnGoal, goal.Type)
	assert.Nil(t, goal.Assist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddGoalQuarterOfOtherMatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expectQuarterOfMatch(mock, 50, 41)

	req := GoalRequest{TeamID: 1, ScorerID: 7}
	_, err = AddGoal(context.Background(), mock, 9, 40, 50, req)
	assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
}

func TestGoalsOfQuarter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expectQuarterOfMatch(mock, 50, 40)
	mock.ExpectQuery("goals_of_quarter").
		WithArgs(int64(50)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "quarter_id", "team_id", "user_id", "type", "event_time",
			"assist_id", "assist_user_id", "assist_event_time"}).
			AddRow(int64(200), int64(50), int64(1), int64(7), TypeGoal, 12,
				ptr(201), ptr(8), intPtr(12)).
			AddRow(int64(202), int64(50), int64(2), int64(5), TypeOwnGoal, 20,
				(*int64)(nil), (*int64)(nil), (*int)(nil)))

	goals, err := GoalsOfQuarter(context.Background(), mock, 40, 50)
	require.NoError(t, err)
	require.Len(t, goals, 2)

	require.NotNil(t, goals[0].Assist)
	assert.Equal(t, int64(8), goals[0].Assist.UserID)
	assert.Equal(t, TypeAssist, goals[0].Assist.Type)

	assert.Equal(t, TypeOwnGoal, goals[1].Type)
	assert.Nil(t, goals[1].Assist)
}

func TestGoalsOfQuarterMissingQuarter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT match_id FROM quarters").
		WithArgs(int64(50)).
		WillReturnError(pgx.ErrNoRows)

	_, err = GoalsOfQuarter(context.Background(), mock, 40, 50)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func intPtr(n int) *int { return &n }
