package ranking

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modukick/matchledger/internal/apperr"
	"github.com/modukick/matchledger/internal/config"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name         string
		number, size int
		want         Page
	}{
		{"defaults", 0, 0, Page{Number: 0, Size: config.DefaultPageSize}},
		{"negative page", -3, 20, Page{Number: 0, Size: 20}},
		{"oversized", 1, 10_000, Page{Number: 1, Size: config.MaxPageSize}},
		{"plain", 2, 25, Page{Number: 2, Size: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPage(tt.number, tt.size))
		})
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Number: 0, Size: 10}.offset())
	assert.Equal(t, 30, Page{Number: 3, Size: 10}.offset())
}

func TestSoloTypeValid(t *testing.T) {
	assert.True(t, SoloGoal.Valid())
	assert.True(t, SoloAssist.Valid())
	assert.True(t, SoloAttackPoint.Valid())
	assert.False(t, SoloType("OWN_GOAL").Valid())
	assert.False(t, SoloType("").Valid())
}

func TestTopSoloUnknownType(t *testing.T) {
	_, err := TopSolo(context.Background(), nil, 1, "BLOCKS", NewPage(0, 10))
	assert.Equal(t, apperr.KindInvalidParam, apperr.KindOf(err))
}

func TestTopSoloPreservesCountOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("rank_solo_by_type").
		WithArgs(int64(1), "GOAL", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "total"}).
			AddRow(int64(8), int64(12)).
			AddRow(int64(3), int64(7)).
			AddRow(int64(5), int64(7)))
	// Name lookup returns rows in arbitrary order; ranking order must hold.
	mock.ExpectQuery("users_by_ids").
		WithArgs([]int64{8, 3, 5}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(3), "Park").
			AddRow(int64(5), "Choi").
			AddRow(int64(8), "Kim"))

	records, err := TopSolo(context.Background(), mock, 1, SoloGoal, NewPage(0, 10))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, SoloRecord{UserID: 8, UserName: "Kim", Count: 12}, records[0])
	assert.Equal(t, SoloRecord{UserID: 3, UserName: "Park", Count: 7}, records[1])
	assert.Equal(t, SoloRecord{UserID: 5, UserName: "Choi", Count: 7}, records[2])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTopSoloAttackPoints(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("rank_solo_attack_points").
		WithArgs(int64(1), 5, 5).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "total"}).
			AddRow(int64(4), int64(9)))
	mock.ExpectQuery("users_by_ids").
		WithArgs([]int64{4}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(4), "Jung"))

	records, err := TopSolo(context.Background(), mock, 1, SoloAttackPoint, NewPage(1, 5))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jung", records[0].UserName)
}

func TestTopSoloEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("rank_solo_by_type").
		WithArgs(int64(1), "ASSIST", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "total"}))

	records, err := TopSolo(context.Background(), mock, 1, SoloAssist, NewPage(0, 10))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTopDuo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("rank_duo").
		WithArgs(int64(1), 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"user_id1", "user_id2", "total"}).
			AddRow(int64(3), int64(8), int64(6)).
			AddRow(int64(3), int64(5), int64(2)))
	mock.ExpectQuery("users_by_ids").
		WithArgs([]int64{3, 8, 5}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).
			AddRow(int64(3), "Park").
			AddRow(int64(5), "Choi").
			AddRow(int64(8), "Kim"))

	records, err := TopDuo(context.Background(), mock, 1, NewPage(0, 10))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, DuoRecord{UserID1: 3, UserName1: "Park", UserID2: 8, UserName2: "Kim", Count: 6}, records[0])
	assert.Equal(t, DuoRecord{UserID1: 3, UserName1: "Park", UserID2: 5, UserName2: "Choi", Count: 2}, records[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}
