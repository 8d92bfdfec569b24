package timespent

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*DBRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDBRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestDBRepository_AddTimeSpent(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "accumulates",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO time_spent .+ ON DUPLICATE KEY UPDATE minutes = minutes \\+ VALUES\\(minutes\\)").
					WithArgs("u1", "2025-03-01", 3).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INSERT INTO time_spent").
					WithArgs("u1", "2025-03-01", 3).
					WillReturnError(fmt.Errorf("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			tt.setupMock(mock)

			err := repo.AddTimeSpent(context.Background(), "u1", "2025-03-01", 3)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDBRepository_TotalMinutes(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(minutes\\), 0\\) FROM time_spent WHERE user_id = \\?").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(42))

	got, err := repo.TotalMinutes(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDBRepository_FindDays(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("SELECT .+ FROM time_spent WHERE user_id = \\? AND day >= \\? ORDER BY day").
		WithArgs("u1", "2025-02-23").
		WillReturnRows(sqlmock.NewRows([]string{"day", "minutes"}).
			AddRow("2025-02-24", 15).
			AddRow("2025-03-01", 12))

	got, err := repo.FindDays(context.Background(), "u1", "2025-02-23")
	require.NoError(t, err)
	assert.Equal(t, []DayTotal{{Day: "2025-02-24", Minutes: 15}, {Day: "2025-03-01", Minutes: 12}}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
