package timespent_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/lingosync/internal/kvstore"
	mock_timespent "github.com/at-ishikawa/lingosync/internal/mocks/timespent"
	"github.com/at-ishikawa/lingosync/internal/remote"
	"github.com/at-ishikawa/lingosync/internal/timespent"
)

const testUser = "user-1"

var errOffline = fmt.Errorf("dial tcp > %w", remote.ErrTransient)

type aggregatorFixture struct {
	aggregator *timespent.Aggregator
	repo       *mock_timespent.MockRepository
	store      *kvstore.MemoryStore
	now        time.Time
}

func newAggregatorFixture(t *testing.T, store *kvstore.MemoryStore) *aggregatorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_timespent.NewMockRepository(ctrl)
	if store == nil {
		store = kvstore.NewMemoryStore()
	}

	f := &aggregatorFixture{
		repo:  repo,
		store: store,
		now:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.aggregator = timespent.NewAggregator(kvstore.NewCodec(store, nil), repo, timespent.Config{
		UserID: testUser,
		Retry:  remote.RetryPolicy{Attempts: 1},
	}, nil)
	timespent.SetClock(f.aggregator, func() time.Time { return f.now })
	return f
}

func (f *aggregatorFixture) accrue(t *testing.T, minutes int) {
	t.Helper()
	for i := 0; i < minutes; i++ {
		_, err := f.aggregator.Accrue(context.Background(), 1)
		require.NoError(t, err)
	}
}

func TestAggregator_OfflineMinutesFlushOnce(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t, nil)
	f.accrue(t, 3)

	f.repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-03-01", 3).Return(errOffline)
	_, err := f.aggregator.Flush(ctx)
	require.Error(t, err)

	snap, err := f.aggregator.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, timespent.Snapshot{Confirmed: 0, Pending: 3, Days: timespent.DayMinutes{"2025-03-01": 3}}, snap)

	f.repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-03-01", 3).Return(nil)
	f.repo.EXPECT().TotalMinutes(gomock.Any(), testUser).Return(3, nil)
	report, err := f.aggregator.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Flushed)
	assert.Equal(t, 0, report.Remaining)
	require.NotNil(t, report.ServerTotal)
	assert.Equal(t, 3, *report.ServerTotal)

	snap, err = f.aggregator.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Confirmed)
	assert.Equal(t, 0, snap.Pending)
	assert.Equal(t, 3, snap.Total())

	pending, err := f.store.Get(ctx, kvstore.KeyTimeSpentPending)
	require.NoError(t, err)
	assert.Equal(t, "0", pending)
	total, err := f.store.Get(ctx, kvstore.KeyTimeSpentTotal)
	require.NoError(t, err)
	assert.Equal(t, "3", total)

	// nothing pending: no remote call
	report, err = f.aggregator.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Flushed)
}

func TestAggregator_Flush(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(repo *mock_timespent.MockRepository, a *timespent.Aggregator)
		wantFlushed   int
		wantConfirmed int
		wantPending   int
		wantErr       bool
	}{
		{
			name: "server total replaces confirmed",
			setupMock: func(repo *mock_timespent.MockRepository, _ *timespent.Aggregator) {
				repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-02-28", 2).Return(nil)
				repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-03-01", 1).Return(nil)
				repo.EXPECT().TotalMinutes(gomock.Any(), testUser).Return(40, nil)
			},
			wantFlushed:   3,
			wantConfirmed: 40,
		},
		{
			name: "total read fails so flushed minutes are added",
			setupMock: func(repo *mock_timespent.MockRepository, _ *timespent.Aggregator) {
				repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-02-28", 2).Return(nil)
				repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-03-01", 1).Return(nil)
				repo.EXPECT().TotalMinutes(gomock.Any(), testUser).Return(0, errOffline)
			},
			wantFlushed:   3,
			wantConfirmed: 13,
		},
		{
			name: "one day fails and stays pending",
			setupMock: func(repo *mock_timespent.MockRepository, _ *timespent.Aggregator) {
				repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-02-28", 2).Return(errOffline)
				repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-03-01", 1).Return(nil)
				repo.EXPECT().TotalMinutes(gomock.Any(), testUser).Return(11, nil)
			},
			wantFlushed:   1,
			wantConfirmed: 11,
			wantPending:   2,
			wantErr:       true,
		},
		{
			name: "minutes accrued during the flush stay pending",
			setupMock: func(repo *mock_timespent.MockRepository, a *timespent.Aggregator) {
				repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-02-28", 2).Return(nil)
				repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-03-01", 1).
					DoAndReturn(func(ctx context.Context, _, _ string, _ int) error {
						_, err := a.Accrue(ctx, 1)
						return err
					})
				repo.EXPECT().TotalMinutes(gomock.Any(), testUser).Return(13, nil)
			},
			wantFlushed:   3,
			wantConfirmed: 13,
			wantPending:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newAggregatorFixture(t, nil)
			require.NoError(t, f.store.Set(ctx, kvstore.KeyTimeSpentTotal, "10"))

			f.now = time.Date(2025, 2, 28, 23, 58, 0, 0, time.UTC)
			f.accrue(t, 2)
			f.now = time.Date(2025, 3, 1, 0, 0, 30, 0, time.UTC)
			f.accrue(t, 1)

			tt.setupMock(f.repo, f.aggregator)
			report, err := f.aggregator.Flush(ctx)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantFlushed, report.Flushed)
			assert.Equal(t, tt.wantPending, report.Remaining)

			snap, err := f.aggregator.Snapshot(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfirmed, snap.Confirmed)
			assert.Equal(t, tt.wantPending, snap.Pending)
		})
	}
}

func TestAggregator_Tick(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t, nil)

	f.repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-03-01", 1).Return(errOffline)
	snap, err := f.aggregator.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Pending)
	assert.Equal(t, 1, snap.Total())

	f.repo.EXPECT().AddTimeSpent(gomock.Any(), testUser, "2025-03-01", 2).Return(nil)
	f.repo.EXPECT().TotalMinutes(gomock.Any(), testUser).Return(2, nil)
	snap, err = f.aggregator.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, timespent.Snapshot{Confirmed: 2, Pending: 0, Days: timespent.DayMinutes{"2025-03-01": 2}}, snap)
}

func TestAggregator_LoadLegacyState(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kvstore.KeyTimeSpentTotal, "20"))
	require.NoError(t, store.Set(ctx, kvstore.KeyTimeSpentPending, "4"))
	require.NoError(t, store.Set(ctx, kvstore.KeyTimeSpentLegacyQueue,
		`[{"dayISO":"2025-02-27","minutes":2},{"dayISO":"2025-02-27T10:00:00.000Z","minutes":1},{"dayISO":"","minutes":9}]`))

	f := newAggregatorFixture(t, store)
	snap, err := f.aggregator.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, snap.Confirmed)
	assert.Equal(t, 7, snap.Pending)

	_, err = store.Get(ctx, kvstore.KeyTimeSpentLegacyQueue)
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
	byDay, err := store.Get(ctx, kvstore.KeyTimeSpentPendingByDay)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2025-02-27":3,"2025-03-01":4}`, byDay)
}

func TestAggregator_MalformedValuesAreIgnored(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kvstore.KeyTimeSpentTotal, "not a number"))
	require.NoError(t, store.Set(ctx, kvstore.KeyTimeSpentByDay, "{"))

	f := newAggregatorFixture(t, store)
	f.accrue(t, 1)

	snap, err := f.aggregator.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, timespent.Snapshot{Confirmed: 0, Pending: 1, Days: timespent.DayMinutes{"2025-03-01": 1}}, snap)
}

func TestAggregator_FetchWeek(t *testing.T) {
	ctx := context.Background()
	f := newAggregatorFixture(t, nil)
	f.accrue(t, 20)

	f.repo.EXPECT().FindDays(gomock.Any(), testUser, "2025-02-23").
		Return([]timespent.DayTotal{{Day: "2025-02-24", Minutes: 15}, {Day: "2025-03-01", Minutes: 12}}, nil)
	week, err := f.aggregator.FetchWeek(ctx)
	require.NoError(t, err)
	require.Len(t, week, timespent.WeekDays)
	assert.Equal(t, timespent.DayTotal{Day: "2025-02-24", Minutes: 15}, week[1])
	assert.Equal(t, timespent.DayTotal{Day: "2025-03-01", Minutes: 20}, week[6])

	f.repo.EXPECT().FindDays(gomock.Any(), testUser, "2025-02-23").Return(nil, errOffline)
	week, err = f.aggregator.FetchWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, week[6].Minutes)
	assert.Equal(t, 0, week[1].Minutes)
}
