package progress_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/lingosync/internal/background"
	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
	mock_progress "github.com/at-ishikawa/lingosync/internal/mocks/progress"
	"github.com/at-ishikawa/lingosync/internal/progress"
)

const testUser = "0f8fad5b-d9cb-469f-a165-70867728950e"

var (
	testRef   = lesson.Ref{ChapterNo: 1, LessonNo: 3}
	errRemote = errors.New("remote unavailable")
)

type ledgerFixture struct {
	ledger *progress.Ledger
	repo   *mock_progress.MockRepository
	codec  *kvstore.Codec
	store  *kvstore.MemoryStore
	runner *background.Runner
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_progress.NewMockRepository(ctrl)
	store := kvstore.NewMemoryStore()
	codec := kvstore.NewCodec(store, nil)
	runner := background.NewRunner(16, nil)
	t.Cleanup(runner.Close)

	ledger := progress.NewLedger(codec, repo, runner, progress.Config{
		UserID:     testUser,
		TotalPages: 7,
		Practice:   lesson.PracticeRange{First: 3, Last: 5},
	}, nil)
	progress.SetClock(ledger, func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) })
	return &ledgerFixture{ledger: ledger, repo: repo, codec: codec, store: store, runner: runner}
}

func TestLedger_Open(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		localMap  string
		setupMock func(repo *mock_progress.MockRepository)
		want      progress.Resume
	}{
		{
			name: "completed lesson offers restart",
			setupMock: func(repo *mock_progress.MockRepository) {
				repo.EXPECT().FindProgress(gomock.Any(), testUser, lesson.ID(101003)).
					Return(&progress.Record{LastPage: 7, Completed: true}, nil)
			},
			want: progress.Resume{Page: 7, Source: progress.SourceRemote, Completed: true, OfferRestart: true},
		},
		{
			name: "remote resume position",
			setupMock: func(repo *mock_progress.MockRepository) {
				repo.EXPECT().FindProgress(gomock.Any(), testUser, lesson.ID(101003)).
					Return(&progress.Record{LastPage: 4}, nil)
			},
			want: progress.Resume{Page: 4, Source: progress.SourceRemote},
		},
		{
			name: "completed but restarted resumes",
			setupMock: func(repo *mock_progress.MockRepository) {
				repo.EXPECT().FindProgress(gomock.Any(), testUser, lesson.ID(101003)).
					Return(&progress.Record{LastPage: 2, Completed: true}, nil)
			},
			want: progress.Resume{Page: 2, Source: progress.SourceRemote, Completed: true},
		},
		{
			name:     "no remote row uses local map",
			localMap: `{"101003":5}`,
			setupMock: func(repo *mock_progress.MockRepository) {
				repo.EXPECT().FindProgress(gomock.Any(), testUser, lesson.ID(101003)).Return(nil, nil)
			},
			want: progress.Resume{Page: 5, Source: progress.SourceLocal},
		},
		{
			name:     "remote failure uses legacy local key",
			localMap: `{"1_3":6}`,
			setupMock: func(repo *mock_progress.MockRepository) {
				repo.EXPECT().FindProgress(gomock.Any(), testUser, lesson.ID(101003)).Return(nil, errRemote)
			},
			want: progress.Resume{Page: 6, Source: progress.SourceLocal},
		},
		{
			name:     "bare lesson number key does not resume a chapter lesson",
			localMap: `{"3":6}`,
			setupMock: func(repo *mock_progress.MockRepository) {
				repo.EXPECT().FindProgress(gomock.Any(), testUser, lesson.ID(101003)).Return(nil, nil)
			},
			want: progress.Resume{Page: 1, Source: progress.SourceDefault},
		},
		{
			name:     "out of range local page starts over",
			localMap: `{"101003":12}`,
			setupMock: func(repo *mock_progress.MockRepository) {
				repo.EXPECT().FindProgress(gomock.Any(), testUser, lesson.ID(101003)).Return(nil, nil)
			},
			want: progress.Resume{Page: 1, Source: progress.SourceDefault},
		},
		{
			name: "nothing anywhere",
			setupMock: func(repo *mock_progress.MockRepository) {
				repo.EXPECT().FindProgress(gomock.Any(), testUser, lesson.ID(101003)).Return(nil, errRemote)
			},
			want: progress.Resume{Page: 1, Source: progress.SourceDefault},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLedgerFixture(t)
			if tt.localMap != "" {
				require.NoError(t, f.store.Set(ctx, kvstore.KeyLessonProgress, tt.localMap))
			}
			tt.setupMock(f.repo)

			assert.Equal(t, tt.want, f.ledger.Open(ctx, testRef))
		})
	}
}

func TestLedger_SetPage(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	require.NoError(t, f.store.Set(ctx, kvstore.KeyLessonProgress, `{"102001":3}`))

	f.repo.EXPECT().UpsertProgress(gomock.Any(), &progress.Record{
		UserID:    testUser,
		LessonID:  101003,
		LastPage:  4,
		UpdatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}).Return(errRemote)

	require.NoError(t, f.ledger.SetPage(ctx, testRef, 4))

	raw, err := f.store.Get(ctx, kvstore.KeyLessonProgress)
	require.NoError(t, err)
	assert.JSONEq(t, `{"102001":3,"101003":4}`, raw)

	f.runner.Wait()
	assert.Error(t, f.ledger.SetPage(ctx, testRef, 8))
}

func TestLedger_Advance(t *testing.T) {
	ctx := context.Background()

	t.Run("middle page moves on", func(t *testing.T) {
		f := newLedgerFixture(t)
		f.repo.EXPECT().UpsertProgress(gomock.Any(), gomock.Any()).Return(nil)

		step, err := f.ledger.Advance(ctx, testRef, 3)
		require.NoError(t, err)
		assert.Equal(t, progress.Step{Page: 4}, step)
		f.runner.Wait()
	})

	t.Run("final page completes and exits", func(t *testing.T) {
		f := newLedgerFixture(t)

		var hooked []string
		f.ledger.OnComplete(
			progress.CompletionHook{Name: "vocab", Run: func(_ context.Context, ref lesson.Ref) error {
				hooked = append(hooked, "vocab:"+ref.Key())
				return nil
			}},
			progress.CompletionHook{Name: "stats", Run: func(context.Context, lesson.Ref) error {
				hooked = append(hooked, "stats")
				return errors.New("stats failed")
			}},
		)
		f.repo.EXPECT().UpsertProgress(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, r *progress.Record) error {
				assert.True(t, r.Completed)
				assert.Equal(t, 7, r.LastPage)
				return errRemote
			})

		step, err := f.ledger.Advance(ctx, testRef, 7)
		require.NoError(t, err)
		assert.Equal(t, progress.Step{Page: 7, ExitToList: true}, step)

		done, err := f.ledger.IsCompleted(ctx, testRef)
		require.NoError(t, err)
		assert.True(t, done)

		f.runner.Wait()
		assert.Equal(t, []string{"vocab:1_3", "stats"}, hooked)
	})

	t.Run("local failure still exits", func(t *testing.T) {
		f := newLedgerFixture(t)
		require.NoError(t, f.store.Set(ctx, kvstore.KeyLessonCompleted, `{"101003":true}`))
		f.repo.EXPECT().UpsertProgress(gomock.Any(), gomock.Any()).Return(nil)

		failing := progress.NewLedger(kvstore.NewCodec(failingStore{f.store}, nil), f.repo, f.runner, progress.Config{UserID: testUser, TotalPages: 7}, nil)
		step, err := failing.Advance(ctx, testRef, 7)
		assert.Error(t, err)
		assert.True(t, step.ExitToList)
		f.runner.Wait()
	})
}

type failingStore struct {
	kvstore.Store
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}

func TestLedger_Restart(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	require.NoError(t, f.store.Set(ctx, kvstore.KeyLessonCompleted, `{"Ch1_L3":true}`))

	f.repo.EXPECT().UpsertProgress(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, r *progress.Record) error {
			assert.Equal(t, 1, r.LastPage)
			assert.True(t, r.Completed)
			return nil
		})

	page, err := f.ledger.Restart(ctx, testRef)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	f.runner.Wait()
}

func TestLedger_Back(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	f.repo.EXPECT().UpsertProgress(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	page, err := f.ledger.Back(ctx, testRef, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, page)

	page, err = f.ledger.Back(ctx, testRef, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	f.runner.Wait()
}

func TestLedger_CheckAnswer(t *testing.T) {
	f := newLedgerFixture(t)
	q := &lesson.Question{Answer: "Ni Hao"}

	verdict, err := f.ledger.CheckAnswer(3, q, " ni hao ")
	require.NoError(t, err)
	assert.True(t, verdict.Correct)

	verdict, err = f.ledger.CheckAnswer(5, q, "xie xie")
	require.NoError(t, err)
	assert.False(t, verdict.Correct)

	_, err = f.ledger.CheckAnswer(2, q, "ni hao")
	assert.Error(t, err)
	_, err = f.ledger.CheckAnswer(4, nil, "ni hao")
	assert.Error(t, err)
}

func TestLedger_SetPage_BareLessonKeyIsNotCompletion(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	ref := lesson.Ref{ChapterNo: 2, LessonNo: 3}
	require.NoError(t, f.store.Set(ctx, kvstore.KeyLessonCompleted, `{"3":true}`))

	done, err := f.ledger.IsCompleted(ctx, ref)
	require.NoError(t, err)
	assert.False(t, done)

	f.repo.EXPECT().UpsertProgress(gomock.Any(), &progress.Record{
		UserID:    testUser,
		LessonID:  102003,
		LastPage:  2,
		Completed: false,
		UpdatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}).Return(nil)

	require.NoError(t, f.ledger.SetPage(ctx, ref, 2))
	f.runner.Wait()

	done, err = f.ledger.IsCompleted(ctx, lesson.Ref{LessonNo: 3})
	require.NoError(t, err)
	assert.True(t, done)
}

func TestLedger_CompletedMap(t *testing.T) {
	ctx := context.Background()

	t.Run("merges remote into canonical local map", func(t *testing.T) {
		f := newLedgerFixture(t)
		require.NoError(t, f.store.Set(ctx, kvstore.KeyLessonCompleted, `{"Ch1_L3":true,"2_1":false}`))
		f.repo.EXPECT().FindByUser(gomock.Any(), testUser).Return([]progress.Record{
			{LessonID: 102001, Completed: true},
			{LessonID: 103001, Completed: false},
		}, nil)

		got, err := f.ledger.CompletedMap(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"101003": true, "102001": true}, got)

		raw, err := f.store.Get(ctx, kvstore.KeyLessonCompleted)
		require.NoError(t, err)
		assert.JSONEq(t, `{"101003":true,"102001":true}`, raw)
	})

	t.Run("remote failure returns local", func(t *testing.T) {
		f := newLedgerFixture(t)
		require.NoError(t, f.store.Set(ctx, kvstore.KeyLessonCompleted, `{"1_3":true}`))
		f.repo.EXPECT().FindByUser(gomock.Any(), testUser).Return(nil, errRemote)

		got, err := f.ledger.CompletedMap(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]bool{"101003": true}, got)
	})

	t.Run("completed lessons are sorted ids", func(t *testing.T) {
		f := newLedgerFixture(t)
		require.NoError(t, f.store.Set(ctx, kvstore.KeyLessonCompleted, `{"2_1":true,"1_3":true,"4":true}`))
		f.repo.EXPECT().FindByUser(gomock.Any(), testUser).Return(nil, nil)

		ids, err := f.ledger.CompletedLessons(ctx)
		require.NoError(t, err)
		assert.Equal(t, []lesson.ID{101003, 102001}, ids)
	})
}
