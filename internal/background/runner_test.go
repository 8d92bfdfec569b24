package background

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RunsInOrder(t *testing.T) {
	r := NewRunner(4, nil)
	defer r.Close()

	var mu sync.Mutex
	var got []string
	for _, name := range []string{"upsert", "vocab", "stats"} {
		name := name
		require.NoError(t, r.Submit(context.Background(), Task{Name: name, Run: func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, name)
			return nil
		}}))
	}
	r.Wait()

	assert.Equal(t, []string{"upsert", "vocab", "stats"}, got)
}

func TestRunner_FailuresAreIsolated(t *testing.T) {
	r := NewRunner(4, nil)
	defer r.Close()

	ran := false
	r.Go(context.Background(), "fails", func(context.Context) error { return errors.New("boom") })
	r.Go(context.Background(), "panics", func(context.Context) error { panic("boom") })
	r.Go(context.Background(), "runs", func(context.Context) error {
		ran = true
		return nil
	})
	r.Wait()

	assert.True(t, ran)
}

func TestRunner_IgnoresSubmitterCancellation(t *testing.T) {
	r := NewRunner(1, nil)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var taskErr error
	r.Go(ctx, "after cancel", func(ctx context.Context) error {
		taskErr = ctx.Err()
		return nil
	})
	r.Wait()

	assert.NoError(t, taskErr)
}

func TestRunner_Close(t *testing.T) {
	r := NewRunner(1, nil)
	r.Close()
	r.Close()

	err := r.Submit(context.Background(), Task{Name: "late", Run: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRunner_SubmitDoesNotWaitForBusyWorker(t *testing.T) {
	r := NewRunner(1, nil)
	defer r.Close()

	release := make(chan struct{})
	r.Go(context.Background(), "slow upsert", func(context.Context) error {
		<-release
		return nil
	})

	var mu sync.Mutex
	ran := 0
	submitted := make(chan struct{})
	go func() {
		defer close(submitted)
		for i := 0; i < 100; i++ {
			r.Go(context.Background(), "queued", func(context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				ran++
				return nil
			})
		}
	}()

	select {
	case <-submitted:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit waited for the busy worker")
	}
	close(release)
	r.Wait()

	assert.Equal(t, 100, ran)
}

func TestRunner_CloseDrainsQueue(t *testing.T) {
	r := NewRunner(1, nil)
	ran := 0
	for i := 0; i < 5; i++ {
		r.Go(context.Background(), "queued", func(context.Context) error {
			ran++
			return nil
		})
	}
	r.Close()

	assert.Equal(t, 5, ran)
}
