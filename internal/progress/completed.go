package progress

import (
	"context"
	"fmt"
	"sort"

	"github.com/at-ishikawa/lingosync/internal/kvstore"
	"github.com/at-ishikawa/lingosync/internal/lesson"
)

func either(a, b bool) bool { return a || b }

func (l *Ledger) loadCompleted(ctx context.Context) (map[string]bool, error) {
	completed := make(map[string]bool)
	if _, err := l.codec.Load(ctx, kvstore.KeyLessonCompleted, &completed); err != nil {
		return nil, fmt.Errorf("codec.Load(completed) > %w", err)
	}
	if completed == nil {
		completed = make(map[string]bool)
	}
	return completed, nil
}

func (l *Ledger) markCompleted(ctx context.Context, ref lesson.Ref) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	completed, err := l.loadCompleted(ctx)
	if err != nil {
		return err
	}
	completed[ref.ID().String()] = true
	if err := l.codec.Save(ctx, kvstore.KeyLessonCompleted, completed); err != nil {
		return fmt.Errorf("save completed map > %w", err)
	}
	return nil
}

// IsCompleted reads the local completed map, accepting every historical key shape.
func (l *Ledger) IsCompleted(ctx context.Context, ref lesson.Ref) (bool, error) {
	completed, err := l.loadCompleted(ctx)
	if err != nil {
		return false, err
	}
	v, _ := kvstore.Lookup(completed, ref)
	return v, nil
}

// CompletedMap reconciles the completed map with the remote rows and stores it under canonical keys.
// Completion is sticky: a lesson completed on either side stays completed.
// When the remote store is unreachable the local map is returned.
func (l *Ledger) CompletedMap(ctx context.Context) (map[string]bool, error) {
	records, remoteErr := l.repo.FindByUser(ctx, l.cfg.UserID)

	l.mu.Lock()
	defer l.mu.Unlock()

	local, err := l.loadCompleted(ctx)
	if err != nil {
		return nil, err
	}
	merged := kvstore.Canonicalize(local, either)
	if remoteErr != nil {
		l.logger.Warn("remote completion unavailable, using local", "error", remoteErr)
		return merged, nil
	}

	for _, r := range records {
		if r.Completed {
			merged[r.LessonID.String()] = true
		}
	}
	if err := l.codec.Save(ctx, kvstore.KeyLessonCompleted, merged); err != nil {
		return merged, fmt.Errorf("save completed map > %w", err)
	}
	return merged, nil
}

// CompletedLessons lists the completed lessons that resolve to a canonical id.
func (l *Ledger) CompletedLessons(ctx context.Context) ([]lesson.ID, error) {
	completed, err := l.CompletedMap(ctx)
	if err != nil {
		return nil, err
	}
	var ids []lesson.ID
	for key, done := range completed {
		if !done {
			continue
		}
		if id, err := lesson.Resolve(key); err == nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
