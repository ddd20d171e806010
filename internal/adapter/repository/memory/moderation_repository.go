package memory

import (
	"context"
	"sort"
	"time"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
)

type moderationRepository struct {
	db *DB
}

func NewModerationRepository(db *DB) repository.ModerationRepository {
	return &moderationRepository{db: db}
}

func (r *moderationRepository) CreateFlag(ctx context.Context, flag *entity.FlaggedContent) error {
	r.db.mu.Lock()
	r.db.flags[flag.ID] = cloneFlag(flag)
	r.db.mu.Unlock()

	r.db.notify(flagsCol)
	return nil
}

func (r *moderationRepository) GetFlag(ctx context.Context, id string) (*entity.FlaggedContent, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	f, ok := r.db.flags[id]
	if !ok {
		return nil, errors.NotFound("Flagged content", nil)
	}
	return cloneFlag(f), nil
}

func (r *moderationRepository) ListFlags(ctx context.Context, limit int) ([]*entity.FlaggedContent, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.flagsNewestFirst(limit), nil
}

func (r *moderationRepository) flagsNewestFirst(limit int) []*entity.FlaggedContent {
	out := make([]*entity.FlaggedContent, 0, len(r.db.flags))
	for _, f := range r.db.flags {
		out = append(out, cloneFlag(f))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReportedAt.Equal(out[j].ReportedAt) {
			return out[i].ReportedAt.After(out[j].ReportedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *moderationRepository) DeleteFlag(ctx context.Context, id string) error {
	r.db.mu.Lock()
	delete(r.db.flags, id)
	r.db.mu.Unlock()

	r.db.notify(flagsCol)
	return nil
}

func (r *moderationRepository) UpdateFlag(ctx context.Context, id string, status entity.FlagStatus, reviewerID string, at time.Time) error {
	r.db.mu.Lock()
	f, ok := r.db.flags[id]
	if ok {
		f.Status = status
		f.ReviewedBy = reviewerID
		reviewedAt := at
		f.ReviewedAt = &reviewedAt
	}
	r.db.mu.Unlock()

	if !ok {
		return errors.NotFound("Flagged content", nil)
	}
	r.db.notify(flagsCol)
	return nil
}

func (r *moderationRepository) CountFlags(ctx context.Context, status entity.FlagStatus) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var n int64
	for _, f := range r.db.flags {
		if status == "" || f.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *moderationRepository) CreateSystemMessage(ctx context.Context, message *entity.SystemMessage) error {
	r.db.mu.Lock()
	r.db.systemMessages[message.ID] = cloneSystemMessage(message)
	r.db.mu.Unlock()

	r.db.notify(systemMessagesCol)
	return nil
}

func (r *moderationRepository) ListSystemMessages(ctx context.Context, activeOnly bool) ([]*entity.SystemMessage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := r.systemMessagesWhere(activeOnly)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// systemMessagesWhere iterates the map, so the order is unspecified like the
// Firestore equality query.
func (r *moderationRepository) systemMessagesWhere(activeOnly bool) []*entity.SystemMessage {
	var out []*entity.SystemMessage
	for _, m := range r.db.systemMessages {
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, cloneSystemMessage(m))
	}
	return out
}

func (r *moderationRepository) SetSystemMessageActive(ctx context.Context, id string, active bool) error {
	r.db.mu.Lock()
	m, ok := r.db.systemMessages[id]
	if ok {
		m.Active = active
	}
	r.db.mu.Unlock()

	if !ok {
		return errors.NotFound("System message", nil)
	}
	r.db.notify(systemMessagesCol)
	return nil
}

func (r *moderationRepository) WatchFlags(ctx context.Context, limit int, fn func([]*entity.FlaggedContent)) (repository.Unsubscribe, error) {
	return r.db.watch(flagsCol, func() {
		r.db.mu.RLock()
		flags := r.flagsNewestFirst(limit)
		r.db.mu.RUnlock()
		fn(flags)
	}), nil
}

func (r *moderationRepository) WatchActiveSystemMessages(ctx context.Context, fn func([]*entity.SystemMessage)) (repository.Unsubscribe, error) {
	return r.db.watch(systemMessagesCol, func() {
		r.db.mu.RLock()
		messages := r.systemMessagesWhere(true)
		r.db.mu.RUnlock()
		fn(messages)
	}), nil
}
