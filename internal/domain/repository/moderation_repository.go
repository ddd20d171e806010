package repository

import (
	"context"
	"time"

	"swapskill/internal/domain/entity"
)

type ModerationRepository interface {
	CreateFlag(ctx context.Context, flag *entity.FlaggedContent) error
	GetFlag(ctx context.Context, id string) (*entity.FlaggedContent, error)
	ListFlags(ctx context.Context, limit int) ([]*entity.FlaggedContent, error)
	DeleteFlag(ctx context.Context, id string) error
	UpdateFlag(ctx context.Context, id string, status entity.FlagStatus, reviewerID string, at time.Time) error
	CountFlags(ctx context.Context, status entity.FlagStatus) (int64, error)

	CreateSystemMessage(ctx context.Context, message *entity.SystemMessage) error
	ListSystemMessages(ctx context.Context, activeOnly bool) ([]*entity.SystemMessage, error)
	SetSystemMessageActive(ctx context.Context, id string, active bool) error

	// WatchFlags delivers flagged content, most recently reported first.
	WatchFlags(ctx context.Context, limit int, fn func([]*entity.FlaggedContent)) (Unsubscribe, error)
	// WatchActiveSystemMessages delivers active broadcasts in no particular
	// order; the filter cannot be combined with ordering without a composite
	// index.
	WatchActiveSystemMessages(ctx context.Context, fn func([]*entity.SystemMessage)) (Unsubscribe, error)
}
