package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/internal/infrastructure/ratelimit"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type FlagResolution string

const (
	FlagApprove FlagResolution = "approve"
	FlagReject  FlagResolution = "reject"
)

var reportableContent = map[string]bool{
	"user":         true,
	"skill":        true,
	"message":      true,
	"swap_request": true,
}

type AdminUseCase struct {
	userRepo         repository.UserRepository
	swapRepo         repository.SwapRequestRepository
	moderationRepo   repository.ModerationRepository
	notificationRepo repository.NotificationRepository
	swaps            *SwapUseCase
	rateLimiter      RateLimiter
	pageSize         int
}

func NewAdminUseCase(
	userRepo repository.UserRepository,
	swapRepo repository.SwapRequestRepository,
	moderationRepo repository.ModerationRepository,
	notificationRepo repository.NotificationRepository,
	swaps *SwapUseCase,
	rateLimiter RateLimiter,
	pageSize int,
) *AdminUseCase {
	return &AdminUseCase{
		userRepo:         userRepo,
		swapRepo:         swapRepo,
		moderationRepo:   moderationRepo,
		notificationRepo: notificationRepo,
		swaps:            swaps,
		rateLimiter:      limiterOrDefault(rateLimiter),
		pageSize:         pageSize,
	}
}

type ReportContentInput struct {
	ContentType string
	ContentID   string
	Reason      string
	Description string
}

func (uc *AdminUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx, uc.pageSize)
}

func (uc *AdminUseCase) ListSwapRequests(ctx context.Context) ([]*entity.SwapRequest, error) {
	return uc.swaps.ListAll(ctx, uc.pageSize)
}

func (uc *AdminUseCase) VerifyUser(ctx context.Context, adminID, userID string, verified bool) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if verified && user.IsBanned {
		return errors.Conflict("Banned users cannot be verified")
	}
	if err := uc.userRepo.SetVerified(ctx, userID, verified); err != nil {
		logger.Error("VerifyUser Error: user %s: %v", userID, err)
		return err
	}

	logger.Info("Admin %s set verified=%t on user %s", adminID, verified, userID)
	if verified {
		notify(ctx, uc.notificationRepo, newNotification(userID, entity.NotificationVerification,
			"Profile verified", "Your profile has been verified", nil))
	}
	return nil
}

// BanUser also clears the user's verification.
func (uc *AdminUseCase) BanUser(ctx context.Context, adminID, userID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errors.BadRequest("A ban reason is required", nil)
	}
	if adminID == userID {
		return errors.BadRequest("You cannot ban yourself", nil)
	}

	if err := uc.userRepo.Ban(ctx, userID, reason, time.Now()); err != nil {
		logger.Error("BanUser Error: user %s: %v", userID, err)
		return err
	}

	logger.Info("Admin %s banned user %s: %s", adminID, userID, reason)
	notify(ctx, uc.notificationRepo, newNotification(userID, entity.NotificationAdminAction,
		"Account suspended", reason, nil))
	return nil
}

// UnbanUser leaves the user unverified.
func (uc *AdminUseCase) UnbanUser(ctx context.Context, adminID, userID string) error {
	if err := uc.userRepo.Unban(ctx, userID); err != nil {
		logger.Error("UnbanUser Error: user %s: %v", userID, err)
		return err
	}

	logger.Info("Admin %s unbanned user %s", adminID, userID)
	notify(ctx, uc.notificationRepo, newNotification(userID, entity.NotificationAdminAction,
		"Account restored", "Your account is active again", nil))
	return nil
}

func (uc *AdminUseCase) ReportContent(ctx context.Context, reporterID string, input ReportContentInput) (*entity.FlaggedContent, error) {
	if !reportableContent[input.ContentType] {
		return nil, errors.BadRequest("Unsupported content type: "+input.ContentType, nil)
	}
	if input.ContentID == "" || strings.TrimSpace(input.Reason) == "" {
		return nil, errors.BadRequest("Content id and reason are required", nil)
	}
	if err := checkRate(uc.rateLimiter, "ReportContent", reporterID, ratelimit.ActionReportContent); err != nil {
		return nil, err
	}

	flag := &entity.FlaggedContent{
		ID:          uuid.New().String(),
		ContentType: input.ContentType,
		ContentID:   input.ContentID,
		ReportedBy:  reporterID,
		Reason:      strings.TrimSpace(input.Reason),
		Description: input.Description,
		Status:      entity.FlagPending,
		ReportedAt:  time.Now(),
	}
	if err := uc.moderationRepo.CreateFlag(ctx, flag); err != nil {
		logger.Error("ReportContent Error: %v", err)
		return nil, err
	}
	return flag, nil
}

func (uc *AdminUseCase) ListFlags(ctx context.Context) ([]*entity.FlaggedContent, error) {
	flags, err := uc.moderationRepo.ListFlags(ctx, uc.pageSize)
	if err != nil {
		logger.Error("ListFlags Error: %v", err)
		return nil, err
	}
	return flags, nil
}

// ResolveFlag deletes a rejected flag or marks an approved one reviewed. The
// reported content is not touched either way.
func (uc *AdminUseCase) ResolveFlag(ctx context.Context, adminID, flagID string, resolution FlagResolution) error {
	switch resolution {
	case FlagReject:
		if err := uc.moderationRepo.DeleteFlag(ctx, flagID); err != nil {
			logger.Error("ResolveFlag Error: flag %s: %v", flagID, err)
			return err
		}
	case FlagApprove:
		if err := uc.moderationRepo.UpdateFlag(ctx, flagID, entity.FlagApproved, adminID, time.Now()); err != nil {
			logger.Error("ResolveFlag Error: flag %s: %v", flagID, err)
			return err
		}
	default:
		return errors.BadRequest("Resolution must be approve or reject", nil)
	}

	logger.Info("Admin %s resolved flag %s: %s", adminID, flagID, resolution)
	return nil
}

func (uc *AdminUseCase) Broadcast(ctx context.Context, adminID, content string, kind entity.BroadcastType) (*entity.SystemMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("Broadcast content cannot be empty", nil)
	}
	if kind == "" {
		kind = entity.BroadcastInfo
	}
	if !kind.Valid() {
		return nil, errors.BadRequest("Broadcast type must be info, warning or success", nil)
	}

	message := &entity.SystemMessage{
		ID:        uuid.New().String(),
		Content:   content,
		Type:      kind,
		Active:    true,
		CreatedBy: adminID,
		CreatedAt: time.Now(),
	}
	if err := uc.moderationRepo.CreateSystemMessage(ctx, message); err != nil {
		logger.Error("Broadcast Error: %v", err)
		return nil, err
	}
	return message, nil
}

func (uc *AdminUseCase) DeactivateBroadcast(ctx context.Context, id string) error {
	return uc.moderationRepo.SetSystemMessageActive(ctx, id, false)
}

func (uc *AdminUseCase) ListBroadcasts(ctx context.Context, activeOnly bool) ([]*entity.SystemMessage, error) {
	return uc.moderationRepo.ListSystemMessages(ctx, activeOnly)
}

// Stats runs every count in parallel.
func (uc *AdminUseCase) Stats(ctx context.Context) (*entity.AdminStats, error) {
	stats := &entity.AdminStats{SwapsByStatus: make(map[entity.SwapStatus]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return err
			}
			mu.Lock()
			*dst = int(n)
			mu.Unlock()
			return nil
		})
	}

	count(&stats.TotalUsers, func(ctx context.Context) (int64, error) {
		return uc.userRepo.Count(ctx, "", nil)
	})
	count(&stats.VerifiedUsers, func(ctx context.Context) (int64, error) {
		return uc.userRepo.Count(ctx, "isVerified", true)
	})
	count(&stats.BannedUsers, func(ctx context.Context) (int64, error) {
		return uc.userRepo.Count(ctx, "isBanned", true)
	})
	count(&stats.PendingFlags, func(ctx context.Context) (int64, error) {
		return uc.moderationRepo.CountFlags(ctx, entity.FlagPending)
	})
	g.Go(func() error {
		active, err := uc.moderationRepo.ListSystemMessages(gctx, true)
		if err != nil {
			return err
		}
		mu.Lock()
		stats.ActiveNotices = len(active)
		mu.Unlock()
		return nil
	})
	for _, status := range []entity.SwapStatus{
		entity.SwapPending, entity.SwapApproved, entity.SwapRejected, entity.SwapAccepted,
		entity.SwapDeclined, entity.SwapCompleted, entity.SwapCancelled,
	} {
		status := status
		g.Go(func() error {
			n, err := uc.swapRepo.CountByStatus(gctx, status)
			if err != nil {
				return err
			}
			mu.Lock()
			stats.SwapsByStatus[status] = int(n)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Stats Error: %v", err)
		return nil, err
	}
	return stats, nil
}

func (uc *AdminUseCase) WatchFlags(ctx context.Context, fn func([]*entity.FlaggedContent)) (repository.Unsubscribe, error) {
	return uc.moderationRepo.WatchFlags(ctx, uc.pageSize, fn)
}

func (uc *AdminUseCase) WatchSystemMessages(ctx context.Context, fn func([]*entity.SystemMessage)) (repository.Unsubscribe, error) {
	return uc.moderationRepo.WatchActiveSystemMessages(ctx, fn)
}
