package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/internal/infrastructure/ratelimit"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type SwapDirection string

const (
	SwapIncoming SwapDirection = "incoming"
	SwapOutgoing SwapDirection = "outgoing"
	SwapAll      SwapDirection = "all"
)

type SwapUseCase struct {
	swapRepo         repository.SwapRequestRepository
	skillRepo        repository.SkillRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	rateLimiter      RateLimiter
}

func NewSwapUseCase(
	swapRepo repository.SwapRequestRepository,
	skillRepo repository.SkillRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	rateLimiter RateLimiter,
) *SwapUseCase {
	return &SwapUseCase{
		swapRepo:         swapRepo,
		skillRepo:        skillRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		rateLimiter:      limiterOrDefault(rateLimiter),
	}
}

type CreateSwapRequestInput struct {
	TargetID         string
	OfferedSkillID   string
	RequestedSkillID string
	Message          string
	Priority         entity.SwapPriority
}

// CreateSwapRequest stores both skills by id; readers resolve them.
func (uc *SwapUseCase) CreateSwapRequest(ctx context.Context, requesterID string, input CreateSwapRequestInput) (*entity.SwapRequest, error) {
	if err := checkRate(uc.rateLimiter, "CreateSwapRequest", requesterID, ratelimit.ActionCreateSwapRequest); err != nil {
		return nil, err
	}
	if input.TargetID == requesterID {
		return nil, errors.BadRequest("You cannot send a swap request to yourself", nil)
	}
	if input.Priority != "" && !input.Priority.Valid() {
		return nil, errors.BadRequest("Invalid priority: "+string(input.Priority), nil)
	}

	requester, err := uc.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		logger.Error("CreateSwapRequest Error: requester %s: %v", requesterID, err)
		return nil, err
	}
	if requester.IsBanned {
		return nil, errors.Forbidden("Banned users cannot send swap requests", nil)
	}
	target, err := uc.userRepo.GetByID(ctx, input.TargetID)
	if err != nil {
		logger.Error("CreateSwapRequest Error: target %s: %v", input.TargetID, err)
		return nil, err
	}

	offered, err := uc.skillRepo.GetByID(ctx, input.OfferedSkillID)
	if err != nil {
		return nil, err
	}
	if offered.UserID != requesterID || offered.Type != entity.SkillOffered {
		return nil, errors.BadRequest("Offered skill must be one of your offered skills", nil)
	}
	requested, err := uc.skillRepo.GetByID(ctx, input.RequestedSkillID)
	if err != nil {
		return nil, err
	}
	if requested.UserID != input.TargetID || requested.Type != entity.SkillOffered {
		return nil, errors.BadRequest("Requested skill must be offered by the target user", nil)
	}

	now := time.Now()
	req := &entity.SwapRequest{
		ID:                uuid.New().String(),
		RequesterID:       requesterID,
		RequesterName:     requester.DisplayName,
		TargetID:          target.ID,
		TargetName:        target.DisplayName,
		OfferedSkillRef:   offered.ID,
		RequestedSkillRef: requested.ID,
		Message:           input.Message,
		Status:            entity.SwapPending,
		Priority:          input.Priority,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.swapRepo.Create(ctx, req); err != nil {
		logger.Error("CreateSwapRequest Error: %v", err)
		return nil, err
	}

	req.OfferedSkill = offered
	req.RequestedSkill = requested

	notify(ctx, uc.notificationRepo, newNotification(
		target.ID,
		entity.NotificationSwapRequest,
		"New swap request",
		requester.DisplayName+" wants to swap "+offered.Name+" for your "+requested.Name,
		map[string]interface{}{"swapRequestId": req.ID},
	))
	return req, nil
}

// GetSwapRequests lists userID's requests newest first with every skill
// resolved. A request whose skill no longer exists is left out.
func (uc *SwapUseCase) GetSwapRequests(ctx context.Context, userID string, direction SwapDirection) ([]*entity.SwapRequest, error) {
	var incoming, outgoing []*entity.SwapRequest

	switch direction {
	case SwapIncoming:
		var err error
		if incoming, err = uc.swapRepo.ListByTarget(ctx, userID); err != nil {
			logger.Error("GetSwapRequests Error: incoming for %s: %v", userID, err)
			return nil, err
		}
	case SwapOutgoing:
		var err error
		if outgoing, err = uc.swapRepo.ListByRequester(ctx, userID); err != nil {
			logger.Error("GetSwapRequests Error: outgoing for %s: %v", userID, err)
			return nil, err
		}
	case SwapAll, "":
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			incoming, err = uc.swapRepo.ListByTarget(gctx, userID)
			return err
		})
		g.Go(func() error {
			var err error
			outgoing, err = uc.swapRepo.ListByRequester(gctx, userID)
			return err
		})
		if err := g.Wait(); err != nil {
			logger.Error("GetSwapRequests Error: user %s: %v", userID, err)
			return nil, err
		}
	default:
		return nil, errors.BadRequest("Direction must be incoming, outgoing or all", nil)
	}

	seen := make(map[string]bool, len(incoming)+len(outgoing))
	merged := make([]*entity.SwapRequest, 0, len(incoming)+len(outgoing))
	for _, req := range append(incoming, outgoing...) {
		if seen[req.ID] {
			continue
		}
		seen[req.ID] = true
		merged = append(merged, req)
	}
	sortSwapRequests(merged)

	return uc.resolveAll(ctx, merged)
}

// ListAll returns the most recent requests across all users.
func (uc *SwapUseCase) ListAll(ctx context.Context, limit int) ([]*entity.SwapRequest, error) {
	requests, err := uc.swapRepo.List(ctx, limit)
	if err != nil {
		logger.Error("ListAll Error: %v", err)
		return nil, err
	}
	return uc.resolveAll(ctx, requests)
}

func (uc *SwapUseCase) GetSwapRequest(ctx context.Context, userID, requestID string) (*entity.SwapRequest, error) {
	req, err := uc.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Involves(userID) {
		return nil, errors.Forbidden("You are not part of this swap request", nil)
	}
	if err := uc.resolve(ctx, req, map[string]*entity.Skill{}); err != nil {
		return nil, err
	}
	return req, nil
}

func (uc *SwapUseCase) UpdateStatus(ctx context.Context, actorID, requestID string, status entity.SwapStatus, adminNote string) (*entity.SwapRequest, error) {
	if !status.Valid() {
		return nil, errors.BadRequest("Invalid swap status: "+string(status), nil)
	}

	req, err := uc.swapRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(req, actorID, status); err != nil {
		logger.Warn("UpdateStatus Error: %s -> %s by %s: %v", req.Status, status, actorID, err)
		return nil, err
	}

	now := time.Now()
	if err := uc.swapRepo.UpdateStatus(ctx, requestID, status, adminNote, now); err != nil {
		logger.Error("UpdateStatus Error: request %s: %v", requestID, err)
		return nil, err
	}
	req.Status = status
	req.UpdatedAt = now
	if adminNote != "" {
		req.AdminNotes = adminNote
	}

	if status == entity.SwapCompleted {
		if err := uc.userRepo.IncrementSwapCount(ctx, req.RequesterID, req.TargetID); err != nil {
			logger.Error("UpdateStatus Error: swap counts for %s: %v", requestID, err)
		}
	}

	recipient := req.RequesterID
	if actorID == req.RequesterID {
		recipient = req.TargetID
	}
	kind, title := statusNotification(status)
	notify(ctx, uc.notificationRepo, newNotification(
		recipient, kind, title,
		"Your swap request is now "+string(status),
		map[string]interface{}{"swapRequestId": req.ID, "status": string(status)},
	))

	if err := uc.resolve(ctx, req, map[string]*entity.Skill{}); err != nil {
		logger.Warn("UpdateStatus: request %s updated but skills unavailable: %v", requestID, err)
	}
	return req, nil
}

// checkTransition lets the target move a live request and the requester
// cancel a pending one.
func checkTransition(req *entity.SwapRequest, actorID string, to entity.SwapStatus) error {
	if !req.Involves(actorID) {
		return errors.Forbidden("You are not part of this swap request", nil)
	}
	if req.Status.Terminal() {
		return errors.Conflict("Swap request is already " + string(req.Status))
	}

	if actorID == req.RequesterID {
		if to != entity.SwapCancelled {
			return errors.Forbidden("Only the recipient can change this request's status", nil)
		}
		if req.Status != entity.SwapPending {
			return errors.Conflict("Only pending requests can be cancelled")
		}
		return nil
	}

	switch to {
	case entity.SwapPending, entity.SwapCancelled:
		return errors.BadRequest("The recipient cannot set status "+string(to), nil)
	case entity.SwapCompleted:
		if req.Status != entity.SwapAccepted && req.Status != entity.SwapApproved {
			return errors.Conflict("Only accepted requests can be completed")
		}
	}
	return nil
}

func statusNotification(status entity.SwapStatus) (entity.NotificationType, string) {
	switch status {
	case entity.SwapAccepted, entity.SwapApproved:
		return entity.NotificationSwapAccepted, "Swap request accepted"
	case entity.SwapDeclined, entity.SwapRejected:
		return entity.NotificationSwapRejected, "Swap request declined"
	case entity.SwapCompleted:
		return entity.NotificationSwapCompleted, "Swap completed"
	case entity.SwapCancelled:
		return entity.NotificationSwapCancelled, "Swap request cancelled"
	default:
		return entity.NotificationSwapRequest, "Swap request updated"
	}
}

func sortSwapRequests(requests []*entity.SwapRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID < requests[j].ID
	})
}

func (uc *SwapUseCase) resolveAll(ctx context.Context, requests []*entity.SwapRequest) ([]*entity.SwapRequest, error) {
	cache := make(map[string]*entity.Skill)
	out := make([]*entity.SwapRequest, 0, len(requests))
	for _, req := range requests {
		if err := uc.resolve(ctx, req, cache); err != nil {
			if errors.Is(err, "NOT_FOUND") {
				logger.Warn("Skipping swap request %s: %v", req.ID, err)
				continue
			}
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// resolve replaces bare skill ids with the stored skill records.
func (uc *SwapUseCase) resolve(ctx context.Context, req *entity.SwapRequest, cache map[string]*entity.Skill) error {
	lookup := func(ref string) (*entity.Skill, error) {
		if ref == "" {
			return nil, errors.NotFound("Skill", nil)
		}
		if s, ok := cache[ref]; ok {
			return s, nil
		}
		s, err := uc.skillRepo.GetByID(ctx, ref)
		if err != nil {
			return nil, err
		}
		cache[ref] = s
		return s, nil
	}

	// Both references are looked up even when one fails, so a caller that
	// tolerates the error still gets every skill that exists.
	var firstErr error
	if req.OfferedSkill == nil {
		s, err := lookup(req.OfferedSkillRef)
		if err != nil {
			firstErr = err
		} else {
			req.OfferedSkill = s
		}
	}
	if req.RequestedSkill == nil {
		s, err := lookup(req.RequestedSkillRef)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
		} else {
			req.RequestedSkill = s
		}
	}
	return firstErr
}
