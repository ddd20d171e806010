package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"swapskill/internal/domain/entity"
	"swapskill/internal/domain/repository"
	"swapskill/pkg/errors"
	"swapskill/pkg/logger"
)

type firestoreSwapRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreSwapRequestRepository(client *firestore.Client) repository.SwapRequestRepository {
	return &firestoreSwapRequestRepository{
		client: client,
	}
}

func (r *firestoreSwapRequestRepository) swaps() *firestore.CollectionRef {
	return r.client.Collection(swapRequestsCollection)
}

// skillValue stores a resolved skill embedded and an unresolved one as its id.
func skillValue(skill *entity.Skill, ref string) interface{} {
	if skill != nil {
		return skill
	}
	return ref
}

func swapRequestData(req *entity.SwapRequest) map[string]interface{} {
	data := map[string]interface{}{
		"id":             req.ID,
		"requesterId":    req.RequesterID,
		"targetId":       req.TargetID,
		"offeredSkill":   skillValue(req.OfferedSkill, req.OfferedSkillRef),
		"requestedSkill": skillValue(req.RequestedSkill, req.RequestedSkillRef),
		"status":         req.Status,
		"createdAt":      req.CreatedAt,
		"updatedAt":      req.UpdatedAt,
	}
	if req.RequesterName != "" {
		data["requesterName"] = req.RequesterName
	}
	if req.TargetName != "" {
		data["targetName"] = req.TargetName
	}
	if req.Message != "" {
		data["message"] = req.Message
	}
	if req.Priority != "" {
		data["priority"] = req.Priority
	}
	if req.AdminNotes != "" {
		data["adminNotes"] = req.AdminNotes
	}
	return data
}

// decodeSwapRequest reads the plain fields with DataTo and then inspects the
// raw skill fields, which hold either an embedded skill or a skill id.
func decodeSwapRequest(doc *firestore.DocumentSnapshot) (*entity.SwapRequest, error) {
	var req entity.SwapRequest
	if err := doc.DataTo(&req); err != nil {
		return nil, err
	}

	raw := doc.Data()
	var err error
	req.OfferedSkill, req.OfferedSkillRef, err = decodeSkillField(raw["offeredSkill"])
	if err != nil {
		return nil, err
	}
	req.RequestedSkill, req.RequestedSkillRef, err = decodeSkillField(raw["requestedSkill"])
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func decodeSkillField(v interface{}) (*entity.Skill, string, error) {
	switch val := v.(type) {
	case string:
		return nil, val, nil
	case map[string]interface{}:
		return skillFromMap(val), "", nil
	case nil:
		return nil, "", nil
	default:
		return nil, "", errors.BadRequest("unexpected skill field type", nil)
	}
}

func skillFromMap(m map[string]interface{}) *entity.Skill {
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}

	skill := &entity.Skill{
		ID:          str("id"),
		Name:        str("name"),
		Description: str("description"),
		Level:       entity.SkillLevel(str("level")),
		UserID:      str("userId"),
		Type:        entity.SkillType(str("type")),
	}
	if cat, ok := m["category"].(map[string]interface{}); ok {
		skill.Category.ID, _ = cat["id"].(string)
		skill.Category.Name, _ = cat["name"].(string)
		skill.Category.Icon, _ = cat["icon"].(string)
		skill.Category.Color, _ = cat["color"].(string)
	}
	if tags, ok := m["tags"].([]interface{}); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				skill.Tags = append(skill.Tags, s)
			}
		}
	}
	if created, ok := m["createdAt"].(time.Time); ok {
		skill.CreatedAt = created
	}
	return skill
}

func decodeSwapRequests(docs []*firestore.DocumentSnapshot) []*entity.SwapRequest {
	requests := make([]*entity.SwapRequest, 0, len(docs))
	for _, doc := range docs {
		req, err := decodeSwapRequest(doc)
		if err != nil {
			logger.Warn("Skipping malformed swap request %s: %v", doc.Ref.ID, err)
			continue
		}
		requests = append(requests, req)
	}
	return requests
}

func (r *firestoreSwapRequestRepository) Create(ctx context.Context, request *entity.SwapRequest) error {
	_, err := r.swaps().Doc(request.ID).Set(ctx, swapRequestData(request))
	if err != nil {
		return errors.Internal("Failed to create swap request", err)
	}
	return nil
}

func (r *firestoreSwapRequestRepository) GetByID(ctx context.Context, id string) (*entity.SwapRequest, error) {
	doc, err := r.swaps().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Swap request", err)
		}
		return nil, errors.Internal("Failed to get swap request", err)
	}

	req, err := decodeSwapRequest(doc)
	if err != nil {
		return nil, errors.Internal("Failed to parse swap request data", err)
	}
	return req, nil
}

func (r *firestoreSwapRequestRepository) list(ctx context.Context, q firestore.Query) ([]*entity.SwapRequest, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query swap requests", err)
	}
	return decodeSwapRequests(docs), nil
}

func (r *firestoreSwapRequestRepository) ListByTarget(ctx context.Context, userID string) ([]*entity.SwapRequest, error) {
	return r.list(ctx, r.swaps().Where("targetId", "==", userID))
}

func (r *firestoreSwapRequestRepository) ListByRequester(ctx context.Context, userID string) ([]*entity.SwapRequest, error) {
	return r.list(ctx, r.swaps().Where("requesterId", "==", userID))
}

func (r *firestoreSwapRequestRepository) List(ctx context.Context, limit int) ([]*entity.SwapRequest, error) {
	q := r.swaps().OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.list(ctx, q)
}

func (r *firestoreSwapRequestRepository) UpdateStatus(ctx context.Context, id string, status entity.SwapStatus, adminNote string, at time.Time) error {
	updates := []firestore.Update{
		{Path: "status", Value: status},
		{Path: "updatedAt", Value: at},
	}
	if adminNote != "" {
		updates = append(updates, firestore.Update{Path: "adminNotes", Value: adminNote})
	}

	_, err := r.swaps().Doc(id).Update(ctx, updates)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Swap request", err)
		}
		return errors.Internal("Failed to update swap request", err)
	}
	return nil
}

func (r *firestoreSwapRequestRepository) CountByStatus(ctx context.Context, status entity.SwapStatus) (int64, error) {
	return countQuery(ctx, r.swaps().Where("status", "==", status))
}
