package entity

import "time"

type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapApproved  SwapStatus = "approved"
	SwapRejected  SwapStatus = "rejected"
	SwapAccepted  SwapStatus = "accepted"
	SwapDeclined  SwapStatus = "declined"
	SwapCompleted SwapStatus = "completed"
	SwapCancelled SwapStatus = "cancelled"
)

func (s SwapStatus) Valid() bool {
	switch s {
	case SwapPending, SwapApproved, SwapRejected, SwapAccepted, SwapDeclined, SwapCompleted, SwapCancelled:
		return true
	}
	return false
}

// Terminal reports whether normal user flows may no longer move the request.
func (s SwapStatus) Terminal() bool {
	return s == SwapCompleted || s == SwapCancelled
}

type SwapPriority string

const (
	PriorityLow    SwapPriority = "low"
	PriorityNormal SwapPriority = "normal"
	PriorityHigh   SwapPriority = "high"
	PriorityUrgent SwapPriority = "urgent"
)

func (p SwapPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// SwapRequest proposes exchanging OfferedSkill for RequestedSkill. In the
// document each skill is stored either embedded or as a bare skill id; the id
// form is kept in the *Ref fields until resolved.
type SwapRequest struct {
	ID            string `json:"id" firestore:"id"`
	RequesterID   string `json:"requester_id" firestore:"requesterId"`
	RequesterName string `json:"requester_name,omitempty" firestore:"requesterName,omitempty"`
	TargetID      string `json:"target_id" firestore:"targetId"`
	TargetName    string `json:"target_name,omitempty" firestore:"targetName,omitempty"`

	OfferedSkill      *Skill `json:"offered_skill" firestore:"-"`
	RequestedSkill    *Skill `json:"requested_skill" firestore:"-"`
	OfferedSkillRef   string `json:"-" firestore:"-"`
	RequestedSkillRef string `json:"-" firestore:"-"`

	Message    string       `json:"message,omitempty" firestore:"message,omitempty"`
	Status     SwapStatus   `json:"status" firestore:"status"`
	Priority   SwapPriority `json:"priority,omitempty" firestore:"priority,omitempty"`
	AdminNotes string       `json:"admin_notes,omitempty" firestore:"adminNotes,omitempty"`
	CreatedAt  time.Time    `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time    `json:"updated_at" firestore:"updatedAt"`

	Pending bool `json:"pending,omitempty" firestore:"-"`
}

// Resolved reports whether both skills are available as full records.
func (r *SwapRequest) Resolved() bool {
	return r.OfferedSkill != nil && r.RequestedSkill != nil
}

func (r *SwapRequest) Involves(userID string) bool {
	return r.RequesterID == userID || r.TargetID == userID
}
