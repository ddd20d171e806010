package entity

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	DisplayName string `json:"display_name" firestore:"displayName"`
	SearchName  string `json:"-" firestore:"searchName"` // lower-cased DisplayName for prefix queries
	Bio         string `json:"bio" firestore:"bio"`
	Location    string `json:"location" firestore:"location"`
	SearchPlace string `json:"-" firestore:"searchLocation"` // lower-cased Location
	PhotoURL    string `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	Role        string `json:"role" firestore:"role"`

	IsVerified bool       `json:"is_verified" firestore:"isVerified"`
	IsBanned   bool       `json:"is_banned" firestore:"isBanned"`
	BanReason  string     `json:"ban_reason,omitempty" firestore:"banReason,omitempty"`
	BannedAt   *time.Time `json:"banned_at,omitempty" firestore:"bannedAt,omitempty"`

	Rating      float64 `json:"rating" firestore:"rating"`
	ReviewCount int     `json:"review_count" firestore:"reviewCount"`
	TotalSwaps  int     `json:"total_swaps" firestore:"totalSwaps"`

	OfferedSkillIDs []string `json:"offered_skill_ids" firestore:"skillsOffered"`
	WantedSkillIDs  []string `json:"wanted_skill_ids" firestore:"skillsWanted"`

	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
	LastActive time.Time `json:"last_active" firestore:"lastActive"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// SearchKey normalizes a display name or query for prefix matching.
func SearchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// UserProfile is a user with its skill id arrays resolved into skill records.
type UserProfile struct {
	*User
	SkillsOffered []*Skill `json:"skills_offered"`
	SkillsWanted  []*Skill `json:"skills_wanted"`
}
