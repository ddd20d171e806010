package entity

import "time"

type SkillType string

const (
	SkillOffered SkillType = "offered"
	SkillWanted  SkillType = "wanted"
)

func (t SkillType) Valid() bool {
	return t == SkillOffered || t == SkillWanted
}

type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
	LevelExpert       SkillLevel = "expert"
)

func (l SkillLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced, LevelExpert:
		return true
	}
	return false
}

type SkillCategory struct {
	ID    string `json:"id" firestore:"id"`
	Name  string `json:"name" firestore:"name"`
	Icon  string `json:"icon" firestore:"icon"`
	Color string `json:"color" firestore:"color"`
}

// SkillCategories is the fixed catalog offered in the skill editor.
var SkillCategories = []SkillCategory{
	{ID: "tech", Name: "Technology", Icon: "code", Color: "#3B82F6"},
	{ID: "design", Name: "Design", Icon: "palette", Color: "#EC4899"},
	{ID: "languages", Name: "Languages", Icon: "globe", Color: "#10B981"},
	{ID: "music", Name: "Music", Icon: "music", Color: "#8B5CF6"},
	{ID: "business", Name: "Business", Icon: "briefcase", Color: "#F59E0B"},
	{ID: "fitness", Name: "Fitness", Icon: "dumbbell", Color: "#EF4444"},
	{ID: "cooking", Name: "Cooking", Icon: "chef-hat", Color: "#F97316"},
	{ID: "crafts", Name: "Arts & Crafts", Icon: "scissors", Color: "#14B8A6"},
	{ID: "other", Name: "Other", Icon: "sparkles", Color: "#6B7280"},
}

func FindSkillCategory(id string) (SkillCategory, bool) {
	for _, c := range SkillCategories {
		if c.ID == id {
			return c, true
		}
	}
	return SkillCategory{}, false
}

type Skill struct {
	ID          string        `json:"id" firestore:"id"`
	Name        string        `json:"name" firestore:"name"`
	Description string        `json:"description,omitempty" firestore:"description,omitempty"`
	Category    SkillCategory `json:"category" firestore:"category"`
	Level       SkillLevel    `json:"level" firestore:"level"`
	Tags        []string      `json:"tags" firestore:"tags"`
	UserID      string        `json:"user_id" firestore:"userId"`
	Type        SkillType     `json:"type" firestore:"type"`
	CreatedAt   time.Time     `json:"created_at" firestore:"createdAt"`

	Pending bool `json:"pending,omitempty" firestore:"-"`
}
