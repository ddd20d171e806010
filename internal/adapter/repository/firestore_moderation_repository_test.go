package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"swapskill/internal/domain/entity"
)

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	messages := []*entity.SystemMessage{
		{ID: "old", CreatedAt: base},
		{ID: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "middle", CreatedAt: base.Add(time.Hour)},
	}

	sortNewestFirst(messages)

	ids := make([]string, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"newest", "middle", "old"}, ids)
}
