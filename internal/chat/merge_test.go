package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func chatMessage(id uint, at time.Time) Message {
	return Message{
		Model:   gorm.Model{ID: id, CreatedAt: at},
		Content: "m",
	}
}

func TestMergeMessagesDeduplicatesByID(t *testing.T) {
	base := time.Now()
	existing := []Message{chatMessage(1, base), chatMessage(2, base.Add(time.Second))}

	merged := MergeMessages(existing, chatMessage(2, base.Add(time.Second)), chatMessage(3, base.Add(2*time.Second)))

	assert.Len(t, merged, 3)
	assert.Equal(t, uint(1), merged[0].ID)
	assert.Equal(t, uint(2), merged[1].ID)
	assert.Equal(t, uint(3), merged[2].ID)
}

func TestMergeMessagesIsIdempotent(t *testing.T) {
	base := time.Now()
	existing := []Message{chatMessage(1, base)}
	pushed := chatMessage(2, base.Add(time.Second))

	once := MergeMessages(existing, pushed)
	twice := MergeMessages(once, pushed)

	assert.Equal(t, once, twice)
}

func TestMergeMessagesOrdersByCreatedAt(t *testing.T) {
	base := time.Now()
	existing := []Message{chatMessage(5, base.Add(2 * time.Second))}

	merged := MergeMessages(existing, chatMessage(7, base))

	assert.Equal(t, uint(7), merged[0].ID)
	assert.Equal(t, uint(5), merged[1].ID)
}

func TestMergeMessagesNoIncoming(t *testing.T) {
	base := time.Now()
	existing := []Message{chatMessage(1, base)}

	merged := MergeMessages(existing)
	assert.Equal(t, existing, merged)
}
