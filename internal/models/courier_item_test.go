package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/courieros/courierstack/internal/utils"
)

func TestReminderSendCount(t *testing.T) {
	tests := []struct {
		name     string
		delay    *int
		expected int
	}{
		{"no delay recorded", nil, 1},
		{"escalation delay class", utils.IntPtr(24), 2},
		{"48h delay", utils.IntPtr(48), 1},
		{"72h delay", utils.IntPtr(72), 1},
		{"zero delay", utils.IntPtr(0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &CourierItem{ProcessingDelayHours: tt.delay}
			assert.Equal(t, tt.expected, item.ReminderSendCount())
		})
	}
}

func TestRemindedToday(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("never reminded", func(t *testing.T) {
		item := &CourierItem{}
		assert.False(t, item.RemindedToday(today))
	})

	t.Run("reminded earlier today", func(t *testing.T) {
		sentAt := time.Date(2026, 9, 1, 7, 0, 0, 0, time.UTC)
		item := &CourierItem{LastReminderSentAt: &sentAt}
		assert.True(t, item.RemindedToday(today))
	})

	t.Run("reminded yesterday", func(t *testing.T) {
		sentAt := time.Date(2026, 8, 31, 7, 0, 0, 0, time.UTC)
		item := &CourierItem{LastReminderSentAt: &sentAt}
		assert.False(t, item.RemindedToday(today))
	})
}
