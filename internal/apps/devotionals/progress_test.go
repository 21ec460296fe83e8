package devotionals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDayAccessible(t *testing.T) {
	tests := []struct {
		name      string
		completed []int
		day       int
		want      bool
	}{
		{"day one always open", nil, 1, true},
		{"day one open with progress", []int{1, 2}, 1, true},
		{"day two locked before day one done", nil, 2, false},
		{"day two open after day one", []int{1}, 2, true},
		{"day five needs day four", []int{1, 2, 3}, 5, false},
		{"order of completed entries irrelevant", []int{3, 1, 2}, 4, true},
		{"revisit earlier completed day", []int{1, 2, 3}, 2, true},
		{"zero is never a day", []int{1}, 0, false},
		{"negative is never a day", []int{1}, -3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dayAccessible(tt.completed, tt.day))
		})
	}
}

func TestNextDay(t *testing.T) {
	assert.Equal(t, 2, nextDay(1, 7))
	assert.Equal(t, 7, nextDay(6, 7))
	// Completing the final day keeps the cursor on the final day.
	assert.Equal(t, 7, nextDay(7, 7))
	assert.Equal(t, 1, nextDay(1, 1))
}

func TestContainsDay(t *testing.T) {
	assert.True(t, containsDay([]int{2, 5, 1}, 5))
	assert.False(t, containsDay([]int{2, 5, 1}, 3))
	assert.False(t, containsDay(nil, 1))
}

func TestSummaryOf(t *testing.T) {
	assert.Nil(t, summaryOf(nil, 7))

	p := &Progress{CurrentDay: 3, CompletedDays: []int{1, 2}}
	s := summaryOf(p, 7)
	assert.Equal(t, 3, s.CurrentDay)
	assert.Equal(t, 2, s.CompletedCount)
	assert.False(t, s.IsComplete)

	done := &Progress{CurrentDay: 7, CompletedDays: []int{1, 2, 3, 4, 5, 6, 7}}
	assert.True(t, summaryOf(done, 7).IsComplete)
}
