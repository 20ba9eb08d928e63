package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRecipient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"encoded multi recipient separator", "jean_and_marie", "jean and marie"},
		{"plain underscore joiner", "jean_marie", "jean and marie"},
		{"mixed separators", "jean_and_marie_paul", "jean and marie and paul"},
		{"single name untouched", "jean", "jean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRecipient(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestFormatRecipient_Blank(t *testing.T) {
	assert.Nil(t, FormatRecipient(""))
	assert.Nil(t, FormatRecipient("   "))
}

func TestParseDate(t *testing.T) {
	got := ParseDate("2025-03-14")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), *got)

	got = ParseDate("2025-03-14T09:30:00")
	require.NotNil(t, got)
	assert.Equal(t, 9, got.Hour())

	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("not-a-date"))
}
