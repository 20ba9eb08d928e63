package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDelay(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  *int
	}{
		{"nil", nil, nil},
		{"integer passes through", 24, intPtr(24)},
		{"json number", float64(48), intPtr(48)},
		{"digit prefixed string", "24h", intPtr(24)},
		{"plain digit string", "72", intPtr(72)},
		{"string with trailing text", "12 heures", intPtr(12)},
		{"non numeric string", "abc", nil},
		{"empty string", "", nil},
		{"unsupported type", []string{"24"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDelay(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func intPtr(i int) *int {
	return &i
}
