package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	const count = 1000

	for i := 0; i < count; i++ {
		v, err := Generate(PrefixReview)
		require.NoError(t, err)
		assert.False(t, seen[v], "ID should be unique: %s", v)
		seen[v] = true
	}

	assert.Len(t, seen, count)
}

func TestGenerate_Format(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"user", PrefixUser},
		{"book", PrefixBook},
		{"review", PrefixReview},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Generate(tt.prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(v, tt.prefix+"-"))
			assert.Len(t, v, len(tt.prefix)+1+21, "ID: %s", v)

			for _, c := range strings.TrimPrefix(v, tt.prefix+"-") {
				assert.True(t,
					(c >= 'A' && c <= 'Z') ||
						(c >= 'a' && c <= 'z') ||
						(c >= '0' && c <= '9') ||
						c == '_' || c == '-',
					"character %c should be URL-safe", c)
			}
		})
	}
}

func BenchmarkGenerate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Generate("bench")
	}
}
