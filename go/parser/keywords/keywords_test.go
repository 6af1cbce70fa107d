package keywords

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordTableSorted(t *testing.T) {
	sorted := sort.SliceIsSorted(Keywords, func(i, j int) bool {
		return Keywords[i].Name < Keywords[j].Name
	})
	assert.True(t, sorted, "keyword table must stay sorted for binary search")

	for _, kw := range Keywords {
		assert.Equal(t, strings.ToLower(kw.Name), kw.Name, "keyword %q must be lowercase", kw.Name)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Token
		found bool
	}{
		{"lowercase keyword", "create", CREATE, true},
		{"uppercase keyword", "CREATE", CREATE, true},
		{"mixed case keyword", "TaBlE", TABLE, true},
		{"first entry", "action", ACTION, true},
		{"last entry", "zone", ZONE, true},
		{"plain identifier", "users", 0, false},
		{"near miss", "creat", 0, false},
		{"empty string", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kw := Lookup(tt.input)
			if !tt.found {
				assert.Nil(t, kw)
				return
			}
			require.NotNil(t, kw)
			assert.Equal(t, tt.want, kw.Token)
		})
	}
}

func TestLookupEveryEntry(t *testing.T) {
	for _, entry := range Keywords {
		kw := Lookup(entry.Name)
		require.NotNil(t, kw, "lookup must find %q", entry.Name)
		assert.Equal(t, entry.Token, kw.Token)

		kw = Lookup(strings.ToUpper(entry.Name))
		require.NotNil(t, kw, "lookup must be case-insensitive for %q", entry.Name)
		assert.Equal(t, entry.Token, kw.Token)
	}
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("table"))
	assert.True(t, IsKeyword("TABLE"))
	assert.False(t, IsKeyword("my_table"))
}

func TestIsReservedKeyword(t *testing.T) {
	assert.True(t, IsReservedKeyword("check"), "check is fully reserved")
	assert.True(t, IsReservedKeyword("primary"))
	assert.False(t, IsReservedKeyword("action"), "action is unreserved")
	assert.False(t, IsReservedKeyword("users"))
}
