package overflow

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateDocumentTextAtRuneBoundary(t *testing.T) {
	// 3-byte runes put the byte budget in the middle of a rune
	long := strings.Repeat("€", 4000)
	require.Greater(t, len(long), truncateTextBudget)

	out := truncateDocument(map[string]interface{}{"response": long})

	got, ok := out["response"].(string)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, truncationMarker))

	body := strings.TrimSuffix(got, truncationMarker)
	assert.LessOrEqual(t, len(body), truncateTextBudget)
	assert.True(t, strings.HasPrefix(long, body), "truncation keeps a prefix of the original")
	// cut backs off from byte 10000 to the rune start at 9999
	assert.Equal(t, truncateTextBudget-1, len(body))
}

func TestTruncateDocumentShortTextUntouched(t *testing.T) {
	out := truncateDocument(map[string]interface{}{"response": "short €€€ answer"})
	assert.Equal(t, "short €€€ answer", out["response"])
}
