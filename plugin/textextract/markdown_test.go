package textextract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown_Segments(t *testing.T) {
	src := []byte("# Plan\n\nWait 5 hours, then `sleep 10 minutes`.\n\n```\n3 days\n```\n\n- in 2 days\n")
	segments, err := NewMarkdown().Segments(src)
	require.NoError(t, err)

	var texts []string
	for _, s := range segments {
		texts = append(texts, s.Text)
		assert.Equal(t, s.Text, string(src[s.Start:s.End()]))
	}
	joined := strings.Join(texts, "|")
	assert.Contains(t, joined, "Plan")
	assert.Contains(t, joined, "Wait 5 hours, then")
	assert.Contains(t, joined, "in 2 days")
	assert.NotContains(t, joined, "sleep")
	assert.NotContains(t, joined, "3 days")
}

func TestMarkdown_Empty(t *testing.T) {
	segments, err := NewMarkdown().Segments(nil)
	require.NoError(t, err)
	assert.Empty(t, segments)
}
