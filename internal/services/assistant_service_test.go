package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGuideJSON(t *testing.T) {
	raw := `[{"icon":"🌱","title":"Soil Health","description":"Compost and cover crops"}]`

	principles, err := parseGuideJSON(raw)
	require.NoError(t, err)
	require.Len(t, principles, 1)
	assert.Equal(t, "Soil Health", principles[0].Title)
}

func TestParseGuideJSON_StripsMarkdownFences(t *testing.T) {
	raw := "```json\n[{\"icon\":\"💧\",\"title\":\"Water\",\"description\":\"Drip irrigation\"}]\n```"

	principles, err := parseGuideJSON(raw)
	require.NoError(t, err)
	require.Len(t, principles, 1)
	assert.Equal(t, "Water", principles[0].Title)
}

func TestParseGuideJSON_Invalid(t *testing.T) {
	_, err := parseGuideJSON("I'm sorry, I cannot produce JSON today.")
	assert.Error(t, err)

	// Missing required fields
	_, err = parseGuideJSON(`[{"icon":"🌱"}]`)
	assert.Error(t, err)
}

func TestFallbackGuide(t *testing.T) {
	guide := fallbackGuide("Pune")
	assert.True(t, guide.Fallback)
	assert.Equal(t, "Pune", guide.Location)
	assert.NotEmpty(t, guide.Principles)
}
