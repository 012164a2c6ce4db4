package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLenient(t *testing.T) {
	type payload struct {
		Title string `json:"title"`
	}

	t.Run("StrictJSON", func(t *testing.T) {
		var p payload
		require.True(t, DecodeLenient(`{"title": "Kyoto"}`, &p))
		assert.Equal(t, "Kyoto", p.Title)
	})

	t.Run("FencedJSON", func(t *testing.T) {
		var p payload
		require.True(t, DecodeLenient("```json\n{\"title\": \"Kyoto\"}\n```", &p))
		assert.Equal(t, "Kyoto", p.Title)
	})

	t.Run("ProseAroundJSON", func(t *testing.T) {
		var p payload
		require.True(t, DecodeLenient(`Sure thing! {"title": "Kyoto"} Hope that helps.`, &p))
		assert.Equal(t, "Kyoto", p.Title)
	})

	t.Run("BracesInsideStrings", func(t *testing.T) {
		var p payload
		require.True(t, DecodeLenient(`note: {"title": "Kyoto {old capital}"} end`, &p))
		assert.Equal(t, "Kyoto {old capital}", p.Title)
	})

	t.Run("NoJSONAtAll", func(t *testing.T) {
		var p payload
		assert.False(t, DecodeLenient("just some prose without structure", &p))
	})

	t.Run("UnbalancedBraces", func(t *testing.T) {
		var p payload
		assert.False(t, DecodeLenient(`{"title": "Kyoto"`, &p))
	})
}

func TestImageURL(t *testing.T) {
	url := ImageURL("https://img.example.com/prompt", "kyoto temple")
	assert.Contains(t, url, "https://img.example.com/prompt/kyoto%20temple")
	assert.Contains(t, url, "width=600")
	assert.Contains(t, url, "sig=")

	assert.Empty(t, ImageURL("https://img.example.com/prompt", ""))
}
