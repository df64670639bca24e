package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageElementOwnerID(t *testing.T) {
	global := ImageElement{}
	assert.Equal(t, int64(0), global.OwnerID())

	userID := int64(42)
	owned := ImageElement{UserID: &userID}
	assert.Equal(t, int64(42), owned.OwnerID())
}

func TestBotURIRoundTrip(t *testing.T) {
	uri := FormatBotURI(42, "11112222-3333-4444-5555-666677778888")
	assert.Equal(t, "bot://42/11112222-3333-4444-5555-666677778888", uri)

	owner, elementID, err := ParseBotURI(uri)
	require.NoError(t, err)
	assert.Equal(t, int64(42), owner)
	assert.Equal(t, "11112222-3333-4444-5555-666677778888", elementID)
}

func TestParseBotURIErrors(t *testing.T) {
	for _, uri := range []string{
		"https://example.com/file",
		"bot://noslash",
		"bot://42/",
		"bot://owner/element",
	} {
		_, _, err := ParseBotURI(uri)
		assert.Error(t, err, uri)
	}
}
