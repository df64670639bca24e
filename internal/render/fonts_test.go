package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFontFaceBuiltin(t *testing.T) {
	face, err := LoadFontFace("", 28)
	require.NoError(t, err)
	assert.NotNil(t, face)

	bold, err := LoadFontFace("Bold", 14)
	require.NoError(t, err)
	assert.NotNil(t, bold)

	// имя нормализуется: регистр и расширение не важны
	same, err := LoadFontFace("bold.ttf", 14)
	require.NoError(t, err)
	assert.Same(t, bold, same)
}

func TestLoadFontFaceUnknown(t *testing.T) {
	_, err := LoadFontFace("definitely-no-such-font", 28)
	assert.Error(t, err)
}
