package catalogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultStyle(t *testing.T) {
	style := DefaultStyle()

	assert.Equal(t, "#000000", style.PrimaryColor)
	assert.Equal(t, "#333333", style.SecondaryColor)
	assert.Equal(t, "#000000", style.TextColor)
	assert.Equal(t, "#ffffff", style.BackgroundColor)
	assert.Equal(t, "Arial, sans-serif", style.FontFamily)
	assert.Equal(t, LayoutRow, style.Layout)
}

func TestStyle_WithDefaults(t *testing.T) {
	t.Run("zero style becomes default style", func(t *testing.T) {
		assert.Equal(t, DefaultStyle(), Style{}.WithDefaults())
	})

	t.Run("supplied fields are kept", func(t *testing.T) {
		style := Style{PrimaryColor: "#ff0000", Layout: LayoutGrid}.WithDefaults()

		assert.Equal(t, "#ff0000", style.PrimaryColor)
		assert.Equal(t, LayoutGrid, style.Layout)
		assert.Equal(t, DefaultSecondaryColor, style.SecondaryColor)
		assert.Equal(t, DefaultFontFamily, style.FontFamily)
	})

	t.Run("invalid values pass through", func(t *testing.T) {
		style := Style{TextColor: "not-a-color", Layout: "diagonal"}.WithDefaults()

		assert.Equal(t, "not-a-color", style.TextColor)
		assert.Equal(t, Layout("diagonal"), style.Layout)
	})
}

func TestLayout_IsKnown(t *testing.T) {
	assert.True(t, LayoutRow.IsKnown())
	assert.True(t, LayoutGrid.IsKnown())
	assert.True(t, LayoutColumn.IsKnown())
	assert.False(t, Layout("diagonal").IsKnown())
	assert.False(t, Layout("").IsKnown())
}
