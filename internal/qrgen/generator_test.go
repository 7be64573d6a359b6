package qrgen

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoryURL(t *testing.T) {
	g := NewGenerator("https://voices.example.com")
	require.Equal(t, "https://voices.example.com/story/abc123", g.StoryURL("abc123"))
}

func TestGenerate_ProducesPNGOfRequestedSize(t *testing.T) {
	g := NewGenerator("https://voices.example.com")

	data, err := g.Generate("abc123", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 256, img.Bounds().Dx())
	require.Equal(t, 256, img.Bounds().Dy())
}

func TestGenerate_DefaultsSize(t *testing.T) {
	g := NewGenerator("https://voices.example.com")

	data, err := g.Generate("abc123", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestGeneratePrintable_CanvasDimensions(t *testing.T) {
	g := NewGenerator("https://voices.example.com")

	data, err := g.GeneratePrintable("abc123", "El zorro y el condor", "Maria Mamani", "Jesus de Machaca")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, printableWidth, img.Bounds().Dx())
	require.Equal(t, printableHeight, img.Bounds().Dy())
}

func TestGeneratePrintable_TruncatesLongTitle(t *testing.T) {
	g := NewGenerator("https://voices.example.com")

	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}

	// A very long title must not error out or overflow the canvas.
	data, err := g.GeneratePrintable("abc123", string(long), "Maria Mamani", "Jesus de Machaca")
	require.NoError(t, err)
	require.NotEmpty(t, data)
}

func TestGeneratePrintable_TruncatesAccentedTitleOnRuneBoundary(t *testing.T) {
	g := NewGenerator("https://voices.example.com")

	// 61st character is multi-byte; byte-index truncation would split it.
	accented := strings.Repeat("ñ", 80)
	data, err := g.GeneratePrintable("abc123", accented, "María Mamani", "Jesús de Machaca")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, printableWidth, img.Bounds().Dx())
}
