// Package qrgen renders the QR assets linking a physical place to its
// published story.
package qrgen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultSize = 512

	printableWidth  = 600
	printableHeight = 700
	printableQRSize = 400
)

type Generator struct {
	baseURL string
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: baseURL}
}

// StoryURL is the public link encoded into every QR payload.
func (g *Generator) StoryURL(storyID string) string {
	return fmt.Sprintf("%s/story/%s", g.baseURL, storyID)
}

// Generate renders a plain QR code PNG of the given pixel size.
func (g *Generator) Generate(storyID string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	data, err := qrcode.Encode(g.StoryURL(storyID), qrcode.High, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return data, nil
}

// GeneratePrintable renders the poster variant: the QR code on a white
// canvas with the story title, narrator and community underneath.
func (g *Generator) GeneratePrintable(storyID, title, narrator, community string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(g.StoryURL(storyID), qrcode.High, printableQRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	qrImg, err := png.Decode(bytes.NewReader(qrPNG))
	if err != nil {
		return nil, fmt.Errorf("failed to decode qr image: %w", err)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, printableWidth, printableHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	qrX := (printableWidth - printableQRSize) / 2
	draw.Draw(
		canvas,
		image.Rect(qrX, 50, qrX+printableQRSize, 50+printableQRSize),
		qrImg,
		qrImg.Bounds().Min,
		draw.Over,
	)

	// Truncate by runes so accented titles never split mid-character.
	if runes := []rune(title); len(runes) > 60 {
		title = string(runes[:60]) + "..."
	}
	black := color.RGBA{A: 255}
	gray := color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 255}
	lightGray := color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 255}
	blue := color.RGBA{R: 0x19, G: 0x76, B: 0xd2, A: 255}

	drawCenteredText(canvas, title, 490, black)
	drawCenteredText(canvas, "Narrado por: "+narrator, 530, gray)
	drawCenteredText(canvas, "Comunidad: "+community, 560, gray)
	drawCenteredText(canvas, "Escanea el codigo para escuchar la historia", 610, lightGray)
	drawCenteredText(canvas, "Historias Vivientes Aymara", 640, blue)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode printable qr: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCenteredText(dst *image.RGBA, text string, y int, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	x := (printableWidth - width) / 2
	if x < 0 {
		x = 0
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
