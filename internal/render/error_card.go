package render

import (
	"bytes"

	svg "github.com/ajstarks/svgo"
)

const (
	FetchFailedMessage      = "Failed to fetch user data"
	GenerationFailedMessage = "Card generation failed"
)

// RenderError draws the fixed, theme-independent error card. It has the same
// canvas size as RenderCard so embeds never change shape.
func RenderError(message string) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(CardWidth, CardHeight)

	canvas.Roundrect(0, 0, CardWidth, CardHeight, 12, 12, `fill="#1a1b27"`, `stroke="#ef4444"`, `stroke-width="2"`)
	canvas.Text(250, 90, "❌", textMiddle, `fill="#ffffff"`, `font-size="16"`, fontFamily)
	canvas.Text(250, 110, message, textMiddle, `fill="#ffffff"`, `font-size="14"`, fontFamily)
	canvas.Text(250, 130, "Please try again", textMiddle, `fill="#ffffff"`, `font-size="12"`, fontFamily, `opacity="0.7"`)

	canvas.End()
	return buf.Bytes()
}
