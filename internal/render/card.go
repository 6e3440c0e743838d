package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/alimgiray/streakcard/internal/models"
)

const (
	CardWidth  = 500
	CardHeight = 200

	DefaultAvatarMIME = "image/png"

	fontFamily = `font-family="Arial, sans-serif"`
	textMiddle = `text-anchor="middle"`
	bold       = `font-weight="bold"`
)

// CardOptions carries the optional inputs of a card render.
type CardOptions struct {
	// Avatar is embedded as a data URI when non-empty; otherwise the username initial is drawn.
	Avatar     []byte
	AvatarMIME string
	RenderedAt time.Time
}

// RenderCard draws the streak card for already normalized statistics.
// Layout is fixed; only colors (theme) and text (stats) vary.
func RenderCard(stats models.Statistics, theme models.Theme, opts CardOptions) []byte {
	if opts.RenderedAt.IsZero() {
		opts.RenderedAt = time.Now()
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(CardWidth, CardHeight)

	writeDefs(canvas, theme)

	canvas.Roundrect(0, 0, CardWidth, CardHeight, 12, 12,
		attr("fill", theme.BackgroundColor), attr("stroke", theme.BorderColor), `stroke-width="2"`)
	canvas.Rect(0, 0, CardWidth, CardHeight, `fill="url(#bgPattern)"`)

	writeIdentity(canvas, stats, theme, opts)
	canvas.Line(150, 60, 150, 140, attr("stroke", theme.BorderColor), `stroke-width="1"`)

	writeStreak(canvas, stats, theme)
	canvas.Line(260, 60, 260, 140, attr("stroke", theme.BorderColor), `stroke-width="1"`)

	writeStatsGrid(canvas, stats, theme)

	canvas.Text(470, 30, "🔥", `id="flame"`, `font-size="14"`, `opacity="0.8"`, fontFamily)
	canvas.Animate("#flame", "opacity", 0, 1, 1.5, 0, `values="0.8;1;0.8"`)

	avatarState := "Fallback"
	if len(opts.Avatar) > 0 {
		avatarState = "Embedded"
	}
	canvas.Text(10, 190,
		fmt.Sprintf("Updated: %s • Avatar: %s", opts.RenderedAt.Format("Jan 2, 2006"), avatarState),
		attr("fill", theme.TextColor), `font-size="8"`, `opacity="0.5"`, fontFamily)

	canvas.End()
	return buf.Bytes()
}

func writeDefs(canvas *svg.SVG, theme models.Theme) {
	canvas.Def()

	canvas.Pattern("bgPattern", 0, 0, 20, 20, "user")
	canvas.Circle(10, 10, 1, attr("fill", theme.AccentColor), `opacity="0.05"`)
	canvas.PatternEnd()

	canvas.ClipPath(`id="avatarClip"`)
	canvas.Circle(40, 40, 30)
	canvas.ClipEnd()

	canvas.LinearGradient("streakGradient", 0, 0, 100, 100, []svg.Offcolor{
		{Offset: 0, Color: theme.StreakColor, Opacity: 1},
		{Offset: 100, Color: theme.AccentColor, Opacity: 1},
	})

	canvas.DefEnd()
}

func writeIdentity(canvas *svg.SVG, stats models.Statistics, theme models.Theme, opts CardOptions) {
	canvas.Translate(50, 50)

	canvas.Circle(40, 40, 32,
		attr("fill", theme.AccentColor), `fill-opacity="0.2"`,
		attr("stroke", theme.AccentColor), `stroke-width="2"`)

	if len(opts.Avatar) > 0 {
		mime := opts.AvatarMIME
		if mime == "" {
			mime = DefaultAvatarMIME
		}
		canvas.Circle(40, 40, 30, `fill="#ffffff"`)
		canvas.Image(10, 10, 60, 60, dataURI(mime, opts.Avatar),
			`clip-path="url(#avatarClip)"`, `preserveAspectRatio="xMidYMid slice"`)
		canvas.Circle(40, 40, 30,
			`fill="none"`, attr("stroke", theme.AccentColor), `stroke-width="1"`, `stroke-opacity="0.5"`)
	} else {
		canvas.Text(40, 50, Initial(stats.Username),
			textMiddle, attr("fill", theme.AccentColor), `font-size="24"`, bold, fontFamily)
	}

	canvas.Text(40, 100, DisplayUsername(stats.Username),
		textMiddle, attr("fill", theme.TextColor), `font-size="14"`, bold, fontFamily)
	canvas.Text(40, 115, fmt.Sprintf("Since %d", stats.JoinedYear),
		textMiddle, attr("fill", theme.TextColor), `font-size="11"`, `opacity="0.7"`, fontFamily)

	canvas.Gend()
}

func writeStreak(canvas *svg.SVG, stats models.Statistics, theme models.Theme) {
	canvas.Translate(170, 50)

	canvas.Circle(40, 40, 35, `id="streakWater"`, attr("fill", theme.WaterColor), `fill-opacity="0.1"`)
	canvas.Animate("#streakWater", "r", 35, 37, 3, 0, `values="35;37;35"`)

	canvas.Circle(40, 40, 30, `id="streakGlow"`, `fill="url(#streakGradient)"`, `fill-opacity="0.3"`)
	canvas.Animate("#streakGlow", "fill-opacity", 0, 1, 2, 0, `values="0.3;0.5;0.3"`)

	canvas.Text(40, 35, fmt.Sprintf("%d", stats.CurrentStreak),
		textMiddle, attr("fill", theme.StreakColor), `font-size="20"`, bold, fontFamily)
	canvas.Text(40, 50, "days",
		textMiddle, attr("fill", theme.TextColor), `font-size="11"`, fontFamily)

	canvas.Circle(40, 40, 35, `id="streakRing"`, `fill="none"`, attr("stroke", theme.StreakColor), `stroke-width="2"`)
	canvas.Animate("#streakRing", "stroke-opacity", 0, 1, 2, 0, `values="1;0.7;1"`)

	canvas.Text(40, 105, "Current Streak",
		textMiddle, attr("fill", theme.AccentColor), `font-size="11"`, `font-weight="500"`, fontFamily)

	canvas.Gend()
}

type languageBar struct {
	x, width int
	color    string
	opacity  string
	begin    string
}

func writeStatsGrid(canvas *svg.SVG, stats models.Statistics, theme models.Theme) {
	canvas.Translate(280, 60)

	label := func(x, y int, s string) {
		canvas.Text(x, y, s, attr("fill", theme.TextColor), `font-size="10"`, `opacity="0.7"`, fontFamily)
	}
	value := func(x, y int, s, color string) {
		canvas.Text(x, y, s, attr("fill", color), `font-size="13"`, bold, fontFamily)
	}

	label(0, 15, "Total Contributions")
	value(0, 30, FormatNumber(stats.TotalContributions), theme.AccentColor)
	label(110, 15, "Longest Streak")
	value(110, 30, fmt.Sprintf("%d days", stats.LongestStreak), theme.StreakColor)

	label(0, 55, "Repositories")
	value(0, 70, FormatNumber(stats.PublicRepos), theme.TextColor)
	label(110, 55, "Followers")
	value(110, 70, FormatNumber(stats.Followers), theme.TextColor)

	label(0, 95, "Top Languages")
	canvas.Text(110, 95, JoinLanguages(stats.TopLanguages),
		attr("fill", theme.TextColor), `font-size="10"`, fontFamily)

	bars := []languageBar{
		{x: 0, width: 40, color: theme.AccentColor, opacity: "1", begin: "0s"},
		{x: 45, width: 35, color: theme.StreakColor, opacity: "1", begin: "0.5s"},
		{x: 85, width: 30, color: theme.AccentColor, opacity: "0.6", begin: "1s"},
		{x: 120, width: 25, color: theme.StreakColor, opacity: "0.4", begin: "1.5s"},
		{x: 150, width: 20, color: theme.TextColor, opacity: "0.3", begin: "2s"},
	}
	for i, bar := range bars {
		id := fmt.Sprintf("languageBar%d", i+1)
		canvas.Roundrect(bar.x, 105, bar.width, 4, 2, 2,
			attr("id", id), attr("fill", bar.color), attr("opacity", bar.opacity))
		canvas.Animate("#"+id, "width", bar.width, bar.width+5, 3, 0,
			fmt.Sprintf(`values="%d;%d;%d"`, bar.width, bar.width+5, bar.width), attr("begin", bar.begin))
	}

	canvas.Gend()
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
