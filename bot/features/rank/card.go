package rank

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/duskdeveloper/discord-level-bot/bot/common"
	"github.com/duskdeveloper/discord-level-bot/models"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

const cardFileName = "rank.png"

// CardStyle defines the layout of the rank card
type CardStyle struct {
	Width     int
	Height    int
	Padding   float64
	BarHeight float64
}

// CardData is what the rank card shows
type CardData struct {
	DisplayName string
	Standing    *models.UserStanding
}

// CardRenderer draws rank cards
type CardRenderer struct {
	style CardStyle
}

// NewCardRenderer creates a renderer with the default style
func NewCardRenderer() *CardRenderer {
	return &CardRenderer{
		style: CardStyle{
			Width:     480,
			Height:    150,
			Padding:   20,
			BarHeight: 18,
		},
	}
}

// Render draws the card and returns PNG bytes
func (r *CardRenderer) Render(data CardData) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Rank card rendered")
	}()

	standing := data.Standing
	if standing == nil || standing.Record == nil {
		return nil, errors.New("rank card needs a standing")
	}

	width := float64(r.style.Width)
	height := float64(r.style.Height)
	pad := r.style.Padding

	dc := gg.NewContext(r.style.Width, r.style.Height)

	// Background with a vertical fade
	for i := 0; i < r.style.Height; i++ {
		t := float64(i) / height
		dc.SetRGB(0.08+t*0.03, 0.09+t*0.04, 0.13+t*0.08)
		dc.DrawLine(0, float64(i), width, float64(i))
		dc.Stroke()
	}

	// Accent stripe in the level tier color
	red, green, blue := hexToRGB(common.LevelColor(standing.Progress.Level))
	dc.SetRGB(red, green, blue)
	dc.DrawRectangle(0, 0, 6, height)
	dc.Fill()

	nameFace, err := loadFont(gobold.TTF, 22)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	statFace, err := loadFont(gomono.TTF, 13)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	badgeFace, err := loadFont(gobold.TTF, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	// Name, shortened to fit beside the badges
	dc.SetFontFace(nameFace)
	dc.SetRGB(1, 1, 1)
	drawSharpText(dc, truncate(dc, data.DisplayName, width*0.55), pad, pad+22)

	// Rank and level badges, right aligned
	dc.SetFontFace(badgeFace)
	badge := fmt.Sprintf("#%d   LVL %d", standing.Rank, standing.Progress.Level)
	dc.SetRGB(red, green, blue)
	dc.DrawStringAnchored(badge, width-pad, pad+14, 1, 0.5)

	// Stats line
	dc.SetFontFace(statFace)
	dc.SetRGB(0.8, 0.82, 0.88)
	stats := fmt.Sprintf("%s XP total   %s messages",
		common.FormatCompact(standing.Record.XP), common.FormatCompact(standing.Record.TotalMessages))
	drawSharpText(dc, stats, pad, pad+52)

	// Progress bar track and fill
	barY := height - pad - r.style.BarHeight - 18
	barW := width - 2*pad
	dc.SetRGBA(1, 1, 1, 0.12)
	dc.DrawRoundedRectangle(pad, barY, barW, r.style.BarHeight, r.style.BarHeight/2)
	dc.Fill()

	fill := barW * min(max(standing.Progress.PercentComplete, 0), 100) / 100
	if fill > 0 {
		dc.SetRGB(red, green, blue)
		dc.DrawRoundedRectangle(pad, barY, max(fill, r.style.BarHeight), r.style.BarHeight, r.style.BarHeight/2)
		dc.Fill()
	}

	// Progress caption under the bar
	dc.SetRGB(0.9, 0.9, 0.9)
	progress := fmt.Sprintf("%s / %s XP",
		common.FormatCompact(standing.Progress.XPIntoLevel), common.FormatCompact(standing.Progress.XPNeededForLevel))
	drawSharpText(dc, progress, pad, barY+r.style.BarHeight+16)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f%%", standing.Progress.PercentComplete), width-pad, barY+r.style.BarHeight+12, 1, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate shortens text with an ellipsis until it fits maxWidth
func truncate(dc *gg.Context, text string, maxWidth float64) string {
	if w, _ := dc.MeasureString(text); w <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return string(runes)
}

// hexToRGB splits an embed color into gg's unit channels
func hexToRGB(color int) (float64, float64, float64) {
	return float64((color>>16)&0xFF) / 255, float64((color>>8)&0xFF) / 255, float64(color&0xFF) / 255
}

func drawSharpText(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawString(text, x+0.5, y+0.5)
	dc.Pop()

	dc.DrawString(text, x, y)
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	}), nil
}
