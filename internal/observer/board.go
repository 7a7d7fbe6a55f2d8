package observer

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/fogleman/gg"

	"github.com/magefree/mage-rules-go/internal/game"
)

const (
	boardWidth   = 1000
	headerHeight = 48.0
	bandHeight   = 190.0
	cardWidth    = 104.0
	cardHeight   = 72.0
	cardGap      = 10.0
	margin       = 16.0
)

var (
	colorBackground = color.RGBA{18, 18, 24, 255}
	colorBand       = color.RGBA{30, 30, 42, 255}
	colorActiveBand = color.RGBA{20, 44, 56, 255}
	colorCard       = color.RGBA{220, 214, 196, 255}
	colorTapped     = color.RGBA{140, 136, 124, 255}
	colorCreature   = color.RGBA{196, 120, 84, 255}
	colorText       = color.RGBA{235, 235, 240, 255}
	colorInk        = color.RGBA{20, 25, 35, 255}
	colorAccent     = color.RGBA{0, 212, 255, 255}
	colorLost       = color.RGBA{255, 62, 62, 255}
)

// RenderBoard draws s as a PNG: one band per player with their
// permanents, and the stack and result in the header.
func RenderBoard(w io.Writer, s game.Snapshot) error {
	height := int(headerHeight + bandHeight*float64(len(s.Players)) + margin)
	dc := gg.NewContext(boardWidth, height)

	dc.SetColor(colorBackground)
	dc.Clear()

	drawHeader(dc, s)
	for i, p := range s.Players {
		top := headerHeight + bandHeight*float64(i)
		drawPlayer(dc, s, p, top)
	}
	return dc.EncodePNG(w)
}

func drawHeader(dc *gg.Context, s game.Snapshot) {
	dc.SetColor(colorAccent)
	dc.DrawRectangle(0, headerHeight-3, boardWidth, 3)
	dc.Fill()

	dc.SetColor(colorText)
	dc.DrawString(fmt.Sprintf("Turn %d  %s", s.Turn, s.Step), margin, 20)

	if len(s.Stack) > 0 {
		parts := make([]string, 0, len(s.Stack))
		for _, obj := range s.Stack {
			parts = append(parts, obj.Description)
		}
		dc.DrawString("Stack: "+strings.Join(parts, " > "), margin, 38)
	}

	if s.Result != nil {
		text := "Draw"
		if s.Result.WinnerName != "" {
			text = s.Result.WinnerName + " wins"
		}
		dc.SetColor(colorAccent)
		dc.DrawStringAnchored(text, boardWidth-margin, 20, 1, 0)
	}
}

func drawPlayer(dc *gg.Context, s game.Snapshot, p game.PlayerSnapshot, top float64) {
	band := colorBand
	if p.ID == s.ActivePlayer {
		band = colorActiveBand
	}
	dc.SetColor(band)
	dc.DrawRoundedRectangle(margin/2, top+margin/2, boardWidth-margin, bandHeight-margin, 6)
	dc.Fill()

	nameColor := colorText
	if p.Lost {
		nameColor = colorLost
	}
	dc.SetColor(nameColor)
	dc.DrawString(p.Name, margin*1.5, top+margin*2)

	dc.SetColor(colorText)
	info := fmt.Sprintf("life %d  library %d  hand %d  graveyard %d", p.Life, p.DeckSize, len(p.Hand), len(p.Graveyard))
	if len(p.Mana) > 0 {
		info += "  mana " + strings.Join(p.Mana, "")
	}
	if p.Lost {
		info += "  LOST: " + p.LossReason.String()
	}
	dc.DrawString(info, margin*1.5+160, top+margin*2)

	x := margin * 1.5
	y := top + margin*3
	for _, perm := range s.Battlefield {
		if perm.Controller != p.ID {
			continue
		}
		if x+cardWidth > boardWidth-margin {
			break
		}
		drawPermanent(dc, perm, x, y)
		x += cardWidth + cardGap
	}
}

func drawPermanent(dc *gg.Context, perm game.PermanentSnapshot, x, y float64) {
	w, h := cardWidth, cardHeight
	fill := colorCard
	if perm.Tapped {
		fill = colorTapped
		y += (h - w*0.75) / 2
		h = w * 0.75
	}
	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, w, h, 4)
	dc.Fill()

	if perm.Creature {
		dc.SetColor(colorCreature)
		dc.DrawRectangle(x, y+h-18, w, 18)
		dc.Fill()
	}

	dc.SetColor(colorInk)
	lines := dc.WordWrap(perm.Name, w-8)
	for i, line := range lines {
		if i == 2 {
			break
		}
		dc.DrawString(line, x+4, y+14+float64(i)*13)
	}
	if perm.Creature {
		pt := fmt.Sprintf("%d/%d", perm.Power, perm.Toughness)
		if perm.Damage > 0 {
			pt += fmt.Sprintf(" (%d)", perm.Damage)
		}
		dc.DrawStringAnchored(pt, x+w-4, y+h-5, 1, 0)
	}
	if n := countersTotal(perm.Counters); n > 0 {
		dc.DrawString(fmt.Sprintf("+%dc", n), x+4, y+h-5)
	}
}

func countersTotal(c map[string]int) int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
