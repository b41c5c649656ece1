package view

import (
	"math"
	"strconv"
	"strings"

	"soulverse/src/universe"
)

//the part of the universe projected on the field, x and z anchors are inside [-fieldExtent, fieldExtent]
const fieldExtent = 15.0

//cell is the terminal position of the soul on the field
type cell struct {
	x int
	y int
}

//project maps the soul anchor (top view: x to the right, z down) onto the w x h field
func project(p universe.Vec3, w int, h int) cell {
	scale := func(v float64, n int) int {
		if n <= 1 {
			return 0
		}
		f := (v + fieldExtent) / (2 * fieldExtent)
		i := int(math.Round(f * float64(n-1)))
		if i < 0 {
			return 0
		}
		if i > n-1 {
			return n - 1
		}
		return i
	}
	return cell{x: scale(p[0], w), y: scale(p[2], h)}
}

//nearestSoul returns the id of the soul projected closest to the cell, "" when there are no souls
func nearestSoul(souls []universe.Soul, c cell, w int, h int) string {
	best := ""
	bestDist := math.MaxFloat64
	for _, s := range souls {
		p := project(s.Position, w, h)
		dx, dy := float64(p.x-c.x), float64(p.y-c.y)
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist = s.ID, d
		}
	}
	return best
}

//nextSoul returns the soul after current in the list order, wrapping around
func nextSoul(souls []universe.Soul, current string) string {
	if len(souls) == 0 {
		return ""
	}
	for i, s := range souls {
		if s.ID == current {
			return souls[(i+1)%len(souls)].ID
		}
	}
	return souls[0].ID
}

//colorIndex converts "#rrggbb" to the nearest xterm 256 color cube index
func colorIndex(hex string) uint8 {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 15
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 15
	}
	r, g, b := (v>>16)&0xff, (v>>8)&0xff, v&0xff
	return uint8(16 + 36*(r*5/255) + 6*(g*5/255) + b*5/255)
}

//glyph is the symbol of the soul on the field
func glyph(s universe.Soul, mine bool) string {
	switch {
	case mine:
		return "◉"
	case s.IsStarred:
		return "★"
	default:
		return "●"
	}
}
