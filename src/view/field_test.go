package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"soulverse/src/universe"
)

func TestProject(t *testing.T) {
	assert.Equal(t, cell{0, 0}, project(universe.Vec3{-15, 0, -15}, 31, 11))
	assert.Equal(t, cell{30, 10}, project(universe.Vec3{15, 0, 15}, 31, 11))
	assert.Equal(t, cell{15, 5}, project(universe.Vec3{0, 7, 0}, 31, 11))
	// anchors outside the visible box stick to the border
	assert.Equal(t, cell{30, 0}, project(universe.Vec3{100, 0, -100}, 31, 11))
	assert.Equal(t, cell{0, 0}, project(universe.Vec3{5, 0, 5}, 1, 1))
}

func TestNearestSoul(t *testing.T) {
	souls := []universe.Soul{
		{ID: "left", Position: universe.Vec3{-15, 0, 0}},
		{ID: "right", Position: universe.Vec3{15, 0, 0}},
	}

	assert.Equal(t, "left", nearestSoul(souls, cell{2, 5}, 31, 11))
	assert.Equal(t, "right", nearestSoul(souls, cell{28, 5}, 31, 11))
	assert.Equal(t, "", nearestSoul(nil, cell{0, 0}, 31, 11))
}

func TestNextSoul(t *testing.T) {
	souls := []universe.Soul{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	assert.Equal(t, "a", nextSoul(souls, ""))
	assert.Equal(t, "b", nextSoul(souls, "a"))
	assert.Equal(t, "a", nextSoul(souls, "c"))
	assert.Equal(t, "a", nextSoul(souls, "gone"))
	assert.Equal(t, "", nextSoul(nil, "a"))
}

func TestColorIndex(t *testing.T) {
	assert.Equal(t, uint8(16), colorIndex("#000000"))
	assert.Equal(t, uint8(231), colorIndex("#ffffff"))
	assert.Equal(t, uint8(167), colorIndex("#ef4444"))
	assert.Equal(t, uint8(15), colorIndex("red"))
	assert.Equal(t, uint8(15), colorIndex("#zzzzzz"))
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, "◉", glyph(universe.Soul{IsStarred: true}, true))
	assert.Equal(t, "★", glyph(universe.Soul{IsStarred: true}, false))
	assert.Equal(t, "●", glyph(universe.Soul{}, false))
}
