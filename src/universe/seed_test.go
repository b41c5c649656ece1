package universe

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRandomSoulsStayInRanges(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	specs := RandomSouls(r, 200)

	assert.Len(t, specs, 200)
	for _, s := range specs {
		assert.GreaterOrEqual(t, s.Size, 0.3)
		assert.Less(t, s.Size, 0.8)
		assert.GreaterOrEqual(t, s.Speed, 0.5)
		assert.Less(t, s.Speed, 2.0)
		assert.LessOrEqual(t, s.Position[0], 15.0)
		assert.GreaterOrEqual(t, s.Position[0], -15.0)
		assert.LessOrEqual(t, s.Position[1], 10.0)
		assert.GreaterOrEqual(t, s.Position[1], -10.0)
		assert.Contains(t, DemoMessages, s.Message)
		assert.NotEqual(t, "", s.Color)
	}
}

func TestDemoTemplate(t *testing.T) {
	tmpl := DemoTemplate(rand.New(rand.NewSource(1)), DefDemoSouls)

	assert.Equal(t, "demo", tmpl.Name)
	assert.Len(t, tmpl.Souls, DefDemoSouls)
}

func TestTrimMessage(t *testing.T) {
	assert.Equal(t, "hi", TrimMessage("hi"))

	long := strings.Repeat("نور", 50)
	trimmed := TrimMessage(long)
	assert.Equal(t, MaxMessageLen, utf8.RuneCountInString(trimmed))
	assert.True(t, strings.HasPrefix(long, trimmed))
}

func TestModeNext(t *testing.T) {
	assert.Equal(t, ModeOcean, ModeNormal.Next())
	assert.Equal(t, ModeNormal, ModeFestival.Next())
	assert.Equal(t, ModeNormal, Mode("unknown").Next())
}
