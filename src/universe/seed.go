package universe

import (
	"math/rand"
	"unicode/utf8"
)

//Template represent the seeding template which can used to settle the universe with predefined souls
type Template struct {
	Name  string     //template name
	Descr string     //template descr
	Souls []SoulSpec //souls to create
}

//PaletteColor is one of the colors offered on onboarding
type PaletteColor struct {
	Name  string
	Color string
}

const (
	DefDemoSouls  = 20
	MaxMessageLen = 100
)

var (
	Palette = []PaletteColor{
		{"passionate", "#ef4444"},
		{"calm", "#3b82f6"},
		{"optimistic", "#fbbf24"},
		{"balanced", "#10b981"},
		{"dreamy", "#8b5cf6"},
		{"pure", "#f3f4f6"},
		{"fiery", "#f97316"},
		{"deep", "#06b6d4"},
	}

	DemoMessages = []string{
		"I dream of a better world",
		"Peace to everyone",
		"Love is the answer",
		"Be the change",
		"I am here",
		"Stronger together",
	}
)

//DemoTemplate creates the template with n random demo souls
func DemoTemplate(r *rand.Rand, n int) Template {
	return Template{
		Name:  "demo",
		Descr: "random souls sharing the universe with you",
		Souls: RandomSouls(r, n),
	}
}

//RandomSouls generates n demo soul specs
//demo colors are taken from the first six palette entries
func RandomSouls(r *rand.Rand, n int) []SoulSpec {
	specs := make([]SoulSpec, 0, n)
	for i := 0; i < n; i++ {
		specs = append(specs, SoulSpec{
			Color:    Palette[r.Intn(6)].Color,
			Message:  DemoMessages[r.Intn(len(DemoMessages))],
			Position: RandomPosition(r),
			Size:     0.3 + r.Float64()*0.5,
			Speed:    0.5 + r.Float64()*1.5,
		})
	}
	return specs
}

//RandomPosition picks the anchor inside the visible box [-15,15] x [-10,10] x [-15,15]
func RandomPosition(r *rand.Rand) Vec3 {
	return Vec3{
		(r.Float64() - 0.5) * 30,
		(r.Float64() - 0.5) * 20,
		(r.Float64() - 0.5) * 30,
	}
}

//TrimMessage cuts the message to MaxMessageLen characters
func TrimMessage(msg string) string {
	if utf8.RuneCountInString(msg) <= MaxMessageLen {
		return msg
	}
	return string([]rune(msg)[:MaxMessageLen])
}
