package view

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"soulverse/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type ConsoleUI struct {
	u    universe.Universe
	g    *gocui.Gui
	k    []keyBindings
	feed *Feed
	rnd  *rand.Rand

	mu      sync.Mutex
	st      universe.State
	notice  string
	colorAt int //onboarding palette cursor
}

var (
	modeDescr = map[universe.Mode]string{
		universe.ModeNormal:     aurora.Colorize("normal", aurora.BlueFg).String(),
		universe.ModeOcean:      aurora.Colorize("ocean", aurora.CyanFg).String(),
		universe.ModeGalaxy:     aurora.Colorize("galaxy", aurora.MagentaFg).String(),
		universe.ModeMeditation: aurora.Colorize("meditation", aurora.BlueFg).String(),
		universe.ModeFestival:   aurora.Colorize("festival", aurora.RedFg).String(),
	}

	feedIcon = map[FeedKind]string{
		FeedSoul:       aurora.White("✦").String(),
		FeedEnergy:     aurora.Yellow("⚡").String(),
		FeedConnection: aurora.Blue("⇄").String(),
		FeedStar:       aurora.Magenta("★").String(),
	}
)

func NewViewTerminal(r *rand.Rand) *ConsoleUI {

	var err error
	t := ConsoleUI{
		feed: NewFeed(DefFeedSize, time.Now),
		rnd:  r,
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{gocui.KeyTab, "TAB", "Next soul", t.cmdNextSoul, ""},
		{'e', "E", "Send energy", t.cmdSendEnergy, ""},
		{'c', "C", "Connect", t.cmdConnect, ""},
		{'s', "S", "Star", t.cmdStar, ""},
		{'m', "M", "Mode", t.cmdMode, ""},
		{'d', "D", "Dashboard", t.cmdDashboard, ""},
		{'o', "O", "New soul", t.cmdOnboarding, ""},
		{'w', "W", "Seed random", t.cmdSettleWithRandom, ""},
		{gocui.MouseLeft, "MOUSE", "Select soul", t.cmdMouseClick, "field"},
		{gocui.KeyEnter, "ENTER", "Create", t.cmdCreateSoul, "onboarding"},
		{gocui.KeyArrowRight, "→", "Next color", t.cmdNextColor, "onboarding"},
		{gocui.KeyArrowLeft, "←", "Prev color", t.cmdPrevColor, "onboarding"},
		{gocui.KeyEsc, "ESC", "Close", t.cmdCloseOnboarding, "onboarding"},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(u universe.Universe) {
	t.u = u
	t.setState(u.State())
	t.feed.Observe(t.state())
}

func (t *ConsoleUI) Start() {
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
	t.g.Close()
}

//Refresh is called on the universe loop, the rendering is passed to the gui goroutine
func (t *ConsoleUI) Refresh(st universe.State) {
	t.setState(st)
	t.feed.Observe(st)
	t.g.Update(func(g *gocui.Gui) error {
		t.render(g)
		return nil
	})
}

func (t *ConsoleUI) setState(st universe.State) {
	t.mu.Lock()
	t.st = st
	t.mu.Unlock()
}

func (t *ConsoleUI) state() universe.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.st
}

func (t *ConsoleUI) setNotice(format string, args ...interface{}) {
	t.mu.Lock()
	t.notice = fmt.Sprintf(format, args...)
	t.mu.Unlock()
}

func (t *ConsoleUI) render(g *gocui.Gui) {
	st := t.state()
	t.renderField(g, st)
	t.renderStatus(g, st)
	t.renderInspector(g, st)
	t.renderFeed(g)
	t.renderDashboard(g, st)
	t.renderOnboarding(g, st)
}

func (t *ConsoleUI) renderField(g *gocui.Gui, st universe.State) {
	v, e := g.View("field")
	if e != nil {
		return
	}
	v.Clear()
	w, h := v.Size()
	if w <= 0 || h <= 0 {
		return
	}
	grid := make([][]string, h)
	for i := range grid {
		grid[i] = make([]string, w)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}
	//connections are drawn first, souls are put on top
	for _, c := range st.Connections {
		from, ok1 := st.FindSoul(c.FromID)
		to, ok2 := st.FindSoul(c.ToID)
		if ok1 && ok2 {
			t.drawLine(grid, project(from.Position, w, h), project(to.Position, w, h))
		}
	}
	for _, s := range st.Souls {
		c := project(s.Position, w, h)
		sym := aurora.Index(colorIndex(s.Color), glyph(s, s.ID == st.MySoulID))
		if s.ID == st.SelectedSoulID {
			sym = sym.Reverse()
		}
		grid[c.y][c.x] = sym.String()
	}

	var b bytes.Buffer
	for i, l := range grid {
		if i != 0 {
			b.WriteByte(10)
		}
		b.WriteString(strings.Join(l, ""))
	}
	_, _ = fmt.Fprint(v, b.String())
}

//drawLine puts the faint dots between two cells
func (t *ConsoleUI) drawLine(grid [][]string, a cell, b cell) {
	steps := int(math.Max(math.Abs(float64(b.x-a.x)), math.Abs(float64(b.y-a.y))))
	for i := 1; i < steps; i++ {
		x := a.x + (b.x-a.x)*i/steps
		y := a.y + (b.y-a.y)*i/steps
		grid[y][x] = aurora.Gray(8, "·").String()
	}
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui, st universe.State) {
	v, e := g.View("status")
	if e != nil {
		return
	}
	s := st.Stats()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", modeDescr[st.Mode]))
	_, _ = fmt.Fprintln(v, t.renderProp("Souls", "%v", s.Souls))
	_, _ = fmt.Fprintln(v, t.renderProp("Ever born", "%v", s.TotalSouls))
	_, _ = fmt.Fprintln(v, t.renderProp("Stars", "%v", s.Starred))
	_, _ = fmt.Fprintln(v, t.renderProp("Connections", "%v", s.Connections))
	_, _ = fmt.Fprintln(v, t.renderProp("Interactions", "%v", s.TotalInteractions))
	t.mu.Lock()
	notice := t.notice
	t.mu.Unlock()
	if notice != "" {
		_, _ = fmt.Fprintln(v, "\n "+aurora.Yellow(notice).String())
	}
}

func (t *ConsoleUI) renderInspector(g *gocui.Gui, st universe.State) {
	v, e := g.View("inspector")
	if e != nil {
		return
	}
	v.Clear()
	s, ok := st.SelectedSoul()
	if !ok {
		_, _ = fmt.Fprintln(v, " press TAB or click a soul")
		return
	}
	_, _ = fmt.Fprintln(v, t.renderProp("Soul", "%v", aurora.Index(colorIndex(s.Color), ShortID(s.ID))))
	if s.Message != "" {
		_, _ = fmt.Fprintln(v, t.renderProp("Says", "%q", s.Message))
	}
	_, _ = fmt.Fprintln(v, t.renderProp("Energy", "%v", s.Energy))
	_, _ = fmt.Fprintln(v, t.renderProp("Connections", "%v", len(s.Connections)))
	_, _ = fmt.Fprintln(v, t.renderProp("Born", "%v", Ago(time.Now(), time.UnixMilli(s.CreatedAt))))
	if s.IsStarred {
		_, _ = fmt.Fprintln(v, " "+aurora.Magenta("★ starred").String())
	}
	if s.ID == st.MySoulID {
		_, _ = fmt.Fprintln(v, " "+aurora.Cyan("this is your soul").String())
	}
}

func (t *ConsoleUI) renderFeed(g *gocui.Gui) {
	v, e := g.View("feed")
	if e != nil {
		return
	}
	v.Clear()
	now := time.Now()
	for _, it := range t.feed.Items() {
		_, _ = fmt.Fprintf(v, " %s %s %s\n", feedIcon[it.Kind], it.Message, aurora.Gray(12, Ago(now, it.At)))
	}
}

func (t *ConsoleUI) renderDashboard(g *gocui.Gui, st universe.State) {
	mine, ok := st.MySoul()
	if !st.ShowDashboard || !ok {
		_ = g.DeleteView("dashboard")
		return
	}
	maxX, maxY := g.Size()
	v, err := g.SetView("dashboard", maxX/4, maxY/4, maxX*3/4, maxY/4+9)
	if err != nil && err != gocui.ErrUnknownView {
		return
	}
	v.Title = "Your soul"
	v.Clear()
	days := int(time.Since(time.UnixMilli(mine.CreatedAt)) / (24 * time.Hour))
	_, _ = fmt.Fprintln(v, t.renderProp("Energy", "%v", mine.Energy))
	_, _ = fmt.Fprintln(v, t.renderProp("Connections", "%v", len(mine.Connections)))
	_, _ = fmt.Fprintln(v, t.renderProp("Starred", "%v", mine.IsStarred))
	_, _ = fmt.Fprintln(v, t.renderProp("Days in universe", "%v", days))
	_, _ = fmt.Fprintln(v, t.renderProp("Sector", "%v/%v", math.Floor(mine.Position[0]), math.Floor(mine.Position[2])))
	_, _ = fmt.Fprintln(v, t.renderProp("Says", "%q", mine.Message))
	_, _ = g.SetViewOnTop("dashboard")
}

func (t *ConsoleUI) renderOnboarding(g *gocui.Gui, st universe.State) {
	if !st.ShowOnboarding {
		_ = g.DeleteView("onboarding")
		return
	}
	maxX, maxY := g.Size()
	v, err := g.SetView("onboarding", maxX/6, maxY/2-3, maxX*5/6, maxY/2+3)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return
		}
		v.Editable = true
		v.Wrap = true
		_, _ = g.SetCurrentView("onboarding")
	}
	t.mu.Lock()
	pc := universe.Palette[t.colorAt]
	t.mu.Unlock()
	v.Title = fmt.Sprintf("Create your soul: %s %s  (←/→ color, type a message, ENTER)", aurora.Index(colorIndex(pc.Color), "●"), pc.Name)
	_, _ = g.SetViewOnTop("onboarding")
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 32
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		for _, name := range []string{"status", "inspector", "feed", "field", "dashboard", "onboarding"} {
			_ = g.DeleteView(name)
		}
		return nil
	}
	if _, err := t.headerLayout(g, 3, "LightVerse - a universe of souls"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	third := (maxY - 5 - 3) / 3
	panels := []struct {
		name  string
		title string
		y0    int
		y1    int
	}{
		{"status", "Universe", 3, 3 + third},
		{"inspector", "Soul", 3 + third + 1, 3 + 2*third},
		{"feed", "Live", 3 + 2*third + 1, maxY - 5},
	}
	for _, p := range panels {
		if v, err := g.SetView(p.name, 0, p.y0, leftColumnWidth, p.y1); err != nil {
			if err != gocui.ErrUnknownView || v == nil {
				return err
			}
			v.Title = p.title
			v.Frame = true
		}
	}

	if v, err := g.SetView("field", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Universe"
		v.Frame = true
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		v.Wrap = true
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	t.render(g)
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorMagenta
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextSoul(_ *gocui.View) error {
	st := t.state()
	t.u.SetSelectedSoul(nextSoul(st.Souls, st.SelectedSoulID))
	return nil
}

//target returns the selected soul if the user may interact with it
func (t *ConsoleUI) target() (universe.State, universe.Soul, bool) {
	st := t.state()
	s, ok := st.SelectedSoul()
	if !ok {
		t.setNotice("select a soul first")
		return st, s, false
	}
	if s.ID == st.MySoulID {
		t.setNotice("that is your own soul")
		return st, s, false
	}
	t.setNotice("")
	return st, s, true
}

func (t *ConsoleUI) cmdSendEnergy(_ *gocui.View) error {
	if st, s, ok := t.target(); ok {
		t.u.SendEnergy(st.MySoulID, s.ID)
	}
	return nil
}

func (t *ConsoleUI) cmdConnect(_ *gocui.View) error {
	st, s, ok := t.target()
	if !ok {
		return nil
	}
	if st.MySoulID == "" {
		t.setNotice("create your soul to connect")
		return nil
	}
	t.u.CreateConnection(st.MySoulID, s.ID)
	return nil
}

func (t *ConsoleUI) cmdStar(_ *gocui.View) error {
	if _, s, ok := t.target(); ok {
		t.u.StarSoul(s.ID)
	}
	return nil
}

func (t *ConsoleUI) cmdMode(_ *gocui.View) error {
	t.u.SetMode(t.state().Mode.Next())
	return nil
}

func (t *ConsoleUI) cmdDashboard(_ *gocui.View) error {
	st := t.state()
	if _, ok := st.MySoul(); !ok {
		t.setNotice("create your soul first")
	}
	t.u.SetShowDashboard(!st.ShowDashboard)
	return nil
}

func (t *ConsoleUI) cmdOnboarding(_ *gocui.View) error {
	t.u.SetShowOnboarding(true)
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	t.u.SettleWithRandomData(universe.DefDemoSouls)
	return nil
}

func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	w, h := v.Size()
	st := t.state()
	if id := nearestSoul(st.Souls, cell{cx, cy}, w, h); id != "" {
		t.u.SetSelectedSoul(id)
	}
	return nil
}

func (t *ConsoleUI) cmdNextColor(_ *gocui.View) error {
	t.shiftColor(1)
	return nil
}

func (t *ConsoleUI) cmdPrevColor(_ *gocui.View) error {
	t.shiftColor(len(universe.Palette) - 1)
	return nil
}

func (t *ConsoleUI) shiftColor(by int) {
	t.mu.Lock()
	t.colorAt = (t.colorAt + by) % len(universe.Palette)
	t.mu.Unlock()
	t.g.Update(func(g *gocui.Gui) error {
		t.renderOnboarding(g, t.state())
		return nil
	})
}

func (t *ConsoleUI) cmdCreateSoul(v *gocui.View) error {
	t.mu.Lock()
	color := universe.Palette[t.colorAt].Color
	t.mu.Unlock()
	t.u.AddSoul(universe.SoulSpec{
		Color:    color,
		Message:  universe.TrimMessage(strings.TrimSpace(v.Buffer())),
		Position: universe.RandomPosition(t.rnd),
		Size:     0.5,
		Speed:    1,
	})
	v.Clear()
	return t.leaveOnboarding()
}

func (t *ConsoleUI) cmdCloseOnboarding(_ *gocui.View) error {
	t.u.SetShowOnboarding(false)
	return t.leaveOnboarding()
}

func (t *ConsoleUI) leaveOnboarding() error {
	_ = t.g.DeleteView("onboarding")
	if _, err := t.g.SetCurrentView("field"); err != nil && err != gocui.ErrUnknownView {
		return err
	}
	return nil
}
