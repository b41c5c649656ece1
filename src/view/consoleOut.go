package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"
	"soulverse/src/universe"
)

//ConsoleOut prints the live feed to the plain output, used when the universe runs headless
type ConsoleOut struct {
	u         universe.Universe
	w         io.Writer
	feed      *Feed
	startTime time.Time
}

func NewConsoleOut() *ConsoleOut {
	return NewConsoleOutTo(os.Stdout)
}

func NewConsoleOutTo(w io.Writer) *ConsoleOut {
	return &ConsoleOut{w: w, feed: NewFeed(DefFeedSize, time.Now)}
}

func (c *ConsoleOut) Refresh(st universe.State) {
	for _, it := range c.feed.Observe(st) {
		_, _ = fmt.Fprintf(c.w, "  %s %s\n", feedIcon[it.Kind], it.Message)
	}
}

func (c *ConsoleOut) Register(u universe.Universe) {
	c.u = u
	st := u.State()
	c.feed.Observe(st)
	o := u.Options()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	c.printHashData(map[string]interface{}{
		"Persist key":    o.PersistKey,
		"Persistence":    o.KV != nil,
		"Restored souls": len(st.Souls),
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nThe universe is alive...")
}

//Summary prints the final statistics
func (c *ConsoleOut) Summary() {
	s := c.u.State().Stats()
	_, _ = fmt.Fprintln(c.w, aurora.Green("\nFinished:").String())
	c.printHashData(map[string]interface{}{
		"Total time":   time.Since(c.startTime).Round(time.Millisecond),
		"Souls":        s.Souls,
		"Ever born":    s.TotalSouls,
		"Stars":        s.Starred,
		"Connections":  s.Connections,
		"Interactions": s.TotalInteractions,
	})
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
