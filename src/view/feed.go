package view

import (
	"fmt"
	"sync"
	"time"

	"soulverse/src/universe"
)

//FeedKind is the kind of the live feed event
type FeedKind string

const (
	FeedSoul       FeedKind = "soul"
	FeedEnergy     FeedKind = "energy"
	FeedConnection FeedKind = "connection"
	FeedStar       FeedKind = "star"
)

//DefFeedSize is how many items the live feed keeps
const DefFeedSize = 5

type FeedItem struct {
	Kind    FeedKind
	Message string
	At      time.Time
}

//Feed derives the live feed from consecutive universe snapshots
//the newest items come first
type Feed struct {
	mu     sync.Mutex
	max    int
	now    func() time.Time
	prev   universe.State
	primed bool
	items  []FeedItem
}

func NewFeed(max int, now func() time.Time) *Feed {
	if max <= 0 {
		max = DefFeedSize
	}
	if now == nil {
		now = time.Now
	}
	return &Feed{max: max, now: now}
}

//Observe compares the snapshot with the previous one and returns the new feed items
//the first snapshot only primes the feed
func (f *Feed) Observe(st universe.State) []FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.primed {
		f.prev, f.primed = st, true
		return nil
	}
	at := f.now()
	var fresh []FeedItem
	add := func(kind FeedKind, format string, args ...interface{}) {
		fresh = append(fresh, FeedItem{Kind: kind, Message: fmt.Sprintf(format, args...), At: at})
	}

	before := map[string]universe.Soul{}
	for _, s := range f.prev.Souls {
		before[s.ID] = s
	}
	for _, s := range st.Souls {
		old, ok := before[s.ID]
		if !ok {
			add(FeedSoul, "a new soul was born %s", ShortID(s.ID))
			continue
		}
		if s.Energy > old.Energy {
			add(FeedEnergy, "energy sent to %s (%d)", ShortID(s.ID), s.Energy)
		}
		if s.IsStarred && !old.IsStarred {
			add(FeedStar, "%s became a star", ShortID(s.ID))
		}
	}

	known := map[string]bool{}
	for _, c := range f.prev.Connections {
		known[c.ID] = true
	}
	for _, c := range st.Connections {
		if !known[c.ID] {
			add(FeedConnection, "%s connected with %s", ShortID(c.FromID), ShortID(c.ToID))
		}
	}

	f.prev = st
	for _, it := range fresh {
		f.items = append([]FeedItem{it}, f.items...)
	}
	if len(f.items) > f.max {
		f.items = f.items[:f.max]
	}
	return fresh
}

//Items returns the feed, newest first
func (f *Feed) Items() []FeedItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FeedItem{}, f.items...)
}

//ShortID is the id prefix shown to users
func ShortID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}

//Ago formats the elapsed time the way the feed shows it
func Ago(now time.Time, at time.Time) string {
	d := now.Sub(at)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d min ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d h ago", int(d/time.Hour))
	default:
		return fmt.Sprintf("%d d ago", int(d/(24*time.Hour)))
	}
}
