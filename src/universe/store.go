package universe

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//Options represents the Universe's configurable options and injectable dependencies
type Options struct {
	PersistKey     string
	PersistTimeout time.Duration
	Clock          Clock
	KV             KV //nil means in-memory only
	Logger         *zap.Logger
	NewID          func() string
	Rand           *rand.Rand
}

//default options
const (
	DefPersistTimeout = time.Second
)

var DefaultUniverseOptions = Options{
	PersistKey:     DefPersistKey,
	PersistTimeout: DefPersistTimeout,
}

//Store is the universe engine, the single source of truth for souls and connections
//implements Universe interface
//all commands are executed one by one on the main loop goroutine
type Store struct {
	options Options
	clock   Clock
	log     *zap.Logger
	rnd     *rand.Rand

	//owned by the main loop
	state     State
	templates map[string]Template
	decay     map[string]*task //soul id -> pending unstar
	expiry    map[string]*task //connection id -> pending removal

	snap struct {
		State
		sync.RWMutex
	}
	listeners struct {
		seq   int
		items []listener
		sync.Mutex
	}

	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
}

var _ Universe = (*Store)(nil)

type listener struct {
	id int
	fn func(st State)
}

//task is a scheduled self mutation, superseded tasks are recognized by pointer identity
type task struct {
	timer Timer
}

//NewStore creates the Store instance restoring the persisted snapshot if there is one
func NewStore(o *Options) *Store {
	if o == nil {
		o = &DefaultUniverseOptions
	}
	s := Store{
		options:   *o,
		templates: map[string]Template{},
		decay:     map[string]*task{},
		expiry:    map[string]*task{},
		controlCh: make(chan func()),
		closeCh:   make(chan struct{}),
	}
	if s.options.PersistKey == "" {
		s.options.PersistKey = DefPersistKey
	}
	if s.options.PersistTimeout <= 0 {
		s.options.PersistTimeout = DefPersistTimeout
	}
	if s.options.Clock == nil {
		s.options.Clock = SystemClock{}
	}
	if s.options.Logger == nil {
		s.options.Logger = zap.NewNop()
	}
	if s.options.NewID == nil {
		s.options.NewID = uuid.NewString
	}
	if s.options.Rand == nil {
		s.options.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s.clock = s.options.Clock
	s.log = s.options.Logger
	s.rnd = s.options.Rand

	s.state = defaultState()
	s.restore()
	s.publish()
	go s.mainLoop()
	return &s
}

//State returns current universe snapshot, safe to call from any goroutine
func (s *Store) State() State {
	s.snap.RLock()
	defer s.snap.RUnlock()
	return s.snap.State.clone()
}

//Options returns current universe configuration represented by Options struct
func (s *Store) Options() Options {
	return s.options
}

//Subscribe registers the listener called with the snapshot after every change
//listeners run on the main loop and must not call store commands synchronously
func (s *Store) Subscribe(fn func(st State)) (unsubscribe func()) {
	s.listeners.Lock()
	s.listeners.seq++
	id := s.listeners.seq
	s.listeners.items = append(s.listeners.items, listener{id: id, fn: fn})
	s.listeners.Unlock()
	return func() {
		s.listeners.Lock()
		defer s.listeners.Unlock()
		for i, l := range s.listeners.items {
			if l.id == id {
				s.listeners.items = append(s.listeners.items[:i:i], s.listeners.items[i+1:]...)
				return
			}
		}
	}
}

//RegisterViewer registers the viewer - the universe will call the viewer when the state is changed
func (s *Store) RegisterViewer(v Viewer) {
	s.Subscribe(v.Refresh)
	v.Register(s)
}

//Close cancels all pending timers and stops the main loop
//commands issued after Close are ignored
func (s *Store) Close() {
	s.exec(func() {
		for id, t := range s.decay {
			t.timer.Stop()
			delete(s.decay, id)
		}
		for id, t := range s.expiry {
			t.timer.Stop()
			delete(s.expiry, id)
		}
	})
	s.closeOnce.Do(func() { close(s.closeCh) })
}

//AddTemplate adds the seeding template to the internal storage
//the universe can be populated with this template by call SettleTemplate
func (s *Store) AddTemplate(tmpl Template) {
	s.exec(func() { s.templates[tmpl.Name] = tmpl })
}

//SettleTemplate populates the universe with the template's souls
func (s *Store) SettleTemplate(name string) {
	s.exec(func() {
		tmpl, ok := s.templates[name]
		if !ok {
			return
		}
		s.settle(tmpl.Souls)
	})
}

//SettleWithRandomData populates the universe with n random demo souls
func (s *Store) SettleWithRandomData(n int) {
	s.exec(func() {
		s.settle(RandomSouls(s.rnd, n))
	})
}

//AddSoul creates the soul, claims it as mine and closes the onboarding
func (s *Store) AddSoul(spec SoulSpec) (soul Soul) {
	s.exec(func() {
		soul = s.addSoul(spec)
		s.state.MySoulID = soul.ID
		s.state.ShowOnboarding = false
		s.commit()
	})
	return soul
}

//RemoveSoul removes the soul and cancels its pending unstar
func (s *Store) RemoveSoul(id string) {
	s.exec(func() {
		i := s.indexOf(id)
		if i < 0 {
			return
		}
		s.state.Souls = append(s.state.Souls[:i:i], s.state.Souls[i+1:]...)
		if s.state.MySoulID == id {
			s.state.MySoulID = ""
		}
		s.cancel(s.decay, id)
		s.commit()
	})
}

//UpdateSoul merges the patch fields into the soul
func (s *Store) UpdateSoul(id string, patch SoulPatch) {
	s.exec(func() {
		i := s.indexOf(id)
		if i < 0 {
			return
		}
		applyPatch(&s.state.Souls[i], patch)
		s.commit()
	})
}

//SendEnergy gives one energy to the soul toID, reaching StarThreshold stars it
//fromID is not validated
func (s *Store) SendEnergy(fromID string, toID string) {
	s.exec(func() {
		s.state.TotalInteractions++
		if i := s.indexOf(toID); i >= 0 {
			s.state.Souls[i].Energy++
			if s.state.Souls[i].Energy >= StarThreshold {
				s.starSoul(toID)
			}
		}
		s.log.Debug("energy sent", zap.String("from", fromID), zap.String("to", toID))
		s.commit()
	})
}

//CreateConnection links two souls for ConnectionTTL
//duplicate connections between the same pair accumulate
func (s *Store) CreateConnection(fromID string, toID string) {
	s.exec(func() {
		c := NewConnection(s.options.NewID(), fromID, toID, s.clock.Now())
		s.state.Connections = append(s.state.Connections, c)
		for i := range s.state.Souls {
			soul := &s.state.Souls[i]
			if soul.ID == fromID {
				soul.Connections = append(soul.Connections, toID)
			} else if soul.ID == toID {
				soul.Connections = append(soul.Connections, fromID)
			}
		}
		s.state.TotalInteractions++
		s.schedule(s.expiry, c.ID, ConnectionTTL, func() {
			if s.removeConnection(c.ID) {
				s.commit()
			}
		})
		s.log.Debug("connection created", zap.String("id", c.ID), zap.String("from", fromID), zap.String("to", toID))
		s.commit()
	})
}

//RemoveConnection removes the connection and every occurrence of the peer id from both endpoints
func (s *Store) RemoveConnection(id string) {
	s.exec(func() {
		s.cancel(s.expiry, id)
		if s.removeConnection(id) {
			s.commit()
		}
	})
}

//StarSoul stars the soul for StarDuration
func (s *Store) StarSoul(id string) {
	s.exec(func() {
		s.starSoul(id)
		s.commit()
	})
}

func (s *Store) SetMode(mode Mode) {
	s.exec(func() {
		s.state.Mode = mode
		s.commit()
	})
}

func (s *Store) SetSelectedSoul(id string) {
	s.exec(func() {
		s.state.SelectedSoulID = id
		s.commit()
	})
}

func (s *Store) SetShowOnboarding(show bool) {
	s.exec(func() {
		s.state.ShowOnboarding = show
		s.commit()
	})
}

func (s *Store) SetShowDashboard(show bool) {
	s.exec(func() {
		s.state.ShowDashboard = show
		s.commit()
	})
}

func (s *Store) SetMySoulID(id string) {
	s.exec(func() {
		s.state.MySoulID = id
		s.commit()
	})
}

//exec runs the command on the main loop and waits for it
//returns immediately when the universe is closed
func (s *Store) exec(cmd func()) {
	select {
	case <-s.closeCh:
		return
	default:
	}
	done := make(chan struct{})
	select {
	case s.controlCh <- func() {
		defer close(done)
		cmd()
	}:
	case <-s.closeCh:
		return
	}
	select {
	case <-done:
	case <-s.closeCh:
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *Store) mainLoop() {
	for {
		select {
		case cmd := <-s.controlCh:
			select {
			case <-s.closeCh:
				return
			default:
				cmd()
			}
		case <-s.closeCh:
			return
		}
	}
}

func (s *Store) addSoul(spec SoulSpec) Soul {
	soul := NewSoul(s.options.NewID(), spec, s.clock.Now())
	s.state.Souls = append(s.state.Souls, soul)
	s.state.TotalSouls++
	s.log.Debug("soul added", zap.String("id", soul.ID), zap.String("color", soul.Color))
	return soul
}

//settle adds souls without claiming them
func (s *Store) settle(specs []SoulSpec) {
	if len(specs) == 0 {
		return
	}
	for _, spec := range specs {
		s.addSoul(spec)
	}
	s.commit()
}

//starSoul scales up the soul and (re)schedules its unstar
//starring already starred soul only extends the star
func (s *Store) starSoul(id string) {
	s.state.TotalInteractions++
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	soul := &s.state.Souls[i]
	if !soul.IsStarred {
		soul.IsStarred = true
		soul.Size *= StarSizeFactor
		s.log.Debug("soul starred", zap.String("id", id), zap.Float64("size", soul.Size))
	}
	s.schedule(s.decay, id, StarDuration, func() { s.unstarSoul(id) })
}

func (s *Store) unstarSoul(id string) {
	i := s.indexOf(id)
	if i < 0 || !s.state.Souls[i].IsStarred {
		return
	}
	soul := &s.state.Souls[i]
	soul.IsStarred = false
	soul.Size /= StarSizeFactor
	s.log.Debug("star decayed", zap.String("id", id))
	s.commit()
}

//removeConnection returns false when there is no such connection
func (s *Store) removeConnection(id string) bool {
	ci := -1
	for i, c := range s.state.Connections {
		if c.ID == id {
			ci = i
			break
		}
	}
	if ci < 0 {
		return false
	}
	c := s.state.Connections[ci]
	s.state.Connections = append(s.state.Connections[:ci:ci], s.state.Connections[ci+1:]...)
	for i := range s.state.Souls {
		soul := &s.state.Souls[i]
		if soul.ID == c.FromID {
			soul.Connections = without(soul.Connections, c.ToID)
		} else if soul.ID == c.ToID {
			soul.Connections = without(soul.Connections, c.FromID)
		}
	}
	s.log.Debug("connection removed", zap.String("id", id))
	return true
}

//schedule replaces the pending task of the key
//the callback runs on the main loop and is dropped if the task has been superseded meanwhile
func (s *Store) schedule(tasks map[string]*task, key string, d time.Duration, fn func()) {
	s.cancel(tasks, key)
	t := &task{}
	t.timer = s.clock.AfterFunc(d, func() {
		s.exec(func() {
			if tasks[key] != t {
				return
			}
			delete(tasks, key)
			fn()
		})
	})
	tasks[key] = t
}

func (s *Store) cancel(tasks map[string]*task, key string) {
	if t, ok := tasks[key]; ok {
		t.timer.Stop()
		delete(tasks, key)
	}
}

//commit publishes the new snapshot, persists it and notifies the listeners
func (s *Store) commit() {
	st := s.publish()
	s.persist(st)
	s.notify(st)
}

func (s *Store) publish() State {
	st := s.state.clone()
	s.snap.Lock()
	s.snap.State = st
	s.snap.Unlock()
	return st
}

func (s *Store) notify(st State) {
	s.listeners.Lock()
	items := append([]listener{}, s.listeners.items...)
	s.listeners.Unlock()
	for _, l := range items {
		l.fn(st.clone())
	}
}

//persist writes the durable subset, failures are tolerated
func (s *Store) persist(st State) {
	if s.options.KV == nil {
		return
	}
	b, err := EncodeSnapshot(st)
	if err != nil {
		s.log.Warn("snapshot is not persisted", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.options.PersistTimeout)
	defer cancel()
	if err := s.options.KV.Put(ctx, s.options.PersistKey, b); err != nil {
		s.log.Warn("snapshot is not persisted", zap.String("key", s.options.PersistKey), zap.Error(err))
	}
}

//restore merges the persisted snapshot over the default state
//starred souls get their unstar rescheduled since the timers are not persisted
func (s *Store) restore() {
	if s.options.KV == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.options.PersistTimeout)
	defer cancel()
	b, err := s.options.KV.Get(ctx, s.options.PersistKey)
	if err != nil {
		s.log.Warn("snapshot is not restored", zap.String("key", s.options.PersistKey), zap.Error(err))
		return
	}
	if b == nil {
		return
	}
	sn, err := DecodeSnapshot(b)
	if err != nil {
		s.log.Warn("snapshot is not restored", zap.String("key", s.options.PersistKey), zap.Error(err))
		return
	}
	sn.mergeInto(&s.state)
	for _, soul := range s.state.Souls {
		if soul.IsStarred {
			id := soul.ID
			s.schedule(s.decay, id, StarDuration, func() { s.unstarSoul(id) })
		}
	}
	s.log.Info("snapshot restored", zap.Int("souls", len(s.state.Souls)), zap.String("mySoulId", s.state.MySoulID))
}

//indexOf returns the position of the soul in the list or -1
func (s *Store) indexOf(id string) int {
	for i, soul := range s.state.Souls {
		if soul.ID == id {
			return i
		}
	}
	return -1
}

func applyPatch(soul *Soul, p SoulPatch) {
	if p.Color != nil {
		soul.Color = *p.Color
	}
	if p.Message != nil {
		soul.Message = *p.Message
	}
	if p.Position != nil {
		soul.Position = *p.Position
	}
	if p.Size != nil {
		soul.Size = *p.Size
	}
	if p.Speed != nil {
		soul.Speed = *p.Speed
	}
	if p.Energy != nil {
		soul.Energy = *p.Energy
	}
	if p.Connections != nil {
		soul.Connections = append([]string{}, p.Connections...)
	}
	if p.IsStarred != nil {
		soul.IsStarred = *p.IsStarred
	}
	if p.Country != nil {
		soul.Country = *p.Country
	}
}

//without filters all occurrences of id out of ids
func without(ids []string, id string) []string {
	res := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			res = append(res, v)
		}
	}
	return res
}
