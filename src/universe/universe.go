package universe

type Universe interface {
	State() State
	Options() Options
	AddTemplate(tmpl Template)
	SettleTemplate(name string)
	SettleWithRandomData(n int)
	AddSoul(spec SoulSpec) Soul
	RemoveSoul(id string)
	UpdateSoul(id string, patch SoulPatch)
	SendEnergy(fromID string, toID string)
	CreateConnection(fromID string, toID string)
	RemoveConnection(id string)
	StarSoul(id string)
	SetMode(mode Mode)
	SetSelectedSoul(id string)
	SetShowOnboarding(show bool)
	SetShowDashboard(show bool)
	SetMySoulID(id string)
	Subscribe(listener func(st State)) (unsubscribe func())
	RegisterViewer(v Viewer)
	Close()
}

//Viewer is the interface to any Viewer - the object who can display the universe or control it
type Viewer interface {
	Refresh(st State)
	Register(u Universe)
	Start()
}

//State is the snapshot of the universe at concrete moment
//empty ids mean "none"
type State struct {
	Souls             []Soul
	Connections       []Connection
	MySoulID          string
	TotalSouls        int
	TotalInteractions int
	Mode              Mode
	SelectedSoulID    string
	ShowOnboarding    bool
	ShowDashboard     bool
}

//Stats is the aggregated view of the state shown on dashboards
type Stats struct {
	Souls             int
	TotalSouls        int
	Starred           int
	Connections       int
	TotalInteractions int
}

//defaultState is the state of the fresh universe before the persisted snapshot is merged
func defaultState() State {
	return State{
		Souls:          []Soul{},
		Connections:    []Connection{},
		Mode:           ModeNormal,
		ShowOnboarding: true,
	}
}

//FindSoul returns the soul with id
func (st State) FindSoul(id string) (Soul, bool) {
	if id == "" {
		return Soul{}, false
	}
	for _, s := range st.Souls {
		if s.ID == id {
			return s, true
		}
	}
	return Soul{}, false
}

//MySoul returns the soul claimed as "mine"
func (st State) MySoul() (Soul, bool) {
	return st.FindSoul(st.MySoulID)
}

//SelectedSoul returns the soul being inspected
func (st State) SelectedSoul() (Soul, bool) {
	return st.FindSoul(st.SelectedSoulID)
}

func (st State) Stats() Stats {
	s := Stats{
		Souls:             len(st.Souls),
		TotalSouls:        st.TotalSouls,
		Connections:       len(st.Connections),
		TotalInteractions: st.TotalInteractions,
	}
	for _, soul := range st.Souls {
		if soul.IsStarred {
			s.Starred++
		}
	}
	return s
}

//clone deep copies the state so the snapshot can be handed out as immutable
func (st State) clone() State {
	c := st
	c.Souls = make([]Soul, len(st.Souls))
	for i, s := range st.Souls {
		s.Connections = append([]string{}, s.Connections...)
		c.Souls[i] = s
	}
	c.Connections = append([]Connection{}, st.Connections...)
	return c
}
