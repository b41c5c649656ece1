package universe

import "time"

//Vec3 is a point in the universe space (x, y, z)
type Vec3 [3]float64

//Soul is a participant's light entity
type Soul struct {
	ID          string   `yaml:"id"`
	Color       string   `yaml:"color"`
	Message     string   `yaml:"message"`
	Position    Vec3     `yaml:"position,flow"` //anchor, the presentation animates around it
	Size        float64  `yaml:"size"`
	Speed       float64  `yaml:"speed"`
	Energy      int      `yaml:"energy"`
	Connections []string `yaml:"connections,flow"` //peer soul ids, duplicates allowed
	IsStarred   bool     `yaml:"isStarred"`
	CreatedAt   int64    `yaml:"createdAt"` //epoch milliseconds
	Country     string   `yaml:"country,omitempty"`
}

//Connection is a time-bounded edge between two souls
type Connection struct {
	ID        string
	FromID    string
	ToID      string
	CreatedAt int64
	ExpiresAt int64
}

//SoulSpec is the user supplied part of a new soul
type SoulSpec struct {
	Color    string
	Message  string
	Position Vec3
	Size     float64
	Speed    float64
}

//SoulPatch is a partial soul update, nil fields are left untouched
//id and createdAt are immutable and can't be patched
type SoulPatch struct {
	Color       *string
	Message     *string
	Position    *Vec3
	Size        *float64
	Speed       *float64
	Energy      *int
	Connections []string
	IsStarred   *bool
	Country     *string
}

//Mode is a visualization preset, opaque to the store
type Mode string

const (
	ModeNormal     Mode = "normal"
	ModeOcean      Mode = "ocean"
	ModeGalaxy     Mode = "galaxy"
	ModeMeditation Mode = "meditation"
	ModeFestival   Mode = "festival"
)

//Modes lists the modes in display order
var Modes = []Mode{ModeNormal, ModeOcean, ModeGalaxy, ModeMeditation, ModeFestival}

//Next returns the mode following m in display order
func (m Mode) Next() Mode {
	for i, v := range Modes {
		if v == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeNormal
}

const (
	ConnectionTTL  = 5 * time.Minute
	StarDuration   = 60 * time.Second
	StarThreshold  = 100
	StarSizeFactor = 1.5
)

//NewSoul creates a fresh soul: no energy, no connections, not starred
func NewSoul(id string, spec SoulSpec, now time.Time) Soul {
	return Soul{
		ID:          id,
		Color:       spec.Color,
		Message:     spec.Message,
		Position:    spec.Position,
		Size:        spec.Size,
		Speed:       spec.Speed,
		Connections: []string{},
		CreatedAt:   now.UnixMilli(),
	}
}

//NewConnection creates the connection living ConnectionTTL from now
func NewConnection(id string, fromID string, toID string, now time.Time) Connection {
	return Connection{
		ID:        id,
		FromID:    fromID,
		ToID:      toID,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(ConnectionTTL).UnixMilli(),
	}
}
