package universe

import (
	"context"
	"math/rand"
	"time"
)

/*
	Autopilot drives the universe without a user: every interval it picks two random souls
	and makes them interact the way a visitor would (mostly energy, sometimes a connection or a star)
*/

//Action is the interaction performed by the autopilot step
type Action string

const (
	ActionNone       Action = ""
	ActionEnergy     Action = "energy"
	ActionConnection Action = "connection"
	ActionStar       Action = "star"
)

type Autopilot struct {
	u        Universe
	r        *rand.Rand
	interval time.Duration
	maxSteps int
}

func NewAutopilot(u Universe, r *rand.Rand, interval time.Duration, maxSteps int) *Autopilot {
	return &Autopilot{u: u, r: r, interval: interval, maxSteps: maxSteps}
}

//Run performs steps until maxSteps is reached (0 means no limit) or ctx is done
//returns the number of steps done
func (a *Autopilot) Run(ctx context.Context) (int, error) {
	steps := 0
	for a.maxSteps == 0 || steps < a.maxSteps {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		a.Step()
		steps++
		if a.interval > 0 {
			t := time.NewTimer(a.interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return steps, ctx.Err()
			case <-t.C:
			}
		}
	}
	return steps, nil
}

//Step does one random interaction, at least two souls are needed
func (a *Autopilot) Step() Action {
	st := a.u.State()
	if len(st.Souls) < 2 {
		return ActionNone
	}
	from := st.Souls[a.r.Intn(len(st.Souls))]
	to := st.Souls[a.r.Intn(len(st.Souls)-1)]
	if to.ID == from.ID {
		to = st.Souls[len(st.Souls)-1]
	}
	switch p := a.r.Intn(10); {
	case p < 7:
		a.u.SendEnergy(from.ID, to.ID)
		return ActionEnergy
	case p < 9:
		a.u.CreateConnection(from.ID, to.ID)
		return ActionConnection
	default:
		a.u.StarSoul(to.ID)
		return ActionStar
	}
}
