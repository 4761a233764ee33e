package match

// Match owns one State together with the geometry, tuning and random source
// needed to advance it. A Match is not safe for concurrent use; exactly one
// goroutine steps it.
type Match struct {
	Field  Field
	Tuning Tuning
	State  State
	Ticks  uint64

	rng Rand
}

// New creates a match in its opening state.
func New(f Field, t Tuning, rng Rand) (*Match, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &Match{
		Field:  f,
		Tuning: t,
		State:  NewState(f, t),
		rng:    rng,
	}, nil
}

// Advance runs one simulation step.
func (m *Match) Advance() Result {
	var res Result
	m.State, res = Step(m.State, m.Field, m.Tuning, m.rng)
	m.Ticks++
	return res
}

// MovePlayer centers the player paddle on pointerY, clamped into the field.
func (m *Match) MovePlayer(pointerY float64) {
	m.State = m.State.WithPointer(m.Field, pointerY)
}

// Reset puts the match back in its opening state.
func (m *Match) Reset() {
	m.State = NewState(m.Field, m.Tuning)
	m.Ticks = 0
}
