package sensitivity

import (
	"fmt"
	"math"
)

// Built-in defaults used when no profile seeds the model.
const (
	DefaultSensitivity      = 1.8
	DefaultYawPerCount      = 0.022
	DefaultMoveStep         = 480
	DefaultEventFrequencyHz = 100
	DefaultCPI              = 800

	degreesPerTurn = 360.0
	cmPerInch      = 2.54
)

// Authority names the field that was held fixed by the most recent edit.
type Authority string

const (
	// AuthoritySensitivity means increment, counts and distance were derived from sensitivity.
	AuthoritySensitivity Authority = "sensitivity"
	// AuthorityIncrement means sensitivity was re-derived so the increment stayed constant.
	AuthorityIncrement Authority = "increment"
	// AuthorityCounts means only the physical distance was recomputed.
	AuthorityCounts Authority = "counts"
)

// Model relates in-game sensitivity, yaw and device CPI to the counts needed for a 360.
// It is owned by a single goroutine; callers hand Snapshot values to other goroutines.
type Model struct {
	Sensitivity        float64
	YawPerCount        float64
	IncrementDegrees   float64
	CountsPer360       float64
	MoveStep           float64
	EventFrequencyHz   float64
	CPI                int
	PhysicalDistanceCm float64

	authority Authority
}

// Derived reports the fields produced by a recompute.
type Derived struct {
	Sensitivity        float64
	IncrementDegrees   float64
	CountsPer360       float64
	PhysicalDistanceCm float64

	// Degenerate is set when a zero denominator was replaced with a zero result.
	Degenerate bool
}

// Snapshot is an immutable copy of the model taken at trigger time.
type Snapshot struct {
	Sensitivity        float64
	YawPerCount        float64
	IncrementDegrees   float64
	CountsPer360       float64
	MoveStep           float64
	EventFrequencyHz   float64
	CPI                int
	PhysicalDistanceCm float64
}

// New returns a model populated with the built-in defaults and derived fields computed.
func New() *Model {
	m := &Model{
		Sensitivity:      DefaultSensitivity,
		YawPerCount:      DefaultYawPerCount,
		MoveStep:         DefaultMoveStep,
		EventFrequencyHz: DefaultEventFrequencyHz,
		CPI:              DefaultCPI,
	}
	m.RecomputeFromSensitivity()
	return m
}

// RecomputeFromSensitivity derives the increment from sensitivity and yaw, then counts and distance.
func (m *Model) RecomputeFromSensitivity() Derived {
	m.IncrementDegrees = m.Sensitivity * m.YawPerCount
	m.authority = AuthoritySensitivity
	return m.recomputeCountsAndDistance()
}

// RecomputeSensitivityFromIncrement holds the increment fixed and re-derives sensitivity.
// A zero yaw sets sensitivity to zero and flags the result as degenerate.
func (m *Model) RecomputeSensitivityFromIncrement() Derived {
	degenerate := false
	if m.YawPerCount == 0 {
		m.Sensitivity = 0
		degenerate = true
	} else {
		m.Sensitivity = m.IncrementDegrees / m.YawPerCount
	}
	m.authority = AuthorityIncrement
	d := m.derived()
	d.Degenerate = degenerate
	return d
}

// RecomputeCountsAndDistance derives counts per 360 from the increment and the distance from CPI.
func (m *Model) RecomputeCountsAndDistance() Derived {
	m.authority = AuthorityCounts
	return m.recomputeCountsAndDistance()
}

func (m *Model) recomputeCountsAndDistance() Derived {
	degenerate := false
	if m.IncrementDegrees == 0 {
		m.CountsPer360 = 0
		degenerate = true
	} else {
		m.CountsPer360 = degreesPerTurn / m.IncrementDegrees
	}
	if m.CPI == 0 {
		m.PhysicalDistanceCm = 0
		degenerate = true
	} else {
		m.PhysicalDistanceCm = m.CountsPer360 / float64(m.CPI) * cmPerInch
	}
	d := m.derived()
	d.Degenerate = degenerate
	return d
}

// SetSensitivity applies a user edit of sensitivity; sensitivity stays authoritative.
func (m *Model) SetSensitivity(v float64) (Derived, error) {
	if err := checkValue("sensitivity", v); err != nil {
		return m.derived(), err
	}
	m.Sensitivity = v
	return m.RecomputeFromSensitivity(), nil
}

// SetYawPerCount applies a direct yaw edit; sensitivity stays authoritative.
func (m *Model) SetYawPerCount(v float64) (Derived, error) {
	if err := checkValue("yaw", v); err != nil {
		return m.derived(), err
	}
	m.YawPerCount = v
	return m.RecomputeFromSensitivity(), nil
}

// SelectPreset switches to a preset yaw while preserving the increment, so the
// physical distance per 360 is carried across games and sensitivity is re-derived.
func (m *Model) SelectPreset(yaw float64) (Derived, error) {
	if err := checkValue("yaw", yaw); err != nil {
		return m.derived(), err
	}
	m.YawPerCount = yaw
	d := m.RecomputeSensitivityFromIncrement()
	counts := m.recomputeCountsAndDistance()
	counts.Degenerate = counts.Degenerate || d.Degenerate
	m.authority = AuthorityIncrement
	return counts, nil
}

// SetCPI applies a CPI edit; only the physical distance changes.
func (m *Model) SetCPI(v int) (Derived, error) {
	if v < 0 {
		return m.derived(), fmt.Errorf("cpi %d: %w", v, ErrInvalidValue)
	}
	m.CPI = v
	return m.RecomputeCountsAndDistance(), nil
}

// SetMoveStep changes the largest per-event delta used during replay.
func (m *Model) SetMoveStep(v float64) error {
	if err := checkValue("move step", v); err != nil {
		return err
	}
	m.MoveStep = v
	return nil
}

// SetEventFrequency changes the replay event rate in Hz.
func (m *Model) SetEventFrequency(v float64) error {
	if err := checkValue("frequency", v); err != nil {
		return err
	}
	m.EventFrequencyHz = v
	return nil
}

// Authority reports which field the last recompute held fixed.
func (m *Model) Authority() Authority {
	return m.authority
}

// Snapshot copies the current values.
func (m *Model) Snapshot() Snapshot {
	return Snapshot{
		Sensitivity:        m.Sensitivity,
		YawPerCount:        m.YawPerCount,
		IncrementDegrees:   m.IncrementDegrees,
		CountsPer360:       m.CountsPer360,
		MoveStep:           m.MoveStep,
		EventFrequencyHz:   m.EventFrequencyHz,
		CPI:                m.CPI,
		PhysicalDistanceCm: m.PhysicalDistanceCm,
	}
}

func (m *Model) derived() Derived {
	return Derived{
		Sensitivity:        m.Sensitivity,
		IncrementDegrees:   m.IncrementDegrees,
		CountsPer360:       m.CountsPer360,
		PhysicalDistanceCm: m.PhysicalDistanceCm,
	}
}

func checkValue(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%s %v: %w", name, v, ErrInvalidValue)
	}
	return nil
}
