package sensitivity

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComputesDefaults(t *testing.T) {
	m := New()

	assert.Equal(t, 1.8, m.Sensitivity)
	assert.Equal(t, 0.022, m.YawPerCount)
	assert.InDelta(t, 0.0396, m.IncrementDegrees, 1e-12)
	assert.InDelta(t, 9090.909, m.CountsPer360, 1e-3)
	assert.InDelta(t, 28.8636, m.PhysicalDistanceCm, 1e-3)
	assert.Equal(t, 480.0, m.MoveStep)
	assert.Equal(t, 100.0, m.EventFrequencyHz)
	assert.Equal(t, AuthoritySensitivity, m.Authority())
}

func TestRoundTripPreservesSensitivity(t *testing.T) {
	for _, yaw := range []float64{0.022, 0.0066, 0.07, 0.5555, 1e-6} {
		m := New()
		m.Sensitivity = 2.37
		m.YawPerCount = yaw

		m.RecomputeFromSensitivity()
		d := m.RecomputeSensitivityFromIncrement()

		assert.InDelta(t, 2.37, m.Sensitivity, 1e-9, "yaw %v", yaw)
		assert.False(t, d.Degenerate, "yaw %v", yaw)
		assert.Equal(t, AuthorityIncrement, m.Authority())
	}
}

func TestZeroYawYieldsZeroes(t *testing.T) {
	m := New()
	d, err := m.SetYawPerCount(0)
	require.NoError(t, err)

	assert.Zero(t, m.IncrementDegrees)
	assert.Zero(t, m.CountsPer360)
	assert.Zero(t, m.PhysicalDistanceCm)
	assert.True(t, d.Degenerate)

	d = m.RecomputeSensitivityFromIncrement()
	assert.Zero(t, m.Sensitivity)
	assert.True(t, d.Degenerate)
	assertFinite(t, m)
}

func TestZeroCPIYieldsZeroDistance(t *testing.T) {
	m := New()
	d, err := m.SetCPI(0)
	require.NoError(t, err)

	assert.Zero(t, m.PhysicalDistanceCm)
	assert.InDelta(t, 9090.909, m.CountsPer360, 1e-3)
	assert.True(t, d.Degenerate)
	assert.Equal(t, AuthorityCounts, m.Authority())
	assertFinite(t, m)
}

func TestSelectPresetHoldsIncrement(t *testing.T) {
	m := New()
	increment := m.IncrementDegrees

	d, err := m.SelectPreset(0.0066)
	require.NoError(t, err)

	assert.InDelta(t, 6.0, m.Sensitivity, 1e-9)
	assert.InDelta(t, increment, m.IncrementDegrees, 1e-15)
	assert.InDelta(t, 9090.909, d.CountsPer360, 1e-3)
	assert.Equal(t, AuthorityIncrement, m.Authority())
}

func TestSelectPresetZeroYaw(t *testing.T) {
	m := New()
	d, err := m.SelectPreset(0)
	require.NoError(t, err)

	assert.Zero(t, m.Sensitivity)
	assert.True(t, d.Degenerate)
	assert.InDelta(t, 0.0396, m.IncrementDegrees, 1e-12)
	assertFinite(t, m)
}

func TestSetSensitivityRecomputes(t *testing.T) {
	m := New()
	d, err := m.SetSensitivity(3.6)
	require.NoError(t, err)

	assert.InDelta(t, 0.0792, d.IncrementDegrees, 1e-12)
	assert.InDelta(t, 4545.4545, d.CountsPer360, 1e-3)
	assert.InDelta(t, 14.4318, d.PhysicalDistanceCm, 1e-3)
}

func TestSettersRejectInvalidValues(t *testing.T) {
	m := New()
	before := m.Snapshot()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		_, err := m.SetSensitivity(v)
		assert.True(t, errors.Is(err, ErrInvalidValue))
		_, err = m.SetYawPerCount(v)
		assert.True(t, errors.Is(err, ErrInvalidValue))
		_, err = m.SelectPreset(v)
		assert.True(t, errors.Is(err, ErrInvalidValue))
		assert.ErrorIs(t, m.SetMoveStep(v), ErrInvalidValue)
		assert.ErrorIs(t, m.SetEventFrequency(v), ErrInvalidValue)
	}
	_, err := m.SetCPI(-5)
	assert.ErrorIs(t, err, ErrInvalidValue)

	assert.Equal(t, before, m.Snapshot())
}

func TestSnapshotIsDetached(t *testing.T) {
	m := New()
	snap := m.Snapshot()

	_, err := m.SetSensitivity(10)
	require.NoError(t, err)

	assert.Equal(t, 1.8, snap.Sensitivity)
	assert.InDelta(t, 9090.909, snap.CountsPer360, 1e-3)
}

func assertFinite(t *testing.T, m *Model) {
	t.Helper()
	for _, v := range []float64{m.Sensitivity, m.IncrementDegrees, m.CountsPer360, m.PhysicalDistanceCm} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "expected finite value, got %v", v)
	}
}
