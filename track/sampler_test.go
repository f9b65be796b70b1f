package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightTrack(t *testing.T) *Sampler {
	t.Helper()
	s := NewSampler()
	require.NoError(t, s.Load(Definition{
		Name:       "straight",
		TrackWidth: 0.5,
		Waypoints:  [][2]float64{{0, 0}, {0, 10}},
	}))
	return s
}

func TestSignedDistanceOnSegment(t *testing.T) {
	s := straightTrack(t)

	for _, z := range []float64{0, 2.5, 5, 10} {
		smp, ok := s.SignedDistance(0, z)
		require.True(t, ok)
		assert.InDelta(t, 0, smp.Distance, 1e-12, "point on centerline at z=%v", z)
		assert.True(t, smp.OnTrack)
	}
}

func TestSignedDistanceSides(t *testing.T) {
	s := straightTrack(t)

	left, ok := s.SignedDistance(0.3, 5)
	require.True(t, ok)
	right, ok := s.SignedDistance(-0.3, 5)
	require.True(t, ok)

	assert.InDelta(t, 0.3, left.Distance, 1e-12)
	assert.InDelta(t, 0.3, right.Distance, 1e-12)
	assert.Negative(t, left.Signed, "+x side is left of a track running +z")
	assert.Positive(t, right.Signed)

	// trackWidth is the full painted width, so the hit threshold is
	// width/2: 0.3 exceeds half the 0.5 track width
	assert.False(t, left.OnTrack)
	assert.False(t, s.SampleAt(0.3, 5))
	assert.True(t, s.SampleAt(0.2, 5))
}

func TestSignedDistanceClampsToEndpoints(t *testing.T) {
	s := straightTrack(t)

	beyond, ok := s.SignedDistance(0, 12)
	require.True(t, ok)
	assert.InDelta(t, 2, beyond.Distance, 1e-12)
	assert.InDelta(t, 0, beyond.Nearest.X, 1e-12)
	assert.InDelta(t, 10, beyond.Nearest.Y, 1e-12)

	before, ok := s.SignedDistance(1, -2)
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(5), before.Distance, 1e-12)
	assert.InDelta(t, 0, before.Nearest.X, 1e-12)
	assert.InDelta(t, 0, before.Nearest.Y, 1e-12)
}

func TestSignedDistanceTieResolvesToLowestIndex(t *testing.T) {
	s := NewSampler()
	require.NoError(t, s.Load(Definition{
		TrackWidth: 0.5,
		Waypoints:  [][2]float64{{0, 0}, {1, 0}, {2, 0}},
	}))

	// equidistant from the shared endpoint of segments 0 and 1
	smp, ok := s.SignedDistance(1, 0.5)
	require.True(t, ok)
	assert.Equal(t, 0, smp.Segment)
}

func longStraightTrack(t *testing.T) *Sampler {
	t.Helper()
	wps := make([][2]float64, 0, 101)
	for z := 0; z <= 100; z++ {
		wps = append(wps, [2]float64{0, float64(z)})
	}
	s := NewSampler()
	require.NoError(t, s.Load(Definition{TrackWidth: 0.5, Waypoints: wps}))
	return s
}

func TestLocalWindowAndFullRescan(t *testing.T) {
	s := longStraightTrack(t)

	near, ok := s.SignedDistance(0.1, 2.5)
	require.True(t, ok)
	assert.Equal(t, 2, near.Segment)
	assert.Equal(t, 2, s.lastNearest)

	// teleport far outside the local window; the windowed best is much
	// worse than 2x the track width, so a full scan must recover
	far, ok := s.SignedDistance(0.1, 90.5)
	require.True(t, ok)
	assert.Equal(t, 90, far.Segment)
	assert.InDelta(t, 0.1, far.Distance, 1e-12)
	assert.Equal(t, 90, s.lastNearest)
}

func TestResetCacheClearsLocalityHint(t *testing.T) {
	s := longStraightTrack(t)

	_, ok := s.SignedDistance(0, 50)
	require.True(t, ok)
	require.NotZero(t, s.lastNearest)

	s.ResetCache()
	assert.Zero(t, s.lastNearest)
}

func TestLoadFailClosed(t *testing.T) {
	s := straightTrack(t)

	err := s.Load(Definition{})
	require.ErrorIs(t, err, ErrEmptyTrack)

	// previous track must survive a failed load
	assert.True(t, s.HasTrack())
	assert.True(t, s.SampleAt(0, 5))
}

func TestUnload(t *testing.T) {
	s := straightTrack(t)
	s.Unload()

	assert.False(t, s.HasTrack())
	assert.False(t, s.SampleAt(0, 5))
	_, ok := s.SignedDistance(0, 5)
	assert.False(t, ok)
}
