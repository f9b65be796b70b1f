package control

import (
	"math"

	"linefollow-core/track"
)

// Pose is the externally-owned vehicle pose the core reads. Heading is in
// degrees, normalized to [0, 360); heading 0 faces +Z and the local +X axis
// of the probe layout points to the vehicle's right.
type Pose struct {
	X          float64
	Z          float64
	HeadingDeg float64
}

// Reading is one probe's result for a tick: binary track hit plus the probe's
// world position.
type Reading struct {
	Hit bool    `json:"hit"`
	X   float64 `json:"x"`
	Z   float64 `json:"z"`
}

// SensorResult is the array's per-tick output. Error is the normalized
// lateral line error in [-1, 1]: negative when the line sits left of the
// array center, positive when right. When no probe hits, LineLost is set and
// Error persists the direction the line was last seen (±1, or 0 without a
// prior valid error).
type SensorResult struct {
	Error    float64
	LineLost bool
	Readings []Reading
}

type probeOffset struct {
	lateral float64 // local X, positive right
	forward float64 // local Z
}

// SensorArray places virtual probes rigidly around the vehicle and samples
// the track under each of them.
type SensorArray struct {
	cfg     SensorConfig
	offsets []probeOffset
	sampler *track.Sampler

	// Caches for telemetry and the lost-line fallback.
	lastReadings []Reading
	lastValid    float64
}

// NewSensorArray creates an array probing the given sampler.
func NewSensorArray(cfg SensorConfig, sampler *track.Sampler) *SensorArray {
	a := &SensorArray{sampler: sampler}
	a.Configure(cfg)
	return a
}

// Configure replaces the probe layout. Count is forced to at least 1.
func (a *SensorArray) Configure(cfg SensorConfig) {
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	a.cfg = cfg
	a.generatePositions()
}

// generatePositions lays the probes out symmetrically about the forward axis:
// localX = -totalWidth/2 + i*spacing, all at the configured forward offset.
// With an odd count the center probe sits at lateral offset 0.
func (a *SensorArray) generatePositions() {
	totalWidth := a.cfg.Spacing * float64(a.cfg.Count-1)
	a.offsets = make([]probeOffset, a.cfg.Count)
	for i := range a.offsets {
		a.offsets[i] = probeOffset{
			lateral: -totalWidth/2 + float64(i)*a.cfg.Spacing,
			forward: a.cfg.ForwardOffset,
		}
	}
}

// SetCount changes the number of probes.
func (a *SensorArray) SetCount(n int) {
	cfg := a.cfg
	cfg.Count = n
	a.Configure(cfg)
}

// SetSpacing changes the probe-to-probe lateral distance.
func (a *SensorArray) SetSpacing(spacing float64) {
	cfg := a.cfg
	cfg.Spacing = spacing
	a.Configure(cfg)
}

// SetForwardOffset changes how far ahead of the vehicle origin probes sit.
func (a *SensorArray) SetForwardOffset(offset float64) {
	cfg := a.cfg
	cfg.ForwardOffset = offset
	a.Configure(cfg)
}

// Config returns a snapshot of the probe layout parameters.
func (a *SensorArray) Config() SensorConfig {
	return a.cfg
}

// LocalPositions returns the probe offsets in the vehicle frame as
// (lateralX, forwardZ) pairs.
func (a *SensorArray) LocalPositions() [][2]float64 {
	out := make([][2]float64, len(a.offsets))
	for i, off := range a.offsets {
		out[i] = [2]float64{off.lateral, off.forward}
	}
	return out
}

// LastReadings returns the readings cached by the most recent update.
func (a *SensorArray) LastReadings() []Reading {
	return a.lastReadings
}

// Reset clears the cached readings and the last valid error.
func (a *SensorArray) Reset() {
	a.lastReadings = nil
	a.lastValid = 0
}

// UpdateReadings transforms every probe into world coordinates, samples the
// track under it and derives the normalized line error. Readings are fresh
// each tick; only the last readings vector and the last valid error carry
// across ticks.
func (a *SensorArray) UpdateReadings(pose Pose) SensorResult {
	sin, cos := math.Sincos(pose.HeadingDeg * math.Pi / 180)

	readings := make([]Reading, len(a.offsets))
	hits := make([]int, 0, len(a.offsets))
	for i, off := range a.offsets {
		wx := pose.X - off.lateral*cos + off.forward*sin
		wz := pose.Z + off.lateral*sin + off.forward*cos
		hit := a.sampler.SampleAt(wx, wz)
		readings[i] = Reading{Hit: hit, X: wx, Z: wz}
		if hit {
			hits = append(hits, i)
		}
	}
	a.lastReadings = readings

	if len(hits) == 0 {
		// Line lost: keep steering toward the side the line was last
		// seen instead of snapping the error to zero.
		return SensorResult{
			Error:    Sign(a.lastValid),
			LineLost: true,
			Readings: readings,
		}
	}

	err := indexError(hits, a.cfg.Count)
	a.lastValid = err
	return SensorResult{Error: err, Readings: readings}
}

// indexError averages the normalized offsets of the hit probes. A single
// probe has no lateral resolution and always reports zero.
func indexError(hits []int, count int) float64 {
	center := float64(count-1) / 2
	if center == 0 {
		return 0
	}
	var sum float64
	for _, i := range hits {
		sum += (float64(i) - center) / center
	}
	return sum / float64(len(hits))
}
