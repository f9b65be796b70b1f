package control

import (
	"errors"

	"linefollow-core/track"
)

const (
	// nominalTickS is the fixed nominal tick length used when integrating
	// steering into the heading. Matches the 50 ms simulator tick; the
	// heading integration is intentionally not wall-clock accurate so the
	// per-tick steering authority stays bounded.
	nominalTickS = 0.05

	minSteeringScale = 1
	maxSteeringScale = 180
)

// ErrNotInitialized reports Enable on a follower that was never initialized.
var ErrNotInitialized = errors.New("control: follower not initialized")

// ErrNoTrack reports Enable without a loaded track. The caller may load a
// track and retry.
var ErrNoTrack = errors.New("control: no track loaded")

// Vehicle is the externally-owned vehicle the follower steers. The follower
// only ever reads the pose and writes the heading; position stays with the
// external motion integrator.
type Vehicle interface {
	Pose() Pose
	SetHeading(deg float64)
}

// State is the follower lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateDisabled
	StateEnabled
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDisabled:
		return "disabled"
	case StateEnabled:
		return "enabled"
	default:
		return "unknown"
	}
}

// Result is the per-tick telemetry of the follower. Steering is in degrees
// per second before tick integration; it is reported even on ticks where the
// lost line keeps it from being applied.
type Result struct {
	Steering float64   `json:"steering"`
	Error    float64   `json:"error"`
	LineLost bool      `json:"line_lost"`
	Readings []Reading `json:"sensor_readings"`
	PID      PIDTerms  `json:"pid_output"`
}

// Follower orchestrates the per-tick pipeline: sensor sampling, PID
// computation, heading correction. Each stage strictly consumes the previous
// stage's output; a tick is a complete, non-reentrant unit of work.
type Follower struct {
	state   State
	sampler *track.Sampler
	vehicle Vehicle

	sensors       *SensorArray
	pid           *PIDController
	steeringScale float64

	last Result
}

// NewFollower creates an uninitialized follower over an externally-owned
// sampler and vehicle.
func NewFollower(sampler *track.Sampler, vehicle Vehicle) *Follower {
	return &Follower{
		sampler: sampler,
		vehicle: vehicle,
	}
}

// Initialize wires the sensor array and PID controller from the supplied
// sub-configs and leaves the follower disabled.
func (f *Follower) Initialize(cfg FollowerConfig) {
	f.sensors = NewSensorArray(cfg.Sensors, f.sampler)
	f.pid = NewPIDController(cfg.PID)
	f.steeringScale = Clamp(cfg.SteeringScale, minSteeringScale, maxSteeringScale)
	f.last = Result{}
	f.state = StateDisabled
}

// Enable starts the per-tick pipeline. It requires a loaded track and resets
// the sensor cache, PID state and sampler locality cache together so all
// subsystems restart consistent.
func (f *Follower) Enable() error {
	if f.state == StateUninitialized {
		return ErrNotInitialized
	}
	if !f.sampler.HasTrack() {
		return ErrNoTrack
	}
	f.sensors.Reset()
	f.pid.Reset()
	f.sampler.ResetCache()
	f.state = StateEnabled
	return nil
}

// Disable stops the pipeline and clears the cached result. Gains are kept.
func (f *Follower) Disable() {
	if f.state != StateEnabled {
		return
	}
	f.last = Result{}
	f.state = StateDisabled
}

// State returns the lifecycle state.
func (f *Follower) State() State {
	return f.state
}

// Update runs one tick. Disabled or uninitialized followers return the last
// result unchanged. dt is forwarded to the PID controller (dt <= 0 selects
// its wall-clock delta); the heading integration always uses the fixed
// nominal tick length. Positive steering means the line lies to the
// vehicle's right, so it is applied as a heading decrease (rightward turn).
// When the line is lost the steering value is computed and reported but not
// applied, so the vehicle holds its heading instead of oscillating on stale
// data.
func (f *Follower) Update(dt float64) Result {
	if f.state != StateEnabled {
		return f.last
	}

	pose := f.vehicle.Pose()
	sensed := f.sensors.UpdateReadings(pose)
	terms := f.pid.Update(sensed.Error, dt)
	steering := terms.Output * f.steeringScale

	if !sensed.LineLost {
		f.vehicle.SetHeading(NormalizeHeading(pose.HeadingDeg - steering*nominalTickS))
	}

	f.last = Result{
		Steering: steering,
		Error:    sensed.Error,
		LineLost: sensed.LineLost,
		Readings: sensed.Readings,
		PID:      terms,
	}
	return f.last
}

// LastResult returns the result of the most recent enabled tick.
func (f *Follower) LastResult() Result {
	return f.last
}

// SetPIDGains updates all three gains. Changing Ki clears the accumulator.
func (f *Follower) SetPIDGains(kp, ki, kd float64) {
	if f.pid == nil {
		return
	}
	f.pid.SetKp(kp)
	f.pid.SetKi(ki)
	f.pid.SetKd(kd)
}

// SetSteeringScale sets the degrees-per-unit-error gain, clamped to [1, 180].
func (f *Follower) SetSteeringScale(scale float64) {
	f.steeringScale = Clamp(scale, minSteeringScale, maxSteeringScale)
}

// SteeringScale returns the current steering gain.
func (f *Follower) SteeringScale() float64 {
	return f.steeringScale
}

// SetSensorCount changes the number of probes in the array.
func (f *Follower) SetSensorCount(n int) {
	if f.sensors == nil {
		return
	}
	f.sensors.SetCount(n)
}

// SensorConfig returns a snapshot of the probe layout, or the zero value if
// the follower is uninitialized.
func (f *Follower) SensorConfig() SensorConfig {
	if f.sensors == nil {
		return SensorConfig{}
	}
	return f.sensors.Config()
}

// PIDConfig returns a snapshot of the PID parameters, or the zero value if
// the follower is uninitialized.
func (f *Follower) PIDConfig() PIDConfig {
	if f.pid == nil {
		return PIDConfig{}
	}
	return f.pid.Config()
}

// Reset clears the sensor cache, PID state and sampler locality cache
// without touching gains or lifecycle state.
func (f *Follower) Reset() {
	if f.state == StateUninitialized {
		return
	}
	f.sensors.Reset()
	f.pid.Reset()
	f.sampler.ResetCache()
	f.last = Result{}
}

// Dispose unloads the track and returns the follower to the uninitialized
// state.
func (f *Follower) Dispose() {
	f.sampler.Unload()
	f.sensors = nil
	f.pid = nil
	f.last = Result{}
	f.state = StateUninitialized
}
