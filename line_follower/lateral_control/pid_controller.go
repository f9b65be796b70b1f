package control

import (
	"math"
	"time"
)

const (
	// maxDtS bounds the per-call time delta; wall-clock deltas above it
	// (paused host, suspended tab) would corrupt the integral and
	// derivative terms.
	maxDtS = 0.1

	// fallbackDtS is used whenever the time delta is unusable.
	fallbackDtS = 1.0 / 60.0
)

// PIDTerms is the per-call breakdown of a PID computation. The term fields
// carry gain-scaled values; Error is the input after dead-zone treatment.
type PIDTerms struct {
	Output       float64 `json:"output"`
	Proportional float64 `json:"proportional"`
	Integral     float64 `json:"integral"`
	Derivative   float64 `json:"derivative"`
	Error        float64 `json:"error"`
}

// PIDController implements a discrete PID controller for lateral line error
// with integral anti-windup and a low-pass filtered derivative.
type PIDController struct {
	cfg PIDConfig

	// State
	integral       float64
	lastError      float64
	lastDerivative float64
	lastUpdate     time.Time
	initialized    bool
}

// NewPIDController creates a PID controller with the given configuration.
// Gains are clamped to >= 0 and the derivative filter coefficient is forced
// into (0, 1].
func NewPIDController(cfg PIDConfig) *PIDController {
	cfg = sanitizePIDConfig(cfg)
	return &PIDController{cfg: cfg}
}

func sanitizePIDConfig(cfg PIDConfig) PIDConfig {
	cfg.Kp = math.Max(0, cfg.Kp)
	cfg.Ki = math.Max(0, cfg.Ki)
	cfg.Kd = math.Max(0, cfg.Kd)
	if cfg.DerivativeFilter <= 0 || cfg.DerivativeFilter > 1 {
		cfg.DerivativeFilter = 1
	}
	return cfg
}

// Reset clears the PID state.
func (pid *PIDController) Reset() {
	pid.integral = 0
	pid.lastError = 0
	pid.lastDerivative = 0
	pid.lastUpdate = time.Time{}
	pid.initialized = false
}

// Update computes the control output for the given error. A dt <= 0 selects
// the wall-clock delta since the previous call; any delta outside (0, 0.1]
// seconds falls back to 1/60 s.
func (pid *PIDController) Update(err, dt float64) PIDTerms {
	now := time.Now()
	if dt <= 0 && !pid.lastUpdate.IsZero() {
		dt = now.Sub(pid.lastUpdate).Seconds()
	}
	pid.lastUpdate = now
	if dt <= 0 || dt > maxDtS {
		dt = fallbackDtS
	}

	// Dead zone: treat tiny errors as exactly zero before all three terms.
	e := err
	if math.Abs(e) < pid.cfg.DeadZone {
		e = 0
	}

	// Anti-windup: a sign flip relative to the previous call discards the
	// stale accumulator before the new error is integrated.
	if pid.initialized && e*pid.lastError < 0 {
		pid.integral = 0
	}
	pid.integral = Clamp(pid.integral+e*dt, -pid.cfg.MaxIntegral, pid.cfg.MaxIntegral)

	// Derivative on error with an exponential low-pass; a coefficient near
	// zero means heavier smoothing.
	var raw float64
	if pid.initialized {
		raw = (e - pid.lastError) / dt
	}
	pid.lastDerivative += pid.cfg.DerivativeFilter * (raw - pid.lastDerivative)

	p := pid.cfg.Kp * e
	i := pid.cfg.Ki * pid.integral
	d := pid.cfg.Kd * pid.lastDerivative

	out := PIDTerms{
		Output:       Clamp(p+i+d, -pid.cfg.MaxOutput, pid.cfg.MaxOutput),
		Proportional: p,
		Integral:     i,
		Derivative:   d,
		Error:        e,
	}

	pid.lastError = e
	pid.initialized = true
	return out
}

// SetKp updates the proportional gain, clamped to >= 0.
func (pid *PIDController) SetKp(kp float64) {
	pid.cfg.Kp = math.Max(0, kp)
}

// SetKi updates the integral gain, clamped to >= 0, and clears the
// accumulator so windup collected at the old gain cannot leak through.
func (pid *PIDController) SetKi(ki float64) {
	pid.cfg.Ki = math.Max(0, ki)
	pid.integral = 0
}

// SetKd updates the derivative gain, clamped to >= 0.
func (pid *PIDController) SetKd(kd float64) {
	pid.cfg.Kd = math.Max(0, kd)
}

// Config returns a snapshot of the current configuration.
func (pid *PIDController) Config() PIDConfig {
	return pid.cfg
}

// GetIntegral returns the raw integral accumulator (before the Ki gain).
func (pid *PIDController) GetIntegral() float64 {
	return pid.integral
}

// GetError returns the most recent dead-zone-treated error.
func (pid *PIDController) GetError() float64 {
	return pid.lastError
}
