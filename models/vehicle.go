package models

import (
	"math"

	control "linefollow-core/line_follower/lateral_control"
)

const (
	// MaxSpeed is the upper bound of the speed command scale.
	MaxSpeed = 100.0

	// speedToUnits converts a full-scale speed command to units per
	// second: speed 100 moves 5 units/s.
	speedToUnits = 5.0 / MaxSpeed

	// arenaLimit bounds the vehicle position on both axes.
	arenaLimit = 15.0

	// standstill is the speed magnitude below which the car is stopped.
	standstill = 0.01
)

// VirtualCar is the simulated vehicle. It owns position and forward motion;
// the control core only reads the pose and writes the heading through the
// control.Vehicle interface.
type VirtualCar struct {
	x          float64
	z          float64
	headingDeg float64

	currentSpeed    float64
	targetSpeed     float64
	moving          bool
	motionRemaining float64 // seconds left of a timed command, 0 = unlimited
	timed           bool
}

// CarState is a JSON-friendly snapshot of the car.
type CarState struct {
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Heading  float64 `json:"rotation"`
	Speed    float64 `json:"speed"`
	IsMoving bool    `json:"is_moving"`
}

// NewVirtualCar returns a car at the origin, heading 0, stopped.
func NewVirtualCar() *VirtualCar {
	return &VirtualCar{}
}

// Place moves the car to a start pose. Intended for scenario setup only.
func (c *VirtualCar) Place(x, z, headingDeg float64) {
	c.x = clampArena(x)
	c.z = clampArena(z)
	c.headingDeg = control.NormalizeHeading(headingDeg)
}

func clampArena(v float64) float64 {
	if v < -arenaLimit {
		return -arenaLimit
	}
	if v > arenaLimit {
		return arenaLimit
	}
	return v
}

// MoveForward drives forward at the given speed. A duration of 0 keeps the
// car moving until Stop.
func (c *VirtualCar) MoveForward(speed, duration float64) {
	c.targetSpeed = control.Clamp(speed, 0, MaxSpeed)
	c.startMotion(duration)
}

// MoveBackward drives backward at the given speed. A duration of 0 keeps the
// car moving until Stop.
func (c *VirtualCar) MoveBackward(speed, duration float64) {
	c.targetSpeed = -control.Clamp(speed, 0, MaxSpeed)
	c.startMotion(duration)
}

func (c *VirtualCar) startMotion(duration float64) {
	c.motionRemaining = duration
	c.timed = duration > 0
	c.currentSpeed = c.targetSpeed
	c.moving = math.Abs(c.currentSpeed) > standstill
}

// TurnLeft rotates the car instantly by angle degrees.
func (c *VirtualCar) TurnLeft(angle float64) {
	c.headingDeg = control.NormalizeHeading(c.headingDeg + angle)
}

// TurnRight rotates the car instantly by angle degrees.
func (c *VirtualCar) TurnRight(angle float64) {
	c.headingDeg = control.NormalizeHeading(c.headingDeg - angle)
}

// Stop halts all motion immediately.
func (c *VirtualCar) Stop() {
	c.currentSpeed = 0
	c.targetSpeed = 0
	c.motionRemaining = 0
	c.timed = false
	c.moving = false
}

// UpdatePosition advances the car along its heading by the elapsed tick.
// Timed commands expire here; the position is clamped to the arena.
func (c *VirtualCar) UpdatePosition(dt float64) {
	if c.timed {
		c.motionRemaining -= dt
		if c.motionRemaining <= 0 {
			c.currentSpeed = 0
			c.moving = false
			c.timed = false
			c.motionRemaining = 0
		}
	}

	if math.Abs(c.currentSpeed) <= standstill {
		return
	}

	rad := c.headingDeg * math.Pi / 180
	distance := c.currentSpeed * speedToUnits * dt
	c.x = clampArena(c.x + distance*math.Sin(rad))
	c.z = clampArena(c.z + distance*math.Cos(rad))
}

// Pose implements control.Vehicle.
func (c *VirtualCar) Pose() control.Pose {
	return control.Pose{X: c.x, Z: c.z, HeadingDeg: c.headingDeg}
}

// SetHeading implements control.Vehicle. The heading is normalized to
// [0, 360).
func (c *VirtualCar) SetHeading(deg float64) {
	c.headingDeg = control.NormalizeHeading(deg)
}

// Speed returns the currently effective speed command.
func (c *VirtualCar) Speed() float64 {
	return c.currentSpeed
}

// IsMoving reports whether the car is in motion.
func (c *VirtualCar) IsMoving() bool {
	return c.moving
}

// Reset returns the car to the origin, stopped.
func (c *VirtualCar) Reset() {
	*c = VirtualCar{}
}

// Snapshot returns the telemetry state of the car.
func (c *VirtualCar) Snapshot() CarState {
	return CarState{
		X:        c.x,
		Z:        c.z,
		Heading:  c.headingDeg,
		Speed:    c.currentSpeed,
		IsMoving: c.moving,
	}
}
