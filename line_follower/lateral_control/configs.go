package control

// SensorConfig holds virtual probe layout parameters.
type SensorConfig struct {
	Count         int     `json:"count"`
	Spacing       float64 `json:"spacing"`
	ForwardOffset float64 `json:"forward_offset"`
}

// PIDConfig holds PID controller parameters.
type PIDConfig struct {
	Kp               float64 `json:"kp"`
	Ki               float64 `json:"ki"`
	Kd               float64 `json:"kd"`
	MaxIntegral      float64 `json:"max_integral"`
	MaxOutput        float64 `json:"max_output"`
	DeadZone         float64 `json:"dead_zone"`
	DerivativeFilter float64 `json:"derivative_filter"`
}

// FollowerConfig wires the sensor array and the PID controller together with
// the steering gain converting normalized PID output to degrees per second.
type FollowerConfig struct {
	Sensors       SensorConfig `json:"sensor_config"`
	PID           PIDConfig    `json:"pid_config"`
	SteeringScale float64      `json:"steering_scale"`
}

// DefaultSensorConfig returns the five-probe infrared layout of the virtual
// car: 0.15 units between probes, 0.8 units ahead of the vehicle origin.
func DefaultSensorConfig() SensorConfig {
	return SensorConfig{
		Count:         5,
		Spacing:       0.15,
		ForwardOffset: 0.8,
	}
}

// DefaultPIDConfig returns gains tuned for the demo oval.
func DefaultPIDConfig() PIDConfig {
	return PIDConfig{
		Kp:               1.2,
		Ki:               0.15,
		Kd:               0.08,
		MaxIntegral:      1.0,
		MaxOutput:        1.0,
		DeadZone:         0.02,
		DerivativeFilter: 0.3,
	}
}

// DefaultFollowerConfig returns a complete follower configuration.
func DefaultFollowerConfig() FollowerConfig {
	return FollowerConfig{
		Sensors:       DefaultSensorConfig(),
		PID:           DefaultPIDConfig(),
		SteeringScale: 45,
	}
}
