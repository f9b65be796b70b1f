package main

import (
	"encoding/json"
	"fmt"
	"os"

	control "linefollow-core/line_follower/lateral_control"
	"linefollow-core/track"
)

// Scenario defines a complete simulation run: the track, the follower
// configuration and the vehicle start state.
type Scenario struct {
	Meta          ScenarioMeta          `json:"meta"`
	Timing        ScenarioTiming        `json:"timing"`
	Track         *track.Definition     `json:"track,omitempty"`
	Sensors       *control.SensorConfig `json:"sensor_config,omitempty"`
	PID           *control.PIDConfig    `json:"pid_config,omitempty"`
	SteeringScale float64               `json:"steering_scale,omitempty"`
	Vehicle       VehicleStart          `json:"vehicle"`
}

// ScenarioMeta contains scenario metadata.
type ScenarioMeta struct {
	Name        string `json:"name"`
	Version     int    `json:"version"`
	Description string `json:"description"`
}

// ScenarioTiming defines timing parameters.
type ScenarioTiming struct {
	DtS          float64 `json:"dt_s"`
	DurationS    float64 `json:"duration_s"`
	LogHz        float64 `json:"log_hz"`
	RealTimeMode bool    `json:"real_time_mode"`
}

// VehicleStart is the vehicle's initial pose and forward speed command.
type VehicleStart struct {
	X          float64 `json:"x"`
	Z          float64 `json:"z"`
	HeadingDeg float64 `json:"heading_deg"`
	Speed      float64 `json:"speed"`
}

const (
	defaultDtS   = 0.05
	defaultSpeed = 40.0
)

// LoadScenario loads a scenario from a JSON file and applies defaults for
// omitted blocks: the generated demo oval, the stock sensor layout, the stock
// PID gains.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read file: %w", err)
	}

	var scen Scenario
	if err := json.Unmarshal(data, &scen); err != nil {
		return Scenario{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := applyDefaults(&scen); err != nil {
		return Scenario{}, err
	}
	return scen, nil
}

func applyDefaults(scen *Scenario) error {
	if scen.Timing.DurationS <= 0 {
		return fmt.Errorf("invalid duration_s: %f", scen.Timing.DurationS)
	}
	if scen.Timing.DtS <= 0 {
		scen.Timing.DtS = defaultDtS
	}

	if scen.Track == nil {
		demo := track.Demo()
		scen.Track = &demo
	}
	if scen.Sensors == nil {
		cfg := control.DefaultSensorConfig()
		scen.Sensors = &cfg
	} else if scen.Sensors.Count < 1 {
		return fmt.Errorf("invalid sensor count: %d", scen.Sensors.Count)
	}
	if scen.PID == nil {
		cfg := control.DefaultPIDConfig()
		scen.PID = &cfg
	}
	if scen.SteeringScale == 0 {
		scen.SteeringScale = control.DefaultFollowerConfig().SteeringScale
	}
	if scen.Vehicle.Speed == 0 {
		scen.Vehicle.Speed = defaultSpeed
	}
	return nil
}
