package main

import (
	"context"
	"fmt"
	"math"
	"time"

	control "linefollow-core/line_follower/lateral_control"
	"linefollow-core/models"
	"linefollow-core/track"
	"linefollow-core/utils"
)

// RunnerConfig selects the scenario and the telemetry outputs.
type RunnerConfig struct {
	ScenarioPath string
	CSVPath      string
	ChartPath    string
}

// Runner owns one simulation run: it wires sampler, vehicle and follower from
// a scenario, ticks the loop and records telemetry.
type Runner struct {
	cfg      RunnerConfig
	log      *utils.Logger
	scen     Scenario
	sampler  *track.Sampler
	car      *models.VirtualCar
	follower *control.Follower
	samples  []TelemetrySample
}

func NewRunner(cfg RunnerConfig, log *utils.Logger) (*Runner, error) {
	scen, err := LoadScenario(cfg.ScenarioPath)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}

	sampler := track.NewSampler()
	if err := sampler.Load(*scen.Track); err != nil {
		return nil, fmt.Errorf("load track: %w", err)
	}

	car := models.NewVirtualCar()
	car.Place(scen.Vehicle.X, scen.Vehicle.Z, scen.Vehicle.HeadingDeg)
	car.MoveForward(scen.Vehicle.Speed, 0)

	follower := control.NewFollower(sampler, car)
	follower.Initialize(control.FollowerConfig{
		Sensors:       *scen.Sensors,
		PID:           *scen.PID,
		SteeringScale: scen.SteeringScale,
	})
	if err := follower.Enable(); err != nil {
		return nil, fmt.Errorf("enable follower: %w", err)
	}

	return &Runner{
		cfg:      cfg,
		log:      log,
		scen:     scen,
		sampler:  sampler,
		car:      car,
		follower: follower,
	}, nil
}

// Run ticks the simulation until the scenario duration elapses or the
// context is canceled. Per tick, forward motion integrates first, then the
// follower samples, computes and steers.
func (r *Runner) Run(ctx context.Context) error {
	dt := r.scen.Timing.DtS
	steps := int(math.Ceil(r.scen.Timing.DurationS / dt))

	logEvery := 0
	if r.scen.Timing.LogHz > 0 {
		logEvery = int(math.Max(1, math.Round(1/(r.scen.Timing.LogHz*dt))))
	}

	r.log.Info("Starting run: scenario=%s track=%s waypoints=%d dt_s=%.3f duration_s=%.1f real_time=%v",
		r.scen.Meta.Name, r.sampler.Track().Name, len(r.sampler.Track().Waypoints),
		dt, r.scen.Timing.DurationS, r.scen.Timing.RealTimeMode)

	var ticker *time.Ticker
	if r.scen.Timing.RealTimeMode {
		ticker = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer ticker.Stop()
	}

	var lostTicks int
	var sumAbsErr float64

	for step := 0; step < steps; step++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				r.log.Warn("Context canceled; stopping run at step %d", step)
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			r.log.Warn("Context canceled; stopping run at step %d", step)
			return err
		}

		r.car.UpdatePosition(dt)
		res := r.follower.Update(dt)

		state := r.car.Snapshot()
		t := float64(step) * dt
		r.samples = append(r.samples, TelemetrySample{
			T:        t,
			X:        state.X,
			Z:        state.Z,
			Heading:  state.Heading,
			Error:    res.Error,
			Steering: res.Steering,
			LineLost: res.LineLost,
			P:        res.PID.Proportional,
			I:        res.PID.Integral,
			D:        res.PID.Derivative,
		})

		if res.LineLost {
			lostTicks++
		}
		sumAbsErr += math.Abs(res.Error)

		if logEvery > 0 && step%logEvery == 0 {
			r.log.Debug("t=%.2f pos=(%.2f, %.2f) heading=%.1f err=%.3f steer=%.2f lost=%v P=%.3f I=%.3f D=%.3f",
				t, state.X, state.Z, state.Heading, res.Error, res.Steering,
				res.LineLost, res.PID.Proportional, res.PID.Integral, res.PID.Derivative)
		}
	}

	meanAbsErr := 0.0
	if len(r.samples) > 0 {
		meanAbsErr = sumAbsErr / float64(len(r.samples))
	}
	final := r.car.Snapshot()
	r.log.Info("Completed run: steps=%d mean_abs_err=%.4f lost_ticks=%d final_pos=(%.2f, %.2f) final_heading=%.1f",
		len(r.samples), meanAbsErr, lostTicks, final.X, final.Z, final.Heading)

	if r.cfg.CSVPath != "" {
		if err := WriteCSV(r.cfg.CSVPath, r.samples); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		r.log.Info("Telemetry CSV written to %s", r.cfg.CSVPath)
	}
	if r.cfg.ChartPath != "" {
		if err := RenderChart(r.cfg.ChartPath, r.scen.Meta.Name, r.samples); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		r.log.Info("Telemetry chart written to %s", r.cfg.ChartPath)
	}
	return nil
}

// Samples returns the recorded telemetry.
func (r *Runner) Samples() []TelemetrySample {
	return r.samples
}
