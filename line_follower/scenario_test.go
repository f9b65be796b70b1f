package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	control "linefollow-core/line_follower/lateral_control"
)

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scen.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenarioAppliesDefaults(t *testing.T) {
	path := writeScenario(t, `{
		"meta": {"name": "minimal"},
		"timing": {"duration_s": 1}
	}`)

	scen, err := LoadScenario(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.05, scen.Timing.DtS, 1e-12)
	require.NotNil(t, scen.Track)
	assert.Equal(t, "demo_oval", scen.Track.Name)
	require.NotNil(t, scen.Sensors)
	if diff := cmp.Diff(control.DefaultSensorConfig(), *scen.Sensors); diff != "" {
		t.Fatalf("sensor defaults mismatch (-want +got):\n%s", diff)
	}
	require.NotNil(t, scen.PID)
	assert.InDelta(t, control.DefaultPIDConfig().Kp, scen.PID.Kp, 1e-12)
	assert.InDelta(t, 45, scen.SteeringScale, 1e-12)
	assert.InDelta(t, 40, scen.Vehicle.Speed, 1e-12)
}

func TestLoadScenarioKeepsExplicitBlocks(t *testing.T) {
	path := writeScenario(t, `{
		"meta": {"name": "custom"},
		"timing": {"dt_s": 0.02, "duration_s": 5},
		"track": {"name": "line", "trackWidth": 0.6, "waypoints": [[0,0],[0,10]]},
		"sensor_config": {"count": 7, "spacing": 0.1, "forward_offset": 0.5},
		"pid_config": {"kp": 2, "max_output": 1, "derivative_filter": 0.5},
		"steering_scale": 30,
		"vehicle": {"x": 1, "z": 2, "heading_deg": 180, "speed": 20}
	}`)

	scen, err := LoadScenario(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.02, scen.Timing.DtS, 1e-12)
	assert.Equal(t, "line", scen.Track.Name)
	assert.Equal(t, 7, scen.Sensors.Count)
	assert.InDelta(t, 2, scen.PID.Kp, 1e-12)
	assert.InDelta(t, 30, scen.SteeringScale, 1e-12)
	assert.InDelta(t, 180, scen.Vehicle.HeadingDeg, 1e-12)
}

func TestLoadScenarioRejectsBadInput(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeScenario(t, `{"meta": {"name": "no-duration"}}`)
	_, err = LoadScenario(path)
	assert.Error(t, err, "zero duration must be rejected")

	path = writeScenario(t, `{
		"timing": {"duration_s": 1},
		"sensor_config": {"count": 0}
	}`)
	_, err = LoadScenario(path)
	assert.Error(t, err, "explicit zero sensor count must be rejected")

	path = writeScenario(t, `not json`)
	_, err = LoadScenario(path)
	assert.Error(t, err)
}
