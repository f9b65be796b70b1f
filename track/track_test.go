package track

import (
	"errors"
	"math"
	"testing"
)

func TestBuildLineResampling(t *testing.T) {
	def := Definition{
		Name:       "straight",
		TrackWidth: 0.5,
		Segments: []SegmentDef{
			{Type: "line", Start: [2]float64{0, 0}, End: [2]float64{0, 1}},
		},
	}
	tr, err := Build(def)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// length 1 at interval 0.2 -> ceil(5) = 5 samples, none deduplicated
	if len(tr.Waypoints) != 5 {
		t.Fatalf("expected 5 waypoints, got %d", len(tr.Waypoints))
	}
	first, last := tr.Waypoints[0], tr.Waypoints[len(tr.Waypoints)-1]
	if first.X != 0 || first.Y != 0 {
		t.Fatalf("unexpected first waypoint %+v", first)
	}
	if last.X != 0 || math.Abs(last.Y-1) > 1e-12 {
		t.Fatalf("unexpected last waypoint %+v", last)
	}
}

func TestBuildArcClockwiseTakesRequestedWinding(t *testing.T) {
	def := Definition{
		TrackWidth: 0.5,
		Segments: []SegmentDef{
			{Type: "arc", Center: [2]float64{0, 0}, Radius: 1, StartAngle: 90, EndAngle: 0, Clockwise: true},
		},
	}
	tr, err := Build(def)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// quarter arc, radius 1: ceil((pi/2)/0.2) = 8 samples
	if len(tr.Waypoints) != 8 {
		t.Fatalf("expected 8 waypoints, got %d", len(tr.Waypoints))
	}

	// angles run 90 -> 0: x strictly increases, z strictly decreases
	for i := 1; i < len(tr.Waypoints); i++ {
		if tr.Waypoints[i].X <= tr.Waypoints[i-1].X {
			t.Fatalf("x not increasing at %d: %v", i, tr.Waypoints)
		}
		if tr.Waypoints[i].Y >= tr.Waypoints[i-1].Y {
			t.Fatalf("z not decreasing at %d: %v", i, tr.Waypoints)
		}
	}
	end := tr.Waypoints[len(tr.Waypoints)-1]
	if math.Abs(end.X-1) > 1e-12 || math.Abs(end.Y) > 1e-12 {
		t.Fatalf("arc should end at (1,0), got %+v", end)
	}
}

func TestBuildArcCounterClockwiseWrapsLongWay(t *testing.T) {
	def := Definition{
		TrackWidth: 0.5,
		Segments: []SegmentDef{
			{Type: "arc", Center: [2]float64{0, 0}, Radius: 1, StartAngle: 90, EndAngle: 0, Clockwise: false},
		},
	}
	tr, err := Build(def)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// the span is forced positive (+270°), three times the clockwise arc
	if len(tr.Waypoints) != 24 {
		t.Fatalf("expected 24 waypoints, got %d", len(tr.Waypoints))
	}
	// heading toward 180° first, away from the short way down to 0°
	if tr.Waypoints[1].X >= tr.Waypoints[0].X {
		t.Fatalf("expected second waypoint left of the first, got %v", tr.Waypoints[:2])
	}
	end := tr.Waypoints[len(tr.Waypoints)-1]
	if math.Abs(end.X-1) > 1e-12 || math.Abs(end.Y) > 1e-9 {
		t.Fatalf("arc should still end at (1,0), got %+v", end)
	}
}

func TestBuildDeduplicatesCloseWaypoints(t *testing.T) {
	def := Definition{
		TrackWidth: 0.5,
		Waypoints:  [][2]float64{{0, 0}, {0, 0.05}, {0, 1}},
	}
	tr, err := Build(def)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(tr.Waypoints) != 2 {
		t.Fatalf("expected the middle waypoint removed, got %d waypoints", len(tr.Waypoints))
	}
}

func TestBuildFailures(t *testing.T) {
	if _, err := Build(Definition{}); !errors.Is(err, ErrEmptyTrack) {
		t.Fatalf("expected ErrEmptyTrack, got %v", err)
	}

	short := Definition{Segments: []SegmentDef{
		{Type: "line", Start: [2]float64{0, 0}, End: [2]float64{0, 0.05}},
	}}
	if _, err := Build(short); !errors.Is(err, ErrDegenerateTrack) {
		t.Fatalf("expected ErrDegenerateTrack, got %v", err)
	}

	bad := Definition{Segments: []SegmentDef{{Type: "spline"}}}
	if _, err := Build(bad); err == nil {
		t.Fatal("expected error for unknown segment type")
	}

	flat := Definition{Segments: []SegmentDef{{Type: "arc", Radius: 0}}}
	if _, err := Build(flat); err == nil {
		t.Fatal("expected error for non-positive arc radius")
	}
}

func TestBuildDefaultWidth(t *testing.T) {
	tr, err := Build(Definition{Waypoints: [][2]float64{{0, 0}, {0, 1}}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if tr.Width != DefaultWidth {
		t.Fatalf("expected default width %v, got %v", DefaultWidth, tr.Width)
	}
}

func TestDemoTrackClosesLoop(t *testing.T) {
	tr, err := Build(Demo())
	if err != nil {
		t.Fatalf("build demo: %v", err)
	}
	if len(tr.Waypoints) < 50 {
		t.Fatalf("demo oval suspiciously sparse: %d waypoints", len(tr.Waypoints))
	}
	first := tr.Waypoints[0]
	last := tr.Waypoints[len(tr.Waypoints)-1]
	dx, dz := last.X-first.X, last.Y-first.Y
	if math.Hypot(dx, dz) > DefaultSampleInterval {
		t.Fatalf("demo oval does not close: first %+v last %+v", first, last)
	}
}
