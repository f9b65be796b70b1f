package track

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// DefaultSampleInterval is the arc-length spacing (in track units) at
	// which line and arc segments are resampled into waypoints.
	DefaultSampleInterval = 0.2

	// DefaultWidth is used when a track description carries no width.
	DefaultWidth = 0.5
)

// ErrEmptyTrack reports a description with neither waypoints nor segments.
var ErrEmptyTrack = errors.New("track: description has no waypoints and no segments")

// ErrDegenerateTrack reports a description that yields fewer than two
// distinct waypoints after resampling and deduplication.
var ErrDegenerateTrack = errors.New("track: fewer than two distinct waypoints")

// Definition is the externally-supplied track description.
// Either Waypoints or Segments must be present; when Waypoints is empty the
// segment list is resampled into waypoints at a fixed arc-length interval.
type Definition struct {
	Name       string       `json:"name"`
	TrackWidth float64      `json:"trackWidth"`
	Waypoints  [][2]float64 `json:"waypoints,omitempty"`
	Segments   []SegmentDef `json:"segments,omitempty"`
}

// SegmentDef describes a single line or arc segment of a track centerline.
// Angles are in degrees.
type SegmentDef struct {
	Type       string     `json:"type"` // "line" or "arc"
	Start      [2]float64 `json:"start,omitempty"`
	End        [2]float64 `json:"end,omitempty"`
	Center     [2]float64 `json:"center,omitempty"`
	Radius     float64    `json:"radius,omitempty"`
	StartAngle float64    `json:"startAngle,omitempty"`
	EndAngle   float64    `json:"endAngle,omitempty"`
	Clockwise  bool       `json:"clockwise,omitempty"`
}

// Track is an immutable resampled track: an ordered polyline of centerline
// waypoints plus the painted line width used for hit testing.
type Track struct {
	Name      string
	Width     float64
	Waypoints []r2.Vec
}

// Build resamples a track description into a Track. It fails without side
// effects on an empty or degenerate description, so a caller holding a
// previously built track can keep it.
func Build(def Definition) (*Track, error) {
	const interval = DefaultSampleInterval

	var pts []r2.Vec
	switch {
	case len(def.Waypoints) > 0:
		pts = make([]r2.Vec, 0, len(def.Waypoints))
		for _, w := range def.Waypoints {
			pts = append(pts, r2.Vec{X: w[0], Y: w[1]})
		}
	case len(def.Segments) > 0:
		for i, seg := range def.Segments {
			sampled, err := sampleSegment(seg, interval)
			if err != nil {
				return nil, fmt.Errorf("track: segment %d: %w", i, err)
			}
			pts = append(pts, sampled...)
		}
	default:
		return nil, ErrEmptyTrack
	}

	pts = dedupe(pts, interval/2)
	if len(pts) < 2 {
		return nil, ErrDegenerateTrack
	}

	width := def.TrackWidth
	if width <= 0 {
		width = DefaultWidth
	}

	return &Track{Name: def.Name, Width: width, Waypoints: pts}, nil
}

func sampleSegment(seg SegmentDef, interval float64) ([]r2.Vec, error) {
	switch seg.Type {
	case "line":
		return sampleLine(seg, interval), nil
	case "arc":
		return sampleArc(seg, interval)
	default:
		return nil, fmt.Errorf("unknown segment type %q", seg.Type)
	}
}

func sampleLine(seg SegmentDef, interval float64) []r2.Vec {
	a := r2.Vec{X: seg.Start[0], Y: seg.Start[1]}
	b := r2.Vec{X: seg.End[0], Y: seg.End[1]}
	length := r2.Norm(r2.Sub(b, a))

	n := int(math.Ceil(length / interval))
	if n < 2 {
		n = 2
	}

	pts := make([]r2.Vec, 0, n)
	for k := 0; k < n; k++ {
		t := float64(k) / float64(n-1)
		pts = append(pts, r2.Add(a, r2.Scale(t, r2.Sub(b, a))))
	}
	return pts
}

// sampleArc honors the requested winding: counter-clockwise forces the signed
// angular span positive by adding 2π when negative, clockwise forces it
// negative by subtracting 2π when positive. This selects the span consistent
// with the winding, which is not necessarily the geometrically shorter arc.
func sampleArc(seg SegmentDef, interval float64) ([]r2.Vec, error) {
	if seg.Radius <= 0 {
		return nil, fmt.Errorf("arc radius must be positive, got %v", seg.Radius)
	}

	start := seg.StartAngle * math.Pi / 180
	span := (seg.EndAngle - seg.StartAngle) * math.Pi / 180
	if seg.Clockwise {
		if span > 0 {
			span -= 2 * math.Pi
		}
	} else {
		if span < 0 {
			span += 2 * math.Pi
		}
	}

	arcLength := math.Abs(span) * seg.Radius
	n := int(math.Ceil(arcLength / interval))
	if n < 2 {
		n = 2
	}

	center := r2.Vec{X: seg.Center[0], Y: seg.Center[1]}
	pts := make([]r2.Vec, 0, n)
	for k := 0; k < n; k++ {
		theta := start + span*float64(k)/float64(n-1)
		pts = append(pts, r2.Add(center, r2.Scale(seg.Radius, r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)})))
	}
	return pts, nil
}

// dedupe drops consecutive points closer than minSpacing, keeping the first
// of each run.
func dedupe(pts []r2.Vec, minSpacing float64) []r2.Vec {
	if len(pts) == 0 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if r2.Norm(r2.Sub(p, out[len(out)-1])) < minSpacing {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Demo returns a generated demo track: a stadium oval of two straights joined
// by two 180° arcs, centered on the origin.
func Demo() Definition {
	return Definition{
		Name:       "demo_oval",
		TrackWidth: DefaultWidth,
		Segments: []SegmentDef{
			{Type: "line", Start: [2]float64{-3, -2}, End: [2]float64{-3, 2}},
			{Type: "arc", Center: [2]float64{0, 2}, Radius: 3, StartAngle: 180, EndAngle: 0, Clockwise: true},
			{Type: "line", Start: [2]float64{3, 2}, End: [2]float64{3, -2}},
			{Type: "arc", Center: [2]float64{0, -2}, Radius: 3, StartAngle: 0, EndAngle: -180, Clockwise: true},
		},
	}
}
