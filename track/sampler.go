package track

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// localWindow is the number of polyline segments searched on each side of the
// cached nearest index before falling back to a full scan.
const localWindow = 10

// Sample describes the relation of a query point to the loaded track.
// Signed carries the lateral distance with its side: positive when the point
// lies to the right of the local track direction, negative to the left.
type Sample struct {
	Distance float64
	Signed   float64
	OnTrack  bool
	Nearest  r2.Vec
	Segment  int
}

// Sampler answers nearest-point queries against the loaded track polyline.
// It owns the track exclusively and keeps a locality cache (the index of the
// last nearest segment) that exploits the vehicle moving continuously.
type Sampler struct {
	track       *Track
	lastNearest int
}

// NewSampler returns a sampler with no track loaded.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Load builds a track from the description and replaces the current one.
// On failure the previously loaded track, if any, remains in place.
func (s *Sampler) Load(def Definition) error {
	t, err := Build(def)
	if err != nil {
		return err
	}
	s.track = t
	s.ResetCache()
	return nil
}

// Unload drops the track and the locality cache.
func (s *Sampler) Unload() {
	s.track = nil
	s.ResetCache()
}

// HasTrack reports whether a track is loaded.
func (s *Sampler) HasTrack() bool {
	return s.track != nil
}

// Track returns the loaded track, or nil.
func (s *Sampler) Track() *Track {
	return s.track
}

// ResetCache clears the locality hint so the next query scans from the start.
// Called on track reload and on follower enable to avoid stale bias.
func (s *Sampler) ResetCache() {
	s.lastNearest = 0
}

// SampleAt reports whether the point lies within half the track width of the
// nearest polyline segment. Returns false when no track is loaded.
func (s *Sampler) SampleAt(x, z float64) bool {
	smp, ok := s.SignedDistance(x, z)
	return ok && smp.OnTrack
}

// SignedDistance returns the minimum distance from the point to the track
// polyline, its signed form, the nearest point and segment index. The search
// is restricted to a window around the cached nearest index and widened to a
// full scan when the windowed best exceeds twice the track width, which
// covers teleports, track switches and loop closure.
func (s *Sampler) SignedDistance(x, z float64) (Sample, bool) {
	if s.track == nil {
		return Sample{}, false
	}

	p := r2.Vec{X: x, Y: z}
	nseg := len(s.track.Waypoints) - 1

	lo := s.lastNearest - localWindow
	hi := s.lastNearest + localWindow + 1
	if lo < 0 {
		lo = 0
	}
	if hi > nseg {
		hi = nseg
	}

	best := s.scan(p, lo, hi)
	if best.Distance > 2*s.track.Width && (lo > 0 || hi < nseg) {
		best = s.scan(p, 0, nseg)
	}

	s.lastNearest = best.Segment
	best.OnTrack = best.Distance <= s.track.Width/2
	return best, true
}

// scan finds the closest segment in [lo, hi). Ties resolve to the lowest
// index so results are reproducible.
func (s *Sampler) scan(p r2.Vec, lo, hi int) Sample {
	best := Sample{Distance: math.Inf(1), Segment: lo}
	for i := lo; i < hi; i++ {
		a := s.track.Waypoints[i]
		b := s.track.Waypoints[i+1]
		q := closestOnSegment(p, a, b)
		d := r2.Norm(r2.Sub(p, q))
		if d < best.Distance {
			cross := r2.Cross(r2.Unit(r2.Sub(b, a)), r2.Sub(p, q))
			best = Sample{
				Distance: d,
				Signed:   math.Copysign(d, cross),
				Nearest:  q,
				Segment:  i,
			}
		}
	}
	return best
}

// closestOnSegment projects p onto the infinite line through a and b, clamps
// the parametric coordinate to [0,1] and returns the resulting point.
func closestOnSegment(p, a, b r2.Vec) r2.Vec {
	ab := r2.Sub(b, a)
	len2 := r2.Norm2(ab)
	if len2 == 0 {
		return a
	}
	t := r2.Dot(r2.Sub(p, a), ab) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return r2.Add(a, r2.Scale(t, ab))
}
