// Package spatial places points by rejection sampling inside axis-aligned
// bounds, keeping them out of an exclusion disk around the origin.
package spatial

import (
	"fmt"
	"math/rand"

	"goki.dev/mat32/v2"
)

// DefaultMaxAttempts bounds the rejection loop when the caller does not
// supply a budget.
const DefaultMaxAttempts = 1000

// PlacementError reports that no point clearing the exclusion disk could
// be placed. Attempts is zero when the disk provably covers the whole
// region and no draw was made.
type PlacementError struct {
	Exclusion float32
	Attempts  int
}

func (e *PlacementError) Error() string {
	if e.Attempts == 0 {
		return fmt.Sprintf("placement failed: exclusion radius %g exceeds sampling bounds", e.Exclusion)
	}
	return fmt.Sprintf("placement failed: exclusion radius %g exceeds sampling bounds after %d attempts", e.Exclusion, e.Attempts)
}

// Bounds is an axis-aligned sampling region. A zero-width Z axis pins the
// sampled point to that height.
type Bounds struct {
	Min mat32.Vec3 `json:"min"`
	Max mat32.Vec3 `json:"max"`
}

// Square returns bounds covering [-half,half] in X and Y at height zero.
func Square(half float32) Bounds {
	return Bounds{Min: mat32.V3(-half, -half, 0), Max: mat32.V3(half, half, 0)}
}

// WithZ returns a copy of the bounds spanning [min,max] in Z.
func (b Bounds) WithZ(min, max float32) Bounds {
	b.Min.Z = min
	b.Max.Z = max
	return b
}

// farthestXY is the largest horizontal distance from the origin any point
// of the region can reach.
func (b Bounds) farthestXY() float32 {
	x := mat32.Max(mat32.Abs(b.Min.X), mat32.Abs(b.Max.X))
	y := mat32.Max(mat32.Abs(b.Min.Y), mat32.Abs(b.Max.Y))
	return mat32.Hypot(x, y)
}

// Sampler draws uniform points from bounded regions. It is not safe for
// concurrent use; each generation pass owns one.
type Sampler struct {
	rng         *rand.Rand
	maxAttempts int
}

// NewSampler returns a sampler drawing from rng with the given attempt
// budget per placement. A non-positive budget falls back to
// DefaultMaxAttempts.
func NewSampler(rng *rand.Rand, maxAttempts int) *Sampler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Sampler{rng: rng, maxAttempts: maxAttempts}
}

func (s *Sampler) uniform(min, max float32) float32 {
	return min + s.rng.Float32()*(max-min)
}

func (s *Sampler) draw(b Bounds) mat32.Vec3 {
	return mat32.V3(
		s.uniform(b.Min.X, b.Max.X),
		s.uniform(b.Min.Y, b.Max.Y),
		s.uniform(b.Min.Z, b.Max.Z),
	)
}

// clears reports whether the point lies outside the exclusion disk. Only
// the horizontal distance counts; Z is unconstrained.
func clears(p mat32.Vec3, exclusion float32) bool {
	return mat32.Hypot(p.X, p.Y) > exclusion
}

// Sample draws until a point clears the exclusion disk, failing with a
// PlacementError instead of looping forever when the disk covers the
// whole region or the attempt budget runs out.
func (s *Sampler) Sample(b Bounds, exclusion float32) (mat32.Vec3, error) {
	if b.farthestXY() <= exclusion {
		return mat32.Vec3{}, &PlacementError{Exclusion: exclusion}
	}
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		if p := s.draw(b); clears(p, exclusion) {
			return p, nil
		}
	}
	return mat32.Vec3{}, &PlacementError{Exclusion: exclusion, Attempts: s.maxAttempts}
}

// TrySample draws a single candidate and reports whether it cleared the
// exclusion disk. Callers that tolerate gaps use it instead of Sample.
func (s *Sampler) TrySample(b Bounds, exclusion float32) (mat32.Vec3, bool) {
	p := s.draw(b)
	return p, clears(p, exclusion)
}
