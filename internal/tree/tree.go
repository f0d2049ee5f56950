// Package tree grows fractal branch skeletons: recursive splitting with
// stochastic direction perturbation, terminating in leaf clusters that
// sometimes carry fruit.
package tree

import (
	"math/rand"

	"goki.dev/mat32/v2"
)

const (
	lengthDecay  = 0.7
	radiusDecay  = 0.6
	branchSpread = 0.5
	liftMin      = 0.2
	liftMax      = 1.0

	leavesPerCluster = 15
	leafJitter       = 0.6
	leafRotationMax  = 3.14
	fruitChance      = 0.3
)

// Params configures one skeleton. Direction is normalized before use.
type Params struct {
	Start     mat32.Vec3
	Direction mat32.Vec3
	Length    float32
	Radius    float32
	MaxLevel  int
}

// DefaultParams is the trunk every meadow tree starts from: upright at the
// origin, four levels of splitting.
func DefaultParams() Params {
	return Params{
		Direction: mat32.V3(0, 0, 1),
		Length:    2.5,
		Radius:    0.3,
		MaxLevel:  4,
	}
}

// Segment is one oriented cylindrical branch piece. Parent indexes the
// Segments slice; the root's parent is -1.
type Segment struct {
	Index     int
	Parent    int
	Start     mat32.Vec3
	Direction mat32.Vec3
	Length    float32
	Radius    float32
	Level     int
}

// Tip is the far end of the segment.
func (s *Segment) Tip() mat32.Vec3 {
	return s.Start.Add(s.Direction.MulScalar(s.Length))
}

// Orientation returns the rotation carrying the world up axis onto the
// segment's direction.
func (s *Segment) Orientation() mat32.Quat {
	var q mat32.Quat
	q.SetFromUnitVectors(mat32.V3(0, 0, 1), s.Direction)
	return q
}

// ToLocal expresses a world point in the segment's own frame, with the
// segment start as origin.
func (s *Segment) ToLocal(p mat32.Vec3) mat32.Vec3 {
	q := s.Orientation()
	inv := q.Inverse()
	return p.Sub(s.Start).MulQuat(inv)
}

// LocalPose returns the segment's location and XYZ Euler rotation in the
// given parent's frame. A nil parent yields the world pose.
func (s *Segment) LocalPose(parent *Segment) (loc, rot mat32.Vec3) {
	q := s.Orientation()
	if parent == nil {
		return s.Start, eulerXYZ(q)
	}
	parentQ := parent.Orientation()
	inv := parentQ.Inverse()
	local := inv.Mul(q)
	return s.Start.Sub(parent.Start).MulQuat(inv), eulerXYZ(local)
}

// eulerXYZ extracts the XYZ Euler angles of a quaternion, such that
// mat32.NewQuatEuler reproduces the rotation. mat32's own ToEuler extracts
// in ZYX order, which does not invert its XYZ-ordered SetFromEuler.
func eulerXYZ(q mat32.Quat) mat32.Vec3 {
	m13 := mat32.Clamp(2*(q.X*q.Z+q.W*q.Y), -1, 1)
	y := mat32.Asin(m13)
	if mat32.Abs(m13) < 0.99999 {
		m23 := 2 * (q.Y*q.Z - q.W*q.X)
		m33 := 1 - 2*(q.X*q.X+q.Y*q.Y)
		m12 := 2 * (q.X*q.Y - q.W*q.Z)
		m11 := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
		return mat32.V3(mat32.Atan2(-m23, m33), y, mat32.Atan2(-m12, m11))
	}
	// Gimbal lock: x and z are degenerate, fold everything into x.
	m32 := 2 * (q.Y*q.Z + q.W*q.X)
	m22 := 1 - 2*(q.X*q.X+q.Z*q.Z)
	return mat32.V3(mat32.Atan2(m32, m22), y, 0)
}

// Leaf is one jittered leaf placement inside a cluster. Offset is relative
// to the cluster anchor; Rotation is an XYZ Euler in radians.
type Leaf struct {
	Offset   mat32.Vec3
	Rotation mat32.Vec3
}

// Fruit hangs slightly below the cluster anchor, stretched into a mango
// silhouette.
type Fruit struct {
	Offset mat32.Vec3
	Scale  mat32.Vec3
}

// FoliageCluster is emitted once per terminal branch instead of a wood
// segment. Fruit is nil when the per-tip draw comes up empty.
type FoliageCluster struct {
	Anchor mat32.Vec3
	Parent int
	Leaves []Leaf
	Fruit  *Fruit
}

// Tree is a generated skeleton in emission order: parents always precede
// their children.
type Tree struct {
	Segments []Segment
	Clusters []FoliageCluster
}

// Root returns the trunk segment, or nil for a degenerate zero-level tree.
func (t *Tree) Root() *Segment {
	if len(t.Segments) == 0 {
		return nil
	}
	return &t.Segments[0]
}

type generator struct {
	rng  *rand.Rand
	tree Tree
}

// Generate grows a skeleton from the given params. Levels count down from
// MaxLevel; each non-terminal segment spawns two or three children with
// the direction perturbed by a jitter that keeps an upward bias, length
// scaled by 0.7 and radius by 0.6. Level zero emits a foliage cluster at
// the tip instead of a segment.
func Generate(rng *rand.Rand, p Params) *Tree {
	g := &generator{rng: rng}
	g.branch(p.Start, p.Direction.Normal(), p.Length, p.Radius, p.MaxLevel, -1)
	return &g.tree
}

func (g *generator) uniform(min, max float32) float32 {
	return min + g.rng.Float32()*(max-min)
}

func (g *generator) branch(start, direction mat32.Vec3, length, radius float32, level, parent int) {
	if level <= 0 {
		g.tree.Clusters = append(g.tree.Clusters, g.foliage(start, parent))
		return
	}

	index := len(g.tree.Segments)
	g.tree.Segments = append(g.tree.Segments, Segment{
		Index:     index,
		Parent:    parent,
		Start:     start,
		Direction: direction,
		Length:    length,
		Radius:    radius,
		Level:     level,
	})

	tip := start.Add(direction.MulScalar(length))
	children := 2 + g.rng.Intn(2)
	for i := 0; i < children; i++ {
		jitter := mat32.V3(
			g.uniform(-branchSpread, branchSpread),
			g.uniform(-branchSpread, branchSpread),
			g.uniform(liftMin, liftMax),
		)
		g.branch(tip, direction.Add(jitter).Normal(), length*lengthDecay, radius*radiusDecay, level-1, index)
	}
}

func (g *generator) foliage(anchor mat32.Vec3, parent int) FoliageCluster {
	cluster := FoliageCluster{
		Anchor: anchor,
		Parent: parent,
		Leaves: make([]Leaf, 0, leavesPerCluster),
	}
	for i := 0; i < leavesPerCluster; i++ {
		offset := mat32.V3(
			g.uniform(-leafJitter, leafJitter),
			g.uniform(-leafJitter, leafJitter),
			g.uniform(-leafJitter, leafJitter),
		)
		rotation := mat32.V3(
			g.uniform(0, leafRotationMax),
			g.uniform(0, leafRotationMax),
			g.uniform(0, leafRotationMax),
		)
		cluster.Leaves = append(cluster.Leaves, Leaf{Offset: offset, Rotation: rotation})
	}
	if g.rng.Float32() < fruitChance {
		cluster.Fruit = &Fruit{
			Offset: mat32.V3(0, 0, -0.3),
			Scale:  mat32.V3(1, 0.8, 1.2),
		}
	}
	return cluster
}
