package tree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/mat32/v2"
)

func TestGenerateStructure(t *testing.T) {
	tr := Generate(rand.New(rand.NewSource(1)), DefaultParams())

	root := tr.Root()
	require.NotNil(t, root)
	assert.Equal(t, 4, root.Level)
	assert.Equal(t, -1, root.Parent)
	assert.Equal(t, mat32.Vec3{}, root.Start)
	assert.Equal(t, float32(2.5), root.Length)
	assert.Equal(t, float32(0.3), root.Radius)

	// With two or three children per split over four levels, the segment
	// count lands in [1+2+4+8, 1+3+9+27] and the terminal cluster count in
	// [2^4, 3^4].
	assert.GreaterOrEqual(t, len(tr.Segments), 15)
	assert.LessOrEqual(t, len(tr.Segments), 40)
	assert.GreaterOrEqual(t, len(tr.Clusters), 16)
	assert.LessOrEqual(t, len(tr.Clusters), 81)
}

func TestGenerateDecayPerLevel(t *testing.T) {
	tr := Generate(rand.New(rand.NewSource(2)), DefaultParams())

	for _, seg := range tr.Segments {
		if seg.Parent < 0 {
			continue
		}
		parent := tr.Segments[seg.Parent]
		assert.InDelta(t, parent.Length*0.7, seg.Length, 1e-6)
		assert.InDelta(t, parent.Radius*0.6, seg.Radius, 1e-6)
		assert.Equal(t, parent.Level-1, seg.Level)

		// Children sprout from the parent's tip.
		tip := parent.Tip()
		assert.InDelta(t, tip.X, seg.Start.X, 1e-5)
		assert.InDelta(t, tip.Y, seg.Start.Y, 1e-5)
		assert.InDelta(t, tip.Z, seg.Start.Z, 1e-5)
	}
}

func TestGenerateDirectionsStayUnitAndUpward(t *testing.T) {
	tr := Generate(rand.New(rand.NewSource(3)), DefaultParams())

	for _, seg := range tr.Segments {
		assert.InDelta(t, 1, seg.Direction.Length(), 1e-5)
		// The lift jitter keeps every branch pointing at least slightly up.
		assert.Greater(t, seg.Direction.Z, float32(0))
	}
}

func TestGenerateFoliageOnlyAtTerminals(t *testing.T) {
	tr := Generate(rand.New(rand.NewSource(4)), DefaultParams())

	for _, seg := range tr.Segments {
		assert.Greater(t, seg.Level, 0)
	}
	for _, cluster := range tr.Clusters {
		require.GreaterOrEqual(t, cluster.Parent, 0)
		parent := tr.Segments[cluster.Parent]
		assert.Equal(t, 1, parent.Level)
		// The cluster sits on its parent's tip.
		tip := parent.Tip()
		assert.InDelta(t, tip.X, cluster.Anchor.X, 1e-5)
		assert.InDelta(t, tip.Y, cluster.Anchor.Y, 1e-5)
		assert.InDelta(t, tip.Z, cluster.Anchor.Z, 1e-5)
	}
}

func TestGenerateLeafJitterRanges(t *testing.T) {
	tr := Generate(rand.New(rand.NewSource(5)), DefaultParams())

	for _, cluster := range tr.Clusters {
		require.Len(t, cluster.Leaves, 15)
		for _, leaf := range cluster.Leaves {
			for _, c := range []float32{leaf.Offset.X, leaf.Offset.Y, leaf.Offset.Z} {
				assert.GreaterOrEqual(t, c, float32(-0.6))
				assert.LessOrEqual(t, c, float32(0.6))
			}
			for _, c := range []float32{leaf.Rotation.X, leaf.Rotation.Y, leaf.Rotation.Z} {
				assert.GreaterOrEqual(t, c, float32(0))
				assert.LessOrEqual(t, c, float32(3.14))
			}
		}
	}
}

func TestGenerateFruit(t *testing.T) {
	withFruit, total := 0, 0
	for seed := int64(1); seed <= 5; seed++ {
		tr := Generate(rand.New(rand.NewSource(seed)), DefaultParams())
		for _, cluster := range tr.Clusters {
			total++
			if cluster.Fruit != nil {
				withFruit++
				assert.Equal(t, mat32.V3(0, 0, -0.3), cluster.Fruit.Offset)
				assert.Equal(t, mat32.V3(1, 0.8, 1.2), cluster.Fruit.Scale)
			}
		}
	}

	// Roughly 30% of tips carry fruit; across five trees both outcomes
	// must occur.
	assert.Greater(t, withFruit, 0)
	assert.Less(t, withFruit, total)
}

func TestGenerateZeroLevels(t *testing.T) {
	p := DefaultParams()
	p.MaxLevel = 0
	p.Start = mat32.V3(1, 2, 3)

	tr := Generate(rand.New(rand.NewSource(6)), p)

	assert.Empty(t, tr.Segments)
	assert.Nil(t, tr.Root())
	require.Len(t, tr.Clusters, 1)
	assert.Equal(t, mat32.V3(1, 2, 3), tr.Clusters[0].Anchor)
	assert.Equal(t, -1, tr.Clusters[0].Parent)
}

func TestGenerateSingleLevel(t *testing.T) {
	p := DefaultParams()
	p.MaxLevel = 1

	tr := Generate(rand.New(rand.NewSource(7)), p)

	require.Len(t, tr.Segments, 1)
	assert.GreaterOrEqual(t, len(tr.Clusters), 2)
	assert.LessOrEqual(t, len(tr.Clusters), 3)
}

func TestGenerateDeterministic(t *testing.T) {
	first := Generate(rand.New(rand.NewSource(42)), DefaultParams())
	second := Generate(rand.New(rand.NewSource(42)), DefaultParams())

	assert.Equal(t, first, second)
}

func TestSegmentTipAndOrientation(t *testing.T) {
	seg := Segment{Start: mat32.V3(1, 0, 0), Direction: mat32.V3(0, 0, 1), Length: 2.5}

	assert.Equal(t, mat32.V3(1, 0, 2.5), seg.Tip())

	// An upright segment needs no rotation at all.
	q := seg.Orientation()
	rot := eulerXYZ(q)
	assert.InDelta(t, 0, rot.X, 1e-6)
	assert.InDelta(t, 0, rot.Y, 1e-6)
	assert.InDelta(t, 0, rot.Z, 1e-6)
}

func TestLocalPoseRoundTrip(t *testing.T) {
	tr := Generate(rand.New(rand.NewSource(9)), DefaultParams())

	up := mat32.V3(0, 0, 1)
	for _, seg := range tr.Segments {
		if seg.Parent < 0 {
			loc, rot := seg.LocalPose(nil)
			assert.Equal(t, seg.Start, loc)
			q := mat32.NewQuatEuler(rot)
			restored := up.MulQuat(q)
			assert.InDelta(t, seg.Direction.X, restored.X, 1e-4)
			assert.InDelta(t, seg.Direction.Y, restored.Y, 1e-4)
			assert.InDelta(t, seg.Direction.Z, restored.Z, 1e-4)
			continue
		}

		parent := tr.Segments[seg.Parent]
		loc, rot := seg.LocalPose(&parent)

		// Mapping the local pose back through the parent frame recovers
		// the world start and direction.
		parentQ := parent.Orientation()
		worldStart := parent.Start.Add(loc.MulQuat(parentQ))
		assert.InDelta(t, seg.Start.X, worldStart.X, 1e-4)
		assert.InDelta(t, seg.Start.Y, worldStart.Y, 1e-4)
		assert.InDelta(t, seg.Start.Z, worldStart.Z, 1e-4)

		localQ := mat32.NewQuatEuler(rot)
		worldQ := parentQ.Mul(localQ)
		worldDir := up.MulQuat(worldQ)
		assert.InDelta(t, seg.Direction.X, worldDir.X, 1e-4)
		assert.InDelta(t, seg.Direction.Y, worldDir.Y, 1e-4)
		assert.InDelta(t, seg.Direction.Z, worldDir.Z, 1e-4)
	}
}

func TestToLocalRoundTrip(t *testing.T) {
	seg := Segment{
		Start:     mat32.V3(0, 0, 2.5),
		Direction: mat32.V3(0.3, 0.2, 0.93).Normal(),
		Length:    1.75,
	}

	world := mat32.V3(0.4, -0.2, 3.1)
	local := seg.ToLocal(world)

	q := seg.Orientation()
	restored := seg.Start.Add(local.MulQuat(q))
	assert.InDelta(t, world.X, restored.X, 1e-5)
	assert.InDelta(t, world.Y, restored.Y, 1e-5)
	assert.InDelta(t, world.Z, restored.Z, 1e-5)
}

func TestGenerateNormalizesDirection(t *testing.T) {
	p := DefaultParams()
	p.Direction = mat32.V3(0, 0, 9)

	tr := Generate(rand.New(rand.NewSource(8)), p)

	require.NotNil(t, tr.Root())
	assert.InDelta(t, 1, tr.Root().Direction.Length(), 1e-6)
}
