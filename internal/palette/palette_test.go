package palette

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenes-server/internal/scene"
)

func TestDeepColorStaysSaturated(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		c := DeepColor(rng)

		max := c.R
		if c.G > max {
			max = c.G
		}
		if c.B > max {
			max = c.B
		}
		min := c.R
		if c.G < min {
			min = c.G
		}
		if c.B < min {
			min = c.B
		}

		// At full saturation the value is the largest component and the
		// smallest component is zero.
		assert.GreaterOrEqual(t, max, float32(0.5))
		assert.Less(t, max, float32(0.9))
		assert.InDelta(t, 0, min, 1e-6)
		assert.Equal(t, float32(1), c.A)
	}
}

func TestDeepColorDeterministic(t *testing.T) {
	first := rand.New(rand.NewSource(42))
	second := rand.New(rand.NewSource(42))

	for i := 0; i < 16; i++ {
		assert.Equal(t, DeepColor(first), DeepColor(second))
	}
}

func TestPrincipled(t *testing.T) {
	mat := Principled("LeafMat", RGB(0.8, 0.2, 0.05), 0.5, 0.2)

	require.Equal(t, scene.MaterialPrincipled, mat.Kind)
	assert.Equal(t, "LeafMat", mat.Name)
	assert.Equal(t, float32(0.5), mat.Roughness)
	assert.Equal(t, float32(0.2), mat.Coat)
	assert.Zero(t, mat.Strength)
}

func TestEmission(t *testing.T) {
	mat := Emission("SunMat", RGB(1.0, 0.9, 0.2), 10)

	require.Equal(t, scene.MaterialEmission, mat.Kind)
	assert.Equal(t, float32(10), mat.Strength)
	assert.Zero(t, mat.Roughness)
}
