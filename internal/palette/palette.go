// Package palette produces the colors and material recipes shared by the
// scene assemblers.
package palette

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"scenes-server/internal/scene"
)

// RGB returns an opaque color.
func RGB(r, g, b float32) scene.RGBA {
	return scene.RGBA{R: r, G: g, B: b, A: 1}
}

// DeepColor draws a saturated color: hue uniform over the wheel, full
// saturation, value in [0.5,0.9). Petals and butterfly wings use it so no
// two look alike.
func DeepColor(rng *rand.Rand) scene.RGBA {
	hue := rng.Float64() * 360
	value := 0.5 + rng.Float64()*0.4
	c := colorful.Hsv(hue, 1.0, value)
	return scene.RGBA{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: 1}
}

// Principled returns a surface material spec.
func Principled(name string, color scene.RGBA, roughness, coat float32) scene.MaterialSpec {
	return scene.MaterialSpec{
		Name:      name,
		Kind:      scene.MaterialPrincipled,
		Color:     color,
		Roughness: roughness,
		Coat:      coat,
	}
}

// Emission returns an emissive material spec.
func Emission(name string, color scene.RGBA, strength float32) scene.MaterialSpec {
	return scene.MaterialSpec{
		Name:     name,
		Kind:     scene.MaterialEmission,
		Color:    color,
		Strength: strength,
	}
}
