package solar

import (
	"scenes-server/internal/palette"
	"scenes-server/internal/scene"
)

// BodyKind tags the celestial body variants. The behavioral differences
// are small and enumerable, so a tag plus optional fields replaces a type
// hierarchy.
type BodyKind string

const (
	BodyStar         BodyKind = "star"
	BodyPlanet       BodyKind = "planet"
	BodyRingedPlanet BodyKind = "ringed_planet"
)

// RingParams sizes a ringed planet's torus.
type RingParams struct {
	MajorRadius float32    `json:"major_radius"`
	MinorRadius float32    `json:"minor_radius"`
	Color       scene.RGBA `json:"color"`
}

// Body describes one celestial body. OrbitRadius zero marks the central
// star, which neither moves nor carries an orbit ring. EmissionStrength
// applies to stars, Ring to ringed planets.
type Body struct {
	Kind             BodyKind    `json:"kind"`
	Name             string      `json:"name"`
	Size             float32     `json:"size"`
	Color            scene.RGBA  `json:"color"`
	OrbitRadius      float32     `json:"orbit_radius"`
	OrbitSpeed       float32     `json:"orbit_speed"`
	EmissionStrength float32     `json:"emission_strength,omitempty"`
	Ring             *RingParams `json:"ring,omitempty"`
}

func planet(name string, size float32, color scene.RGBA, orbitRadius, orbitSpeed float32) Body {
	return Body{
		Kind:        BodyPlanet,
		Name:        name,
		Size:        size,
		Color:       color,
		OrbitRadius: orbitRadius,
		OrbitSpeed:  orbitSpeed,
	}
}

// DefaultCatalog returns the stock system: the sun and nine planets from
// Mercury out to Pluto, with Saturn ringed. Orbit speeds shrink outward so
// inner planets complete more of their revolution over the animation.
func DefaultCatalog() []Body {
	saturn := planet("Saturn", 1.9, palette.RGB(0.9, 0.8, 0.5), 24, 0.5)
	saturn.Kind = BodyRingedPlanet
	saturn.Ring = &RingParams{MajorRadius: 3.2, MinorRadius: 0.15, Color: palette.RGB(0.8, 0.7, 0.5)}

	return []Body{
		{
			Kind:             BodyStar,
			Name:             "Sun",
			Size:             3.0,
			Color:            palette.RGB(1.0, 0.9, 0.2),
			EmissionStrength: 10,
		},
		planet("Mercury", 0.4, palette.RGB(0.6, 0.6, 0.6), 5, 0.9),
		planet("Venus", 0.9, palette.RGB(0.9, 0.7, 0.3), 7, 0.8),
		planet("Earth", 1.0, palette.RGB(0.2, 0.5, 1.0), 10, 0.7),
		planet("Mars", 0.5, palette.RGB(0.9, 0.3, 0.2), 13, 0.65),
		planet("Jupiter", 2.2, palette.RGB(0.8, 0.6, 0.4), 18, 0.55),
		saturn,
		planet("Uranus", 1.4, palette.RGB(0.4, 0.8, 0.9), 30, 0.45),
		planet("Neptune", 1.4, palette.RGB(0.3, 0.4, 0.9), 36, 0.4),
		planet("Pluto", 0.3, palette.RGB(0.7, 0.6, 0.5), 42, 0.35),
	}
}
