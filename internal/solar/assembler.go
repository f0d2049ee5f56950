// Package solar assembles the animated solar-system scene: an emissive
// sun, planets sweeping circular orbits inside glowing orbit rings, a
// twinkling background star field, and a camera circling the whole system.
package solar

import (
	"fmt"
	"log/slog"
	"math/rand"

	"goki.dev/mat32/v2"

	"scenes-server/internal/orbit"
	"scenes-server/internal/palette"
	"scenes-server/internal/scene"
	"scenes-server/internal/spatial"
)

const (
	orbitKeyStride = 5
	twinkleStride  = 10
	cameraStride   = 5

	ringBevelDepth      = 0.08
	ringBevelResolution = 8

	labelSize    = 0.7
	labelOffsetZ = 2

	planetRoughness = 0.6

	starFieldHalf   = 80
	starFieldHeight = 40
	starMinDistance = 50
	starRadius      = 0.12
	starStrengthMin = 2
	starStrengthMax = 4

	cameraDistance = 60
	cameraHeight   = 30
	cameraTiltDeg  = 55
)

// Config holds the per-run knobs of the solar scene. Bodies defaults to
// the stock catalog when left nil.
type Config struct {
	Bodies       []Body
	StarAttempts int
	TotalFrames  int
}

// DefaultConfig returns the stock system over 150 frames with up to
// twenty background stars.
func DefaultConfig() Config {
	return Config{
		Bodies:       DefaultCatalog(),
		StarAttempts: 20,
		TotalFrames:  150,
	}
}

// Assembler drives a scene builder through the solar-system construction.
// One assembler serves one generation pass.
type Assembler struct {
	cfg    Config
	rng    *rand.Rand
	logger *slog.Logger
}

func NewAssembler(cfg Config, rng *rand.Rand, logger *slog.Logger) *Assembler {
	if cfg.Bodies == nil {
		cfg.Bodies = DefaultCatalog()
	}
	return &Assembler{cfg: cfg, rng: rng, logger: logger}
}

// Assemble builds the whole system: bodies in catalog order, then the
// star field, the orbiting camera, and finally the render settings.
func (a *Assembler) Assemble(builder scene.Builder) error {
	logger := a.logger.With("component", "solar_assembler", "operation", "assemble")
	logger.Debug("Assembling solar scene",
		"bodies", len(a.cfg.Bodies),
		"star_attempts", a.cfg.StarAttempts,
		"frames", a.cfg.TotalFrames)

	for i := range a.cfg.Bodies {
		if err := a.buildBody(builder, &a.cfg.Bodies[i]); err != nil {
			return fmt.Errorf("failed to build %s: %w", a.cfg.Bodies[i].Name, err)
		}
	}

	placed, err := a.buildStarField(builder)
	if err != nil {
		return fmt.Errorf("failed to build star field: %w", err)
	}
	if err := a.buildCamera(builder); err != nil {
		return fmt.Errorf("failed to build camera: %w", err)
	}
	if err := a.configureRender(builder); err != nil {
		return fmt.Errorf("failed to configure render: %w", err)
	}

	logger.Debug("Solar scene assembled", "stars_placed", placed)
	return nil
}

// buildBody dispatches on the body kind.
func (a *Assembler) buildBody(b scene.Builder, body *Body) error {
	switch body.Kind {
	case BodyStar:
		return a.buildSun(b, body)
	case BodyPlanet, BodyRingedPlanet:
		return a.buildPlanet(b, body)
	default:
		return fmt.Errorf("unknown body kind %q", body.Kind)
	}
}

// buildSun places the central star at the origin with an emissive surface.
// It neither moves nor carries an orbit ring.
func (a *Assembler) buildSun(b scene.Builder, body *Body) error {
	sun, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:   scene.KindSphere,
		Name:   body.Name,
		Radius: body.Size,
	})
	if err != nil {
		return err
	}
	mat := palette.Emission(body.Name+"_Mat", body.Color, body.EmissionStrength)
	_, err = b.AssignMaterial(sun, mat)
	return err
}

// buildPlanet lays the stationary orbit ring, places the planet sphere at
// its frame-zero position, attaches the name label (and ring torus for
// ringed planets), and keys the orbital sweep.
func (a *Assembler) buildPlanet(b scene.Builder, body *Body) error {
	if err := a.buildOrbitRing(b, body); err != nil {
		return err
	}

	planet, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:   scene.KindSphere,
		Name:   body.Name,
		Radius: body.Size,
	})
	if err != nil {
		return err
	}
	mat := palette.Principled(body.Name+"_Mat", body.Color, planetRoughness, 0)
	if _, err := b.AssignMaterial(planet, mat); err != nil {
		return err
	}
	start := orbit.PositionAt(0, a.cfg.TotalFrames, body.OrbitRadius, body.OrbitSpeed)
	if err := b.SetTransform(planet, start, mat32.Vec3{}, mat32.V3(1, 1, 1)); err != nil {
		return err
	}

	if body.Ring != nil {
		if err := a.buildRings(b, planet, body); err != nil {
			return err
		}
	}
	if err := a.buildLabel(b, planet, body.Name); err != nil {
		return err
	}
	return a.animateOrbit(b, planet, body)
}

// buildOrbitRing draws the faintly glowing circle marking the orbital
// path. Rings stay in place while the planet sweeps along them.
func (a *Assembler) buildOrbitRing(b scene.Builder, body *Body) error {
	ring, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:            scene.KindCircleCurve,
		Radius:          body.OrbitRadius,
		BevelDepth:      ringBevelDepth,
		BevelResolution: ringBevelResolution,
	})
	if err != nil {
		return err
	}
	_, err = b.AssignMaterial(ring, palette.Emission("Orbit_Mat", palette.RGB(0.3, 0.6, 1.0), 0.4))
	return err
}

// buildRings attaches the torus around a ringed planet, tilted flat into
// the orbital plane.
func (a *Assembler) buildRings(b scene.Builder, planet scene.ObjectID, body *Body) error {
	ring, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:        scene.KindTorus,
		MajorRadius: body.Ring.MajorRadius,
		MinorRadius: body.Ring.MinorRadius,
	})
	if err != nil {
		return err
	}
	mat := palette.Principled(body.Name+"_Rings_Mat", body.Ring.Color, planetRoughness, 0)
	if _, err := b.AssignMaterial(ring, mat); err != nil {
		return err
	}
	if err := b.SetParent(ring, planet); err != nil {
		return err
	}
	return b.SetTransform(ring,
		mat32.Vec3{},
		mat32.V3(mat32.DegToRad(90), 0, 0),
		mat32.V3(1, 1, 1))
}

// buildLabel floats the body's name above it, upright toward the camera
// and riding along as the body moves.
func (a *Assembler) buildLabel(b scene.Builder, owner scene.ObjectID, text string) error {
	label, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind: scene.KindText,
		Body: text,
		Size: labelSize,
	})
	if err != nil {
		return err
	}
	if err := b.SetParent(label, owner); err != nil {
		return err
	}
	return b.SetTransform(label,
		mat32.V3(0, 0, labelOffsetZ),
		mat32.V3(mat32.DegToRad(90), 0, 0),
		mat32.V3(1, 1, 1))
}

func (a *Assembler) animateOrbit(b scene.Builder, planet scene.ObjectID, body *Body) error {
	for _, f := range orbit.Frames(0, a.cfg.TotalFrames, orbitKeyStride) {
		pos := orbit.PositionAt(f, a.cfg.TotalFrames, body.OrbitRadius, body.OrbitSpeed)
		if err := b.SetKeyframe(planet, scene.ChannelLocation, f, pos); err != nil {
			return err
		}
	}
	return nil
}

// buildStarField scatters distant stars through a flat box around the
// system, skipping draws that land too close to the center. Skipped draws
// are not retried, so the field holds at most StarAttempts stars.
func (a *Assembler) buildStarField(b scene.Builder) (int, error) {
	sampler := spatial.NewSampler(a.rng, 1)
	bounds := spatial.Square(starFieldHalf).WithZ(-starFieldHeight, starFieldHeight)

	placed := 0
	for i := 0; i < a.cfg.StarAttempts; i++ {
		pos, ok := sampler.TrySample(bounds, starMinDistance)
		if !ok {
			continue
		}
		base := starStrengthMin + a.rng.Float32()*(starStrengthMax-starStrengthMin)
		if err := a.buildStar(b, placed, pos, base); err != nil {
			return placed, err
		}
		placed++
	}
	return placed, nil
}

func (a *Assembler) buildStar(b scene.Builder, index int, pos mat32.Vec3, base float32) error {
	star, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:   scene.KindSphere,
		Radius: starRadius,
	})
	if err != nil {
		return err
	}
	// Each star owns its material so the twinkle keys stay independent.
	mat := palette.Emission(fmt.Sprintf("Star_Mat_%d", index), palette.RGB(1, 1, 1), base)
	if _, err := b.AssignMaterial(star, mat); err != nil {
		return err
	}
	if err := b.SetTransform(star, pos, mat32.Vec3{}, mat32.V3(1, 1, 1)); err != nil {
		return err
	}

	for _, f := range orbit.Frames(0, a.cfg.TotalFrames, twinkleStride) {
		strength := orbit.Twinkle(a.rng, base)
		if err := b.SetKeyframe(star, scene.ChannelEmissionStrength, f, mat32.V3(strength, 0, 0)); err != nil {
			return err
		}
	}
	return nil
}

// buildCamera places the orbiting camera and keys one full revolution
// around the system.
func (a *Assembler) buildCamera(b scene.Builder) error {
	camera, err := b.CreatePrimitive(scene.PrimitiveSpec{Kind: scene.KindCamera})
	if err != nil {
		return err
	}
	pos, rot := orbit.CameraAt(0, a.cfg.TotalFrames, cameraDistance, cameraHeight, cameraTiltDeg)
	if err := b.SetTransform(camera, pos, rot, mat32.V3(1, 1, 1)); err != nil {
		return err
	}

	for _, f := range orbit.Frames(0, a.cfg.TotalFrames, cameraStride) {
		pos, rot := orbit.CameraAt(f, a.cfg.TotalFrames, cameraDistance, cameraHeight, cameraTiltDeg)
		if err := b.SetKeyframe(camera, scene.ChannelLocation, f, pos); err != nil {
			return err
		}
		if err := b.SetKeyframe(camera, scene.ChannelRotation, f, rot); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) configureRender(b scene.Builder) error {
	return b.SetSceneConfig(scene.RenderConfig{
		FrameStart: 1,
		FrameEnd:   a.cfg.TotalFrames,
		FPS:        12,
		Engine:     "CYCLES",
		Samples:    64,
		Background: palette.RGB(0, 0, 0.03),
	})
}
