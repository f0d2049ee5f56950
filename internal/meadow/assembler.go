// Package meadow assembles the fruit-tree meadow scene: a grassy ground
// plane, one fractal mango tree, a ring of swaying flowers, and a handful
// of butterflies, all keyframed over a fixed frame range.
package meadow

import (
	"fmt"
	"log/slog"
	"math/rand"

	"goki.dev/mat32/v2"

	"scenes-server/internal/palette"
	"scenes-server/internal/scene"
	"scenes-server/internal/spatial"
)

const (
	groundSize = 40

	sunEnergy     = 4.5
	sunAngle      = 0.5
	cameraTiltDeg = 75
)

// Config holds the per-run knobs of the meadow scene.
type Config struct {
	FlowerCount          int
	ButterflyCount       int
	TotalFrames          int
	MaxPlacementAttempts int
}

// DefaultConfig returns the stock meadow: twenty flowers, eight
// butterflies, 250 frames of animation.
func DefaultConfig() Config {
	return Config{
		FlowerCount:          20,
		ButterflyCount:       8,
		TotalFrames:          250,
		MaxPlacementAttempts: spatial.DefaultMaxAttempts,
	}
}

// Assembler drives a scene builder through the full meadow construction.
// It owns the run's random stream, so one assembler serves one generation
// pass.
type Assembler struct {
	cfg    Config
	rng    *rand.Rand
	logger *slog.Logger
}

func NewAssembler(cfg Config, rng *rand.Rand, logger *slog.Logger) *Assembler {
	return &Assembler{cfg: cfg, rng: rng, logger: logger}
}

// Assemble builds the entire scene in one pass: stage, render settings,
// ground, tree, flowers, butterflies.
func (a *Assembler) Assemble(builder scene.Builder) error {
	logger := a.logger.With("component", "meadow_assembler", "operation", "assemble")
	logger.Debug("Assembling meadow scene",
		"flowers", a.cfg.FlowerCount,
		"butterflies", a.cfg.ButterflyCount,
		"frames", a.cfg.TotalFrames)

	if err := a.setupStage(builder); err != nil {
		return fmt.Errorf("failed to set up stage: %w", err)
	}
	if err := a.configureRender(builder); err != nil {
		return fmt.Errorf("failed to configure render: %w", err)
	}
	if err := a.buildGround(builder); err != nil {
		return fmt.Errorf("failed to build ground: %w", err)
	}
	if err := a.buildTree(builder); err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}

	sampler := spatial.NewSampler(a.rng, a.cfg.MaxPlacementAttempts)
	if err := a.buildFlowers(builder, sampler); err != nil {
		return fmt.Errorf("failed to build flowers: %w", err)
	}
	if err := a.buildButterflies(builder, sampler); err != nil {
		return fmt.Errorf("failed to build butterflies: %w", err)
	}

	logger.Debug("Meadow scene assembled")
	return nil
}

func (a *Assembler) uniform(min, max float32) float32 {
	return min + a.rng.Float32()*(max-min)
}

// setupStage places the sun lamp and the fixed framing camera.
func (a *Assembler) setupStage(b scene.Builder) error {
	sun, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:      scene.KindLight,
		LightType: "SUN",
		Energy:    sunEnergy,
		Angle:     sunAngle,
	})
	if err != nil {
		return err
	}
	if err := b.SetTransform(sun, mat32.V3(10, 10, 20), mat32.Vec3{}, mat32.V3(1, 1, 1)); err != nil {
		return err
	}

	camera, err := b.CreatePrimitive(scene.PrimitiveSpec{Kind: scene.KindCamera})
	if err != nil {
		return err
	}
	return b.SetTransform(camera,
		mat32.V3(0, -28, 10),
		mat32.V3(mat32.DegToRad(cameraTiltDeg), 0, 0),
		mat32.V3(1, 1, 1))
}

func (a *Assembler) configureRender(b scene.Builder) error {
	return b.SetSceneConfig(scene.RenderConfig{
		FrameStart:      1,
		FrameEnd:        a.cfg.TotalFrames,
		ResolutionX:     1920,
		ResolutionY:     1080,
		FileFormat:      "FFMPEG",
		ContainerFormat: "MPEG4",
		Codec:           "H264",
		OutputPath:      "//Mango_Tree_Scene",
	})
}

// buildGround lays the dirt plane and covers it with interpolated-children
// grass hair drawn from the second material slot.
func (a *Assembler) buildGround(b scene.Builder) error {
	ground, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind: scene.KindPlane,
		Name: "Grassy_Ground",
		Size: groundSize,
	})
	if err != nil {
		return err
	}
	if _, err := b.AssignMaterial(ground, palette.Principled("DirtMat", palette.RGB(0.05, 0.03, 0.01), 0.9, 0)); err != nil {
		return err
	}
	if _, err := b.AssignMaterial(ground, palette.Principled("GrassMat", palette.RGB(0.02, 0.25, 0.05), 0.4, 0.1)); err != nil {
		return err
	}
	return b.SetParticleHair(ground, scene.HairSettings{
		Count:          3000,
		Length:         0.6,
		Steps:          3,
		MaterialSlot:   2,
		BrownianFactor: 0.1,
		ChildType:      "INTERPOLATED",
		ChildCount:     60,
		ClumpFactor:    0.6,
		ClumpShape:     -0.5,
	})
}
