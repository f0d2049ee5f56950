package meadow

import (
	"fmt"

	"goki.dev/mat32/v2"

	"scenes-server/internal/orbit"
	"scenes-server/internal/palette"
	"scenes-server/internal/scene"
	"scenes-server/internal/spatial"
)

const (
	flowerRange       = 12
	flowerAvoidRadius = 5
	stemRadius        = 0.06
	petalRadius       = 0.25
	petalRingRadius   = 0.4

	bloomFrame          = 50
	flowerSwayStride    = 10
	flowerSwayFrequency = 0.1
	flowerSwayAmplitude = 0.1
	flowerPhaseRangeMax = 10
)

// buildFlowers scatters the configured number of flowers across the
// meadow, each kept clear of the tree at the origin. A placement failure
// aborts the whole pass; the caller decides what to do with it.
func (a *Assembler) buildFlowers(b scene.Builder, sampler *spatial.Sampler) error {
	for i := 0; i < a.cfg.FlowerCount; i++ {
		if err := a.buildFlower(b, sampler, i); err != nil {
			return fmt.Errorf("flower %d: %w", i, err)
		}
	}
	return nil
}

// buildFlower grows one flower: a stem cylinder rising from the ground
// with a ring of flattened petal spheres at its top, then a pop-in scale
// and a phase-shifted sway.
func (a *Assembler) buildFlower(b scene.Builder, sampler *spatial.Sampler, index int) error {
	height := a.uniform(1.5, 2.5)
	petalCount := 6 + a.rng.Intn(7)

	pos, err := sampler.Sample(spatial.Square(flowerRange), flowerAvoidRadius)
	if err != nil {
		return err
	}

	stem, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:   scene.KindCylinder,
		Radius: stemRadius,
		Depth:  height,
	})
	if err != nil {
		return err
	}
	stemMat := palette.Principled(fmt.Sprintf("StemMat_%d", index), palette.RGB(0, 0.3, 0), 0.3, 0)
	if _, err := b.AssignMaterial(stem, stemMat); err != nil {
		return err
	}
	if err := b.SetTransform(stem, mat32.V3(pos.X, pos.Y, height/2), mat32.Vec3{}, mat32.V3(1, 1, 1)); err != nil {
		return err
	}

	for p := 0; p < petalCount; p++ {
		angle := 2 * mat32.Pi * float32(p) / float32(petalCount)
		petalMat := palette.Principled(
			fmt.Sprintf("PetalMat_%d_%d", index, p),
			palette.DeepColor(a.rng), 0.8, 0)

		petal, err := b.CreatePrimitive(scene.PrimitiveSpec{Kind: scene.KindSphere, Radius: petalRadius})
		if err != nil {
			return err
		}
		if _, err := b.AssignMaterial(petal, petalMat); err != nil {
			return err
		}
		if err := b.SetParent(petal, stem); err != nil {
			return err
		}
		// Petals circle the stem top in the stem's own frame.
		loc := mat32.V3(mat32.Cos(angle)*petalRingRadius, mat32.Sin(angle)*petalRingRadius, height/2)
		if err := b.SetTransform(petal, loc, mat32.V3(0, 0, angle), mat32.V3(1, 0.3, 1)); err != nil {
			return err
		}
	}

	return a.animateFlower(b, stem)
}

// animateFlower scales the flower in from nothing over the first fifty
// frames, then rocks it with a sinusoid offset by a per-flower phase.
func (a *Assembler) animateFlower(b scene.Builder, stem scene.ObjectID) error {
	if err := b.SetKeyframe(stem, scene.ChannelScale, 1, mat32.Vec3{}); err != nil {
		return err
	}
	if err := b.SetKeyframe(stem, scene.ChannelScale, bloomFrame, mat32.V3(1, 1, 1)); err != nil {
		return err
	}

	phase := a.uniform(0, flowerPhaseRangeMax)
	for _, f := range orbit.Frames(bloomFrame, a.cfg.TotalFrames, flowerSwayStride) {
		tilt := mat32.Sin(float32(f)*flowerSwayFrequency+phase) * flowerSwayAmplitude
		if err := b.SetKeyframe(stem, scene.ChannelRotation, f, mat32.V3(tilt, 0, 0)); err != nil {
			return err
		}
	}
	return nil
}
