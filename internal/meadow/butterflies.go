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
	butterflyRange  = 10
	butterflyHeight = 3
	bodyRadius      = 0.03
	bodyLength      = 0.3

	wingFlapStride   = 3
	flightStride     = 10
	driftSpeedMax    = 0.04
	wobbleFrequency  = 0.1
	wobbleRadius     = 0.5
	bobFrequency     = 0.3
	bobAmplitude     = 0.2
	headingAmplitude = 0.5
)

// wingPanel describes one of the four wing quarters in the body's frame.
type wingPanel struct {
	location mat32.Vec3
	scale    mat32.Vec3
	rotation mat32.Vec3
}

var leftWingPanels = []wingPanel{
	{mat32.V3(-0.25, 0.1, 0.05), mat32.V3(0.3, 0.4, 1), mat32.V3(0, mat32.DegToRad(20), mat32.DegToRad(20))},
	{mat32.V3(-0.15, -0.2, 0), mat32.V3(0.25, 0.3, 1), mat32.V3(0, mat32.DegToRad(10), mat32.DegToRad(-30))},
}

var rightWingPanels = []wingPanel{
	{mat32.V3(0.25, 0.1, 0.05), mat32.V3(0.3, 0.4, 1), mat32.V3(0, mat32.DegToRad(-20), mat32.DegToRad(-20))},
	{mat32.V3(0.15, -0.2, 0), mat32.V3(0.25, 0.3, 1), mat32.V3(0, mat32.DegToRad(-10), mat32.DegToRad(30))},
}

func (a *Assembler) buildButterflies(b scene.Builder, sampler *spatial.Sampler) error {
	for i := 0; i < a.cfg.ButterflyCount; i++ {
		if err := a.buildButterfly(b, sampler, i); err != nil {
			return fmt.Errorf("butterfly %d: %w", i, err)
		}
	}
	return nil
}

// buildButterfly assembles one butterfly: a slim horizontal body with four
// wing panels parented to it, then the flap and flight animations.
func (a *Assembler) buildButterfly(b scene.Builder, sampler *spatial.Sampler, index int) error {
	pos, err := sampler.Sample(spatial.Square(butterflyRange).WithZ(butterflyHeight, butterflyHeight), 0)
	if err != nil {
		return err
	}

	body, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:   scene.KindCylinder,
		Radius: bodyRadius,
		Depth:  bodyLength,
	})
	if err != nil {
		return err
	}
	bodyMat := palette.Principled(fmt.Sprintf("BugBody_%d", index), palette.RGB(0.05, 0.05, 0.05), 0.8, 0)
	if _, err := b.AssignMaterial(body, bodyMat); err != nil {
		return err
	}
	bodyRotation := mat32.V3(mat32.DegToRad(90), 0, 0)
	if err := b.SetTransform(body, pos, bodyRotation, mat32.V3(1, 1, 1)); err != nil {
		return err
	}

	wingMat := palette.Principled(fmt.Sprintf("BugWing_%d", index), palette.DeepColor(a.rng), 0.2, 0)
	left := make([]scene.ObjectID, 0, len(leftWingPanels))
	for _, panel := range leftWingPanels {
		id, err := a.buildWingPanel(b, body, wingMat, panel)
		if err != nil {
			return err
		}
		left = append(left, id)
	}
	right := make([]scene.ObjectID, 0, len(rightWingPanels))
	for _, panel := range rightWingPanels {
		id, err := a.buildWingPanel(b, body, wingMat, panel)
		if err != nil {
			return err
		}
		right = append(right, id)
	}

	if err := a.animateWings(b, left, leftWingPanels, -60, 10); err != nil {
		return err
	}
	if err := a.animateWings(b, right, rightWingPanels, 60, -10); err != nil {
		return err
	}
	return a.animateFlight(b, body, pos)
}

func (a *Assembler) buildWingPanel(b scene.Builder, body scene.ObjectID, mat scene.MaterialSpec, panel wingPanel) (scene.ObjectID, error) {
	id, err := b.CreatePrimitive(scene.PrimitiveSpec{Kind: scene.KindPlane, Size: 1})
	if err != nil {
		return scene.NoObject, err
	}
	if _, err := b.AssignMaterial(id, mat); err != nil {
		return scene.NoObject, err
	}
	if err := b.SetParent(id, body); err != nil {
		return scene.NoObject, err
	}
	if err := b.SetTransform(id, panel.location, panel.rotation, panel.scale); err != nil {
		return scene.NoObject, err
	}
	return id, nil
}

// animateWings flaps the panels between two fixed Y extremes: the down
// beat on the sampled frame and the up beat two frames later. Each panel
// keeps its own static Z splay in every key, so the wings stay fanned
// while they beat.
func (a *Assembler) animateWings(b scene.Builder, wings []scene.ObjectID, panels []wingPanel, downDeg, upDeg float32) error {
	down := mat32.DegToRad(downDeg)
	up := mat32.DegToRad(upDeg)
	for _, f := range orbit.Frames(1, a.cfg.TotalFrames, wingFlapStride) {
		for i, wing := range wings {
			splay := panels[i].rotation.Z
			if err := b.SetKeyframe(wing, scene.ChannelRotation, f, mat32.V3(0, down, splay)); err != nil {
				return err
			}
			if err := b.SetKeyframe(wing, scene.ChannelRotation, f+2, mat32.V3(0, up, splay)); err != nil {
				return err
			}
		}
	}
	return nil
}

// animateFlight drifts the body linearly while wobbling it on an ellipse,
// bobbing it vertically, and steering the heading with the wobble.
func (a *Assembler) animateFlight(b scene.Builder, body scene.ObjectID, start mat32.Vec3) error {
	speedX := a.uniform(-driftSpeedMax, driftSpeedMax)
	speedY := a.uniform(-driftSpeedMax, driftSpeedMax)

	for _, f := range orbit.Frames(1, a.cfg.TotalFrames, flightStride) {
		frame := float32(f)
		t := frame * wobbleFrequency
		loc := mat32.V3(
			start.X+speedX*frame+mat32.Sin(t)*wobbleRadius,
			start.Y+speedY*frame+mat32.Cos(t)*wobbleRadius,
			start.Z+mat32.Sin(frame*bobFrequency)*bobAmplitude,
		)
		if err := b.SetKeyframe(body, scene.ChannelLocation, f, loc); err != nil {
			return err
		}
		heading := mat32.V3(mat32.DegToRad(90), 0, mat32.Cos(t)*headingAmplitude)
		if err := b.SetKeyframe(body, scene.ChannelRotation, f, heading); err != nil {
			return err
		}
	}
	return nil
}
