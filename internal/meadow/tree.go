package meadow

import (
	"fmt"

	"goki.dev/mat32/v2"

	"scenes-server/internal/orbit"
	"scenes-server/internal/palette"
	"scenes-server/internal/scene"
	"scenes-server/internal/tree"
)

const (
	leafSize    = 0.35
	fruitRadius = 0.15

	treeSwayStride    = 5
	treeSwayFrequency = 0.04
	treeSwayAmplitude = 0.03
)

// buildTree grows one skeleton and emits it: a cylinder per segment,
// parented up the branch hierarchy with parent-relative transforms, leaf
// planes and the occasional mango at the terminal clusters, and a slow
// cumulative sway keyed on the trunk.
func (a *Assembler) buildTree(b scene.Builder) error {
	skeleton := tree.Generate(a.rng, tree.DefaultParams())
	a.logger.Debug("Generated tree skeleton",
		"segments", len(skeleton.Segments),
		"clusters", len(skeleton.Clusters))

	woodMat := palette.Principled("WoodMat", palette.RGB(0.05, 0.03, 0.02), 0.9, 0)
	leafMat := palette.Principled("LeafMat", palette.RGB(0.8, 0.2, 0.05), 0.5, 0.2)
	fruitMat := palette.Principled("FruitMat", palette.RGB(1.0, 0.8, 0.1), 0.3, 0.5)

	ids := make([]scene.ObjectID, len(skeleton.Segments))
	var rootRotation mat32.Vec3
	for i := range skeleton.Segments {
		seg := &skeleton.Segments[i]

		name := fmt.Sprintf("Tree_Lvl%d", seg.Level)
		if seg.Parent < 0 {
			name = "Tree_Root"
		}
		id, err := b.CreatePrimitive(scene.PrimitiveSpec{
			Kind:   scene.KindCylinder,
			Name:   name,
			Radius: seg.Radius,
			Depth:  seg.Length,
		})
		if err != nil {
			return err
		}
		ids[i] = id
		if _, err := b.AssignMaterial(id, woodMat); err != nil {
			return err
		}

		var parent *tree.Segment
		if seg.Parent >= 0 {
			parent = &skeleton.Segments[seg.Parent]
			if err := b.SetParent(id, ids[seg.Parent]); err != nil {
				return err
			}
		}
		loc, rot := seg.LocalPose(parent)
		if seg.Parent < 0 {
			rootRotation = rot
		}
		if err := b.SetTransform(id, loc, rot, mat32.V3(1, 1, 1)); err != nil {
			return err
		}
	}

	for i := range skeleton.Clusters {
		if err := a.buildFoliage(b, skeleton, &skeleton.Clusters[i], ids, leafMat, fruitMat); err != nil {
			return err
		}
	}

	if len(ids) == 0 {
		return nil
	}
	return a.animateTreeSway(b, ids[0], rootRotation)
}

// buildFoliage scatters the cluster's leaf planes around the anchor and
// hangs the fruit, both parented to the carrying branch.
func (a *Assembler) buildFoliage(b scene.Builder, skeleton *tree.Tree, cluster *tree.FoliageCluster, ids []scene.ObjectID, leafMat, fruitMat scene.MaterialSpec) error {
	var parent *tree.Segment
	parentID := scene.NoObject
	if cluster.Parent >= 0 {
		parent = &skeleton.Segments[cluster.Parent]
		parentID = ids[cluster.Parent]
	}

	place := func(id scene.ObjectID, world mat32.Vec3) (mat32.Vec3, error) {
		if parent == nil {
			return world, nil
		}
		if err := b.SetParent(id, parentID); err != nil {
			return mat32.Vec3{}, err
		}
		return parent.ToLocal(world), nil
	}

	for _, leaf := range cluster.Leaves {
		id, err := b.CreatePrimitive(scene.PrimitiveSpec{Kind: scene.KindPlane, Size: leafSize})
		if err != nil {
			return err
		}
		if _, err := b.AssignMaterial(id, leafMat); err != nil {
			return err
		}
		loc, err := place(id, cluster.Anchor.Add(leaf.Offset))
		if err != nil {
			return err
		}
		if err := b.SetTransform(id, loc, leaf.Rotation, mat32.V3(1, 1, 1)); err != nil {
			return err
		}
	}

	if cluster.Fruit == nil {
		return nil
	}
	id, err := b.CreatePrimitive(scene.PrimitiveSpec{
		Kind:   scene.KindSphere,
		Name:   "Mango",
		Radius: fruitRadius,
	})
	if err != nil {
		return err
	}
	if _, err := b.AssignMaterial(id, fruitMat); err != nil {
		return err
	}
	loc, err := place(id, cluster.Anchor.Add(cluster.Fruit.Offset))
	if err != nil {
		return err
	}
	return b.SetTransform(id, loc, mat32.Vec3{}, cluster.Fruit.Scale)
}

// animateTreeSway keys a low-amplitude sinusoid on the trunk rotation.
// Each sample adds onto the previous one rather than replacing it, so the
// tree drifts slowly instead of oscillating around rest.
func (a *Assembler) animateTreeSway(b scene.Builder, root scene.ObjectID, rootRotation mat32.Vec3) error {
	sway := rootRotation.X
	for _, f := range orbit.Frames(1, a.cfg.TotalFrames, treeSwayStride) {
		sway += mat32.Sin(float32(f)*treeSwayFrequency) * treeSwayAmplitude
		key := mat32.V3(sway, rootRotation.Y, rootRotation.Z)
		if err := b.SetKeyframe(root, scene.ChannelRotation, f, key); err != nil {
			return err
		}
	}
	return nil
}
