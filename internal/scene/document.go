package scene

import (
	"fmt"

	"goki.dev/mat32/v2"
)

// DocumentBuilder records every operation into a Document. It validates
// handles and parameters but performs no geometry work of its own, so a
// finished document replays into any host in one pass.
type DocumentBuilder struct {
	doc      Document
	matIndex map[string]MaterialID
}

// NewDocumentBuilder returns a builder recording a document with the given
// scene name.
func NewDocumentBuilder(name string) *DocumentBuilder {
	return &DocumentBuilder{
		doc:      Document{Name: name},
		matIndex: map[string]MaterialID{},
	}
}

// Document returns the recorded document.
func (b *DocumentBuilder) Document() *Document {
	return &b.doc
}

func (b *DocumentBuilder) object(id ObjectID) (*Object, error) {
	if id < 0 || int(id) >= len(b.doc.Objects) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	return &b.doc.Objects[id], nil
}

func (b *DocumentBuilder) CreatePrimitive(spec PrimitiveSpec) (ObjectID, error) {
	if !validKinds[spec.Kind] {
		return NoObject, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
	id := ObjectID(len(b.doc.Objects))
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("%s_%d", spec.Kind, id)
	}
	b.doc.Objects = append(b.doc.Objects, Object{
		ID:        id,
		Name:      name,
		Primitive: spec,
		Parent:    NoObject,
		Transform: Transform{Scale: mat32.V3(1, 1, 1)},
	})
	return id, nil
}

func (b *DocumentBuilder) AssignMaterial(obj ObjectID, mat MaterialSpec) (MaterialID, error) {
	o, err := b.object(obj)
	if err != nil {
		return NoMaterial, err
	}
	id, ok := b.matIndex[mat.Name]
	if !ok {
		id = MaterialID(len(b.doc.Materials))
		b.doc.Materials = append(b.doc.Materials, mat)
		b.matIndex[mat.Name] = id
	}
	o.Materials = append(o.Materials, id)
	return id, nil
}

func (b *DocumentBuilder) SetParent(child, parent ObjectID) error {
	if child == parent {
		return fmt.Errorf("%w: %d", ErrSelfParent, child)
	}
	c, err := b.object(child)
	if err != nil {
		return err
	}
	if _, err := b.object(parent); err != nil {
		return err
	}
	// Walking up from the parent must never reach the child.
	for id := parent; id != NoObject; id = b.doc.Objects[id].Parent {
		if id == child {
			return fmt.Errorf("%w: %d -> %d", ErrParentCycle, child, parent)
		}
	}
	c.Parent = parent
	return nil
}

func (b *DocumentBuilder) SetTransform(obj ObjectID, location, rotation, scale mat32.Vec3) error {
	o, err := b.object(obj)
	if err != nil {
		return err
	}
	o.Transform = Transform{Location: location, Rotation: rotation, Scale: scale}
	return nil
}

func (b *DocumentBuilder) SetKeyframe(obj ObjectID, channel Channel, frame int, value mat32.Vec3) error {
	o, err := b.object(obj)
	if err != nil {
		return err
	}
	if !validChannels[channel] {
		return fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
	if frame < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeFrame, frame)
	}
	if channel == ChannelEmissionStrength && len(o.Materials) == 0 {
		return fmt.Errorf("%w: object %d", ErrNoMaterial, obj)
	}
	o.Keys = append(o.Keys, Keyframe{Frame: frame, Channel: channel, Value: value})
	return nil
}

func (b *DocumentBuilder) SetParticleHair(obj ObjectID, hair HairSettings) error {
	o, err := b.object(obj)
	if err != nil {
		return err
	}
	if !meshKinds[o.Primitive.Kind] {
		return fmt.Errorf("%w: %q", ErrHairOnNonMesh, o.Primitive.Kind)
	}
	h := hair
	o.Hair = &h
	return nil
}

func (b *DocumentBuilder) SetSceneConfig(cfg RenderConfig) error {
	b.doc.Config = cfg
	return nil
}
