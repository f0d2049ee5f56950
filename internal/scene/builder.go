package scene

import (
	"errors"

	"goki.dev/mat32/v2"
)

var (
	ErrUnknownObject  = errors.New("unknown object handle")
	ErrUnknownKind    = errors.New("unknown primitive kind")
	ErrUnknownChannel = errors.New("unknown animation channel")
	ErrSelfParent     = errors.New("object cannot be its own parent")
	ErrParentCycle    = errors.New("parenting would create a cycle")
	ErrNoMaterial     = errors.New("object has no material to animate")
	ErrNegativeFrame  = errors.New("keyframe frame must not be negative")
	ErrHairOnNonMesh  = errors.New("hair requires a mesh primitive")
)

// Builder receives the stream of scene-construction operations emitted by
// the assemblers. Implementations must treat the stream as append-only;
// nothing is ever read back.
type Builder interface {
	// CreatePrimitive adds an object and returns its handle.
	CreatePrimitive(spec PrimitiveSpec) (ObjectID, error)
	// AssignMaterial registers the material if its name is new, appends it
	// to the object's material slots, and returns the material's handle.
	AssignMaterial(obj ObjectID, mat MaterialSpec) (MaterialID, error)
	// SetParent attaches child to parent. Subsequent transforms on the
	// child are interpreted in the parent's space.
	SetParent(child, parent ObjectID) error
	// SetTransform replaces the object's location, rotation, and scale.
	SetTransform(obj ObjectID, location, rotation, scale mat32.Vec3) error
	// SetKeyframe records one animation key. Vector channels use all three
	// components of value; emission_strength reads value.X.
	SetKeyframe(obj ObjectID, channel Channel, frame int, value mat32.Vec3) error
	// SetParticleHair attaches a hair particle system to a mesh object.
	SetParticleHair(obj ObjectID, hair HairSettings) error
	// SetSceneConfig sets the scene-wide render configuration.
	SetSceneConfig(cfg RenderConfig) error
}

var meshKinds = map[PrimitiveKind]bool{
	KindSphere:   true,
	KindCylinder: true,
	KindPlane:    true,
	KindTorus:    true,
}

var validKinds = map[PrimitiveKind]bool{
	KindSphere:      true,
	KindCylinder:    true,
	KindPlane:       true,
	KindTorus:       true,
	KindCircleCurve: true,
	KindText:        true,
	KindCamera:      true,
	KindLight:       true,
}

var validChannels = map[Channel]bool{
	ChannelLocation:         true,
	ChannelRotation:         true,
	ChannelScale:            true,
	ChannelEmissionStrength: true,
}
