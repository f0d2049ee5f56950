package scene

import (
	"encoding/json"
	"time"

	"goki.dev/mat32/v2"
)

// ObjectID is the handle returned by CreatePrimitive. Every later operation
// addresses the object through it; there is no ambient "active object".
type ObjectID int

// MaterialID is the handle of a registered material.
type MaterialID int

const (
	// NoObject marks the absence of a parent.
	NoObject ObjectID = -1
	// NoMaterial marks an unset material reference.
	NoMaterial MaterialID = -1
)

// PrimitiveKind enumerates the primitive shapes a builder can create.
type PrimitiveKind string

const (
	KindSphere      PrimitiveKind = "sphere"
	KindCylinder    PrimitiveKind = "cylinder"
	KindPlane       PrimitiveKind = "plane"
	KindTorus       PrimitiveKind = "torus"
	KindCircleCurve PrimitiveKind = "circle_curve"
	KindText        PrimitiveKind = "text"
	KindCamera      PrimitiveKind = "camera"
	KindLight       PrimitiveKind = "light"
)

// Channel identifies which animated property a keyframe targets.
// Vector channels use all three components; emission_strength is scalar
// and reads Value.X.
type Channel string

const (
	ChannelLocation         Channel = "location"
	ChannelRotation         Channel = "rotation"
	ChannelScale            Channel = "scale"
	ChannelEmissionStrength Channel = "emission_strength"
)

// PrimitiveSpec describes a primitive to create. Only the fields relevant
// to the kind are read; the rest stay zero.
type PrimitiveSpec struct {
	Kind PrimitiveKind `json:"kind"`
	Name string        `json:"name,omitempty"`

	Radius          float32 `json:"radius,omitempty"`           // sphere, cylinder, circle_curve
	Depth           float32 `json:"depth,omitempty"`            // cylinder
	Size            float32 `json:"size,omitempty"`             // plane, text
	MajorRadius     float32 `json:"major_radius,omitempty"`     // torus
	MinorRadius     float32 `json:"minor_radius,omitempty"`     // torus
	BevelDepth      float32 `json:"bevel_depth,omitempty"`      // circle_curve
	BevelResolution int     `json:"bevel_resolution,omitempty"` // circle_curve
	Body            string  `json:"body,omitempty"`             // text
	LightType       string  `json:"light_type,omitempty"`       // light
	Energy          float32 `json:"energy,omitempty"`           // light
	Angle           float32 `json:"angle,omitempty"`            // light
}

// RGBA is a color with components in [0,1].
type RGBA struct {
	R float32 `json:"r"`
	G float32 `json:"g"`
	B float32 `json:"b"`
	A float32 `json:"a"`
}

// MaterialKind distinguishes surface materials from emissive ones.
type MaterialKind string

const (
	MaterialPrincipled MaterialKind = "principled"
	MaterialEmission   MaterialKind = "emission"
)

// MaterialSpec describes a material. Builders dedupe by Name, so assigning
// the same spec to many objects shares one material.
type MaterialSpec struct {
	Name      string       `json:"name"`
	Kind      MaterialKind `json:"kind"`
	Color     RGBA         `json:"color"`
	Roughness float32      `json:"roughness,omitempty"`
	Coat      float32      `json:"coat,omitempty"`
	Strength  float32      `json:"strength,omitempty"` // emission only
}

// Transform is the static placement of an object. For parented objects it
// is expressed in the parent's space; top-level objects are world-space.
type Transform struct {
	Location mat32.Vec3 `json:"location"`
	Rotation mat32.Vec3 `json:"rotation"` // XYZ Euler, radians
	Scale    mat32.Vec3 `json:"scale"`
}

// Keyframe is one sampled animation key. Frames are sampled at fixed
// strides by the assemblers; interpolation between keys is the consuming
// host's concern.
type Keyframe struct {
	Frame   int        `json:"frame"`
	Channel Channel    `json:"channel"`
	Value   mat32.Vec3 `json:"value"`
}

// HairSettings configures a hair particle system on a mesh object.
type HairSettings struct {
	Count          int     `json:"count"`
	Length         float32 `json:"length"`
	Steps          int     `json:"steps"`
	MaterialSlot   int     `json:"material_slot"`
	BrownianFactor float32 `json:"brownian_factor,omitempty"`
	ChildType      string  `json:"child_type,omitempty"`
	ChildCount     int     `json:"child_count,omitempty"`
	ClumpFactor    float32 `json:"clump_factor,omitempty"`
	ClumpShape     float32 `json:"clump_shape,omitempty"`
}

// RenderConfig is the scene-wide render and animation configuration.
type RenderConfig struct {
	FrameStart      int    `json:"frame_start"`
	FrameEnd        int    `json:"frame_end"`
	FPS             int    `json:"fps,omitempty"`
	Engine          string `json:"engine,omitempty"`
	Samples         int    `json:"samples,omitempty"`
	ResolutionX     int    `json:"resolution_x,omitempty"`
	ResolutionY     int    `json:"resolution_y,omitempty"`
	FileFormat      string `json:"file_format,omitempty"`
	ContainerFormat string `json:"container_format,omitempty"`
	Codec           string `json:"codec,omitempty"`
	Background      RGBA   `json:"background"`
	OutputPath      string `json:"output_path,omitempty"`
}

// Object is one node of the recorded document.
type Object struct {
	ID        ObjectID      `json:"id"`
	Name      string        `json:"name"`
	Primitive PrimitiveSpec `json:"primitive"`
	Parent    ObjectID      `json:"parent"`
	Materials []MaterialID  `json:"materials,omitempty"` // ordered slots
	Transform Transform     `json:"transform"`
	Hair      *HairSettings `json:"hair,omitempty"`
	Keys      []Keyframe    `json:"keys,omitempty"`
}

// KeysOn returns the object's keyframes for one channel, in insertion
// order (assemblers insert in frame order).
func (o *Object) KeysOn(channel Channel) []Keyframe {
	var keys []Keyframe
	for _, k := range o.Keys {
		if k.Channel == channel {
			keys = append(keys, k)
		}
	}
	return keys
}

// Document is a complete recorded scene: every object, material, keyframe,
// and the render configuration, in creation order. Object IDs index the
// Objects slice and MaterialIDs index Materials.
type Document struct {
	Name      string         `json:"name"`
	Config    RenderConfig   `json:"config"`
	Objects   []Object       `json:"objects"`
	Materials []MaterialSpec `json:"materials,omitempty"`
}

// Object returns the object with the given handle, or nil.
func (d *Document) Object(id ObjectID) *Object {
	if id < 0 || int(id) >= len(d.Objects) {
		return nil
	}
	return &d.Objects[id]
}

// Find returns the first object with the given name, or nil.
func (d *Document) Find(name string) *Object {
	for i := range d.Objects {
		if d.Objects[i].Name == name {
			return &d.Objects[i]
		}
	}
	return nil
}

// FindAll returns every object whose name has the given prefix.
func (d *Document) FindAll(prefix string) []*Object {
	var objects []*Object
	for i := range d.Objects {
		if len(d.Objects[i].Name) >= len(prefix) && d.Objects[i].Name[:len(prefix)] == prefix {
			objects = append(objects, &d.Objects[i])
		}
	}
	return objects
}

// Children returns the objects directly parented to the given handle.
func (d *Document) Children(id ObjectID) []*Object {
	var children []*Object
	for i := range d.Objects {
		if d.Objects[i].Parent == id {
			children = append(children, &d.Objects[i])
		}
	}
	return children
}

// SceneKind selects which assembler produced a stored scene.
type SceneKind string

const (
	SceneKindMeadow SceneKind = "meadow"
	SceneKindSolar  SceneKind = "solar"
)

func (k SceneKind) String() string {
	return string(k)
}

func (k SceneKind) IsValid() bool {
	return k == SceneKindMeadow || k == SceneKindSolar
}

// StoredScene is a persisted generation result. List endpoints return it
// without the document payload; Document is only populated on single-scene
// reads and on creation.
type StoredScene struct {
	ID          int64           `json:"id"`
	OwnerID     int64           `json:"owner_id"`
	Kind        SceneKind       `json:"kind"`
	Seed        int64           `json:"seed"`
	Title       string          `json:"title"`
	ObjectCount int             `json:"object_count"`
	FrameEnd    int             `json:"frame_end"`
	Document    json.RawMessage `json:"document,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
