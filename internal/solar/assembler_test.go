package solar

import (
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"goki.dev/mat32/v2"

	"scenes-server/internal/orbit"
	"scenes-server/internal/scene"
)

func assemble(t *testing.T, seed int64) *scene.Document {
	t.Helper()
	builder := scene.NewDocumentBuilder("solar")
	a := NewAssembler(DefaultConfig(), rand.New(rand.NewSource(seed)), slog.Default())
	require.NoError(t, a.Assemble(builder))
	return builder.Document()
}

func objectsOfKind(doc *scene.Document, kind scene.PrimitiveKind) []*scene.Object {
	var out []*scene.Object
	for i := range doc.Objects {
		if doc.Objects[i].Primitive.Kind == kind {
			out = append(out, &doc.Objects[i])
		}
	}
	return out
}

func starSpheres(doc *scene.Document) []*scene.Object {
	var out []*scene.Object
	for _, o := range objectsOfKind(doc, scene.KindSphere) {
		if o.Primitive.Radius == float32(0.12) {
			out = append(out, o)
		}
	}
	return out
}

func TestAssembleSun(t *testing.T) {
	doc := assemble(t, 1)

	sun := doc.Find("Sun")
	require.NotNil(t, sun)
	assert.Equal(t, scene.KindSphere, sun.Primitive.Kind)
	assert.Equal(t, float32(3), sun.Primitive.Radius)
	assert.Equal(t, scene.NoObject, sun.Parent)
	assert.Equal(t, mat32.Vec3{}, sun.Transform.Location)
	assert.Empty(t, sun.Keys)

	require.Len(t, sun.Materials, 1)
	mat := doc.Materials[sun.Materials[0]]
	assert.Equal(t, scene.MaterialEmission, mat.Kind)
	assert.Equal(t, float32(10), mat.Strength)
}

func TestAssemblePlanets(t *testing.T) {
	doc := assemble(t, 1)

	for _, body := range DefaultCatalog() {
		if body.Kind == BodyStar {
			continue
		}
		planet := doc.Find(body.Name)
		require.NotNil(t, planet, body.Name)
		assert.Equal(t, body.Size, planet.Primitive.Radius)

		// Every planet starts on the positive X axis of its orbit.
		assert.InDelta(t, body.OrbitRadius, planet.Transform.Location.X, 1e-4)
		assert.InDelta(t, 0, planet.Transform.Location.Y, 1e-4)

		require.Len(t, planet.Materials, 1)
		mat := doc.Materials[planet.Materials[0]]
		assert.Equal(t, scene.MaterialPrincipled, mat.Kind)
		assert.Equal(t, float32(0.6), mat.Roughness)
	}
}

func TestPlanetOrbitKeys(t *testing.T) {
	doc := assemble(t, 2)

	for _, body := range DefaultCatalog() {
		if body.Kind == BodyStar {
			continue
		}
		planet := doc.Find(body.Name)
		require.NotNil(t, planet)

		keys := planet.KeysOn(scene.ChannelLocation)
		frames := orbit.Frames(0, 150, 5)
		require.Len(t, keys, len(frames))

		for i, f := range frames {
			want := orbit.PositionAt(f, 150, body.OrbitRadius, body.OrbitSpeed)
			assert.Equal(t, f, keys[i].Frame)
			assert.InDelta(t, want.X, keys[i].Value.X, 1e-4)
			assert.InDelta(t, want.Y, keys[i].Value.Y, 1e-4)
			// Orbits stay flat in the XY plane at the orbit radius.
			assert.Zero(t, keys[i].Value.Z)
			assert.InDelta(t, body.OrbitRadius, mat32.Hypot(keys[i].Value.X, keys[i].Value.Y), 1e-3)
		}
	}
}

func TestOrbitRingsShareOneMaterial(t *testing.T) {
	doc := assemble(t, 1)

	rings := objectsOfKind(doc, scene.KindCircleCurve)
	require.Len(t, rings, 9)

	var ringMat scene.MaterialID = scene.NoMaterial
	for _, ring := range rings {
		assert.Equal(t, float32(0.08), ring.Primitive.BevelDepth)
		assert.Equal(t, 8, ring.Primitive.BevelResolution)
		assert.Equal(t, scene.NoObject, ring.Parent)
		assert.Empty(t, ring.Keys)

		require.Len(t, ring.Materials, 1)
		if ringMat == scene.NoMaterial {
			ringMat = ring.Materials[0]
		}
		assert.Equal(t, ringMat, ring.Materials[0])
	}

	mat := doc.Materials[ringMat]
	assert.Equal(t, scene.MaterialEmission, mat.Kind)
	assert.Equal(t, float32(0.4), mat.Strength)
}

func TestSaturnRings(t *testing.T) {
	doc := assemble(t, 1)

	saturn := doc.Find("Saturn")
	require.NotNil(t, saturn)

	var torus *scene.Object
	for _, child := range doc.Children(saturn.ID) {
		if child.Primitive.Kind == scene.KindTorus {
			torus = child
		}
	}
	require.NotNil(t, torus)
	assert.Equal(t, float32(3.2), torus.Primitive.MajorRadius)
	assert.Equal(t, float32(0.15), torus.Primitive.MinorRadius)
	assert.Equal(t, mat32.Vec3{}, torus.Transform.Location)
	assert.InDelta(t, mat32.DegToRad(90), torus.Transform.Rotation.X, 1e-6)
}

func TestPlanetLabels(t *testing.T) {
	doc := assemble(t, 1)

	labels := objectsOfKind(doc, scene.KindText)
	require.Len(t, labels, 9)

	for _, label := range labels {
		require.NotEqual(t, scene.NoObject, label.Parent)
		owner := doc.Object(label.Parent)
		assert.Equal(t, owner.Name, label.Primitive.Body)
		assert.Equal(t, float32(0.7), label.Primitive.Size)
		assert.Equal(t, mat32.V3(0, 0, 2), label.Transform.Location)
		assert.InDelta(t, mat32.DegToRad(90), label.Transform.Rotation.X, 1e-6)
	}
}

func TestStarField(t *testing.T) {
	doc := assemble(t, 3)

	stars := starSpheres(doc)
	require.NotEmpty(t, stars)
	assert.LessOrEqual(t, len(stars), 20)

	seen := map[scene.MaterialID]bool{}
	for _, star := range stars {
		loc := star.Transform.Location
		assert.Greater(t, mat32.Hypot(loc.X, loc.Y), float32(50))
		assert.LessOrEqual(t, mat32.Abs(loc.X), float32(80))
		assert.LessOrEqual(t, mat32.Abs(loc.Y), float32(80))
		assert.LessOrEqual(t, mat32.Abs(loc.Z), float32(40))

		// Stars twinkle independently, so no two share a material.
		require.Len(t, star.Materials, 1)
		assert.False(t, seen[star.Materials[0]])
		seen[star.Materials[0]] = true

		base := doc.Materials[star.Materials[0]].Strength
		assert.GreaterOrEqual(t, base, float32(2))
		assert.LessOrEqual(t, base, float32(4))

		keys := star.KeysOn(scene.ChannelEmissionStrength)
		require.Len(t, keys, len(orbit.Frames(0, 150, 10)))
		for _, k := range keys {
			assert.GreaterOrEqual(t, k.Value.X, base-0.5)
			assert.LessOrEqual(t, k.Value.X, base+0.5)
		}
	}
}

func TestCameraOrbitKeys(t *testing.T) {
	doc := assemble(t, 4)

	cameras := objectsOfKind(doc, scene.KindCamera)
	require.Len(t, cameras, 1)
	camera := cameras[0]

	assert.Equal(t, mat32.V3(0, -60, 30), camera.Transform.Location)

	locKeys := camera.KeysOn(scene.ChannelLocation)
	rotKeys := camera.KeysOn(scene.ChannelRotation)
	frames := orbit.Frames(0, 150, 5)
	require.Len(t, locKeys, len(frames))
	require.Len(t, rotKeys, len(frames))

	for i, f := range frames {
		assert.Equal(t, f, locKeys[i].Frame)
		assert.InDelta(t, 60, mat32.Hypot(locKeys[i].Value.X, locKeys[i].Value.Y), 1e-3)
		assert.Equal(t, float32(30), locKeys[i].Value.Z)
		assert.InDelta(t, mat32.DegToRad(55), rotKeys[i].Value.X, 1e-6)
		assert.InDelta(t, orbit.Angle(f, 150, 1), rotKeys[i].Value.Z, 1e-5)
	}
}

func TestAssembleRenderConfig(t *testing.T) {
	doc := assemble(t, 1)

	assert.Equal(t, 1, doc.Config.FrameStart)
	assert.Equal(t, 150, doc.Config.FrameEnd)
	assert.Equal(t, "CYCLES", doc.Config.Engine)
	assert.Equal(t, 64, doc.Config.Samples)
	assert.Equal(t, 12, doc.Config.FPS)
	assert.Equal(t, scene.RGBA{R: 0, G: 0, B: 0.03, A: 1}, doc.Config.Background)
}

func TestAssembleDeterministic(t *testing.T) {
	first := assemble(t, 42)
	second := assemble(t, 42)

	assert.Equal(t, first, second)
}

func TestAssembleRejectsUnknownKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = []Body{{Kind: BodyKind("comet"), Name: "Halley"}}
	a := NewAssembler(cfg, rand.New(rand.NewSource(1)), slog.Default())

	err := a.Assemble(scene.NewDocumentBuilder("solar"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown body kind")
}
