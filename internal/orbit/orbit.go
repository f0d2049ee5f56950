// Package orbit holds the closed-form circular-orbit kinematics shared by
// planets, the camera rig, and star twinkle sampling. Everything is a pure
// function of the frame index; motion comes from keyframing the sampled
// values at a fixed stride and letting the consuming animation system
// interpolate between them.
package orbit

import (
	"math/rand"

	"goki.dev/mat32/v2"
)

const twinkleAmplitude = 0.5

// Angle returns the orbital angle in radians at the given frame. A body
// with angularSpeed 1 completes exactly one revolution over totalFrames.
func Angle(frame, totalFrames int, angularSpeed float32) float32 {
	return angularSpeed * 2 * mat32.Pi * float32(frame) / float32(totalFrames)
}

// PositionAt returns the position of a body on a circular orbit in the
// XY plane. At frame zero every body sits at (orbitRadius, 0, 0).
func PositionAt(frame, totalFrames int, orbitRadius, angularSpeed float32) mat32.Vec3 {
	angle := Angle(frame, totalFrames, angularSpeed)
	return mat32.V3(orbitRadius*mat32.Cos(angle), orbitRadius*mat32.Sin(angle), 0)
}

// CameraAt returns the position and XYZ Euler rotation of a camera circling
// the origin at a fixed height, tilted down by tiltDeg and yawing so the
// scene stays centered. The camera makes one revolution over totalFrames.
func CameraAt(frame, totalFrames int, distance, height, tiltDeg float32) (pos, rot mat32.Vec3) {
	angle := Angle(frame, totalFrames, 1)
	pos = mat32.V3(-distance*mat32.Sin(angle), -distance*mat32.Cos(angle), height)
	rot = mat32.V3(mat32.DegToRad(tiltDeg), 0, angle)
	return pos, rot
}

// Twinkle draws one emission strength around base. Samples are independent
// per frame, so interpolated playback steps between brightness levels
// rather than gliding.
func Twinkle(rng *rand.Rand, base float32) float32 {
	return base + (rng.Float32()*2-1)*twinkleAmplitude
}

// Frames returns the sampled frame indices from start to end inclusive at
// the given stride. End itself appears only when the stride lands on it.
func Frames(start, end, stride int) []int {
	if stride <= 0 || end < start {
		return nil
	}
	frames := make([]int, 0, (end-start)/stride+1)
	for f := start; f <= end; f += stride {
		frames = append(frames, f)
	}
	return frames
}
