package generate

import "scenes-server/internal/scene"

// GenerateRequest describes one scene generation job. Seed 0 asks the
// server to derive a seed from the clock. The optional overrides replace
// the configured defaults for this request only; nil means "use default".
type GenerateRequest struct {
	Kind           scene.SceneKind `json:"kind"`
	Seed           int64           `json:"seed"`
	FlowerCount    *int            `json:"flower_count,omitempty"`
	ButterflyCount *int            `json:"butterfly_count,omitempty"`
	StarAttempts   *int            `json:"star_attempts,omitempty"`
	Frames         *int            `json:"frames,omitempty"`
}
