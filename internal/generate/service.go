package generate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"scenes-server/internal/meadow"
	"scenes-server/internal/scene"
	"scenes-server/internal/shared/config"
	"scenes-server/internal/shared/errors"
	"scenes-server/internal/solar"
	"scenes-server/internal/spatial"
)

// SceneStore persists generated scenes. Satisfied by scene.Service.
type SceneStore interface {
	SaveScene(ctx context.Context, scene *scene.StoredScene) error
}

type Service struct {
	scenes SceneStore
	logger *slog.Logger
}

func NewService(scenes SceneStore, logger *slog.Logger) *Service {
	logger.Debug("Initializing generate service")

	return &Service{
		scenes: scenes,
		logger: logger,
	}
}

// Generate builds the requested scene deterministically from its seed,
// persists it for the owner, and returns the stored record including the
// document payload.
func (s *Service) Generate(ctx context.Context, ownerID int64, req *GenerateRequest) (*scene.StoredScene, error) {
	if !req.Kind.IsValid() {
		return nil, errors.Validationf("unknown scene kind %q", req.Kind)
	}
	if err := validateOverrides(req); err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := s.logger.With(
		"component", "generate_service",
		"operation", "generate",
		"owner_id", ownerID,
		"kind", req.Kind,
		"seed", seed,
	)
	logger.Info("Generating scene")

	// Every request gets its own generator so identical seeds replay the
	// exact same scene regardless of concurrent requests.
	rng := rand.New(rand.NewSource(seed))
	title := fmt.Sprintf("%s-%d", req.Kind, seed)
	builder := scene.NewDocumentBuilder(title)

	var err error
	switch req.Kind {
	case scene.SceneKindMeadow:
		err = meadow.NewAssembler(meadowConfig(req), rng, s.logger).Assemble(builder)
	case scene.SceneKindSolar:
		err = solar.NewAssembler(solarConfig(req), rng, s.logger).Assemble(builder)
	}
	if err != nil {
		var placementErr *spatial.PlacementError
		if stderrors.As(err, &placementErr) {
			return nil, errors.WrapValidation("scene parameters make placement impossible", err)
		}
		return nil, errors.WrapInternal("failed to generate scene", err)
	}

	doc := builder.Document()
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.WrapInternal("failed to encode scene document", err)
	}

	stored := &scene.StoredScene{
		OwnerID:     ownerID,
		Kind:        req.Kind,
		Seed:        seed,
		Title:       doc.Name,
		ObjectCount: len(doc.Objects),
		FrameEnd:    doc.Config.FrameEnd,
		Document:    payload,
	}
	if err := s.scenes.SaveScene(ctx, stored); err != nil {
		return nil, err
	}

	logger.Info("Scene generated",
		"scene_id", stored.ID,
		"object_count", stored.ObjectCount,
		"frame_end", stored.FrameEnd)

	return stored, nil
}

func validateOverrides(req *GenerateRequest) error {
	if req.FlowerCount != nil && *req.FlowerCount < 0 {
		return errors.Validation("flower_count must not be negative")
	}
	if req.ButterflyCount != nil && *req.ButterflyCount < 0 {
		return errors.Validation("butterfly_count must not be negative")
	}
	if req.StarAttempts != nil && *req.StarAttempts < 0 {
		return errors.Validation("star_attempts must not be negative")
	}
	if req.Frames != nil && *req.Frames < 1 {
		return errors.Validation("frames must be at least 1")
	}
	return nil
}

func meadowConfig(req *GenerateRequest) meadow.Config {
	cfg := meadow.DefaultConfig()

	gen := config.GlobalConfig.Generation
	cfg.FlowerCount = gen.FlowerCount
	cfg.ButterflyCount = gen.ButterflyCount
	cfg.TotalFrames = gen.MeadowFrames
	cfg.MaxPlacementAttempts = gen.MaxPlacementAttempts

	if req.FlowerCount != nil {
		cfg.FlowerCount = *req.FlowerCount
	}
	if req.ButterflyCount != nil {
		cfg.ButterflyCount = *req.ButterflyCount
	}
	if req.Frames != nil {
		cfg.TotalFrames = *req.Frames
	}

	return cfg
}

func solarConfig(req *GenerateRequest) solar.Config {
	cfg := solar.DefaultConfig()

	gen := config.GlobalConfig.Generation
	cfg.StarAttempts = gen.StarAttempts
	cfg.TotalFrames = gen.SolarFrames

	if req.StarAttempts != nil {
		cfg.StarAttempts = *req.StarAttempts
	}
	if req.Frames != nil {
		cfg.TotalFrames = *req.Frames
	}

	return cfg
}
