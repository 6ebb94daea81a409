package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/player"
)

// CatalogService serves the read-only reference data users browse while
// composing squads: the player pool and the fixture list.
type CatalogService struct {
	fixtureRepo fixture.Repository
	playerRepo  player.Repository
}

func NewCatalogService(fixtureRepo fixture.Repository, playerRepo player.Repository) *CatalogService {
	return &CatalogService{fixtureRepo: fixtureRepo, playerRepo: playerRepo}
}

func (s *CatalogService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListPlayers")
	defer span.End()

	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (s *CatalogService) ListFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListFixtures")
	defer span.End()

	fixtures, err := s.fixtureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}
	return fixtures, nil
}

func (s *CatalogService) GetFixture(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.GetFixture")
	defer span.End()

	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}

	fx, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture %s", ErrNotFound, fixtureID)
	}
	return fx, nil
}
