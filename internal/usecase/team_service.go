package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/player"
	idgen "github.com/crickarena/crickarena/internal/platform/id"
	"github.com/crickarena/crickarena/internal/platform/logging"
)

// SquadInput is the caller-supplied squad shape. Roles, credits and
// team codes always come from the player pool, never from the client.
type SquadInput struct {
	Name          string
	PlayerIDs     []string
	CaptainID     string
	ViceCaptainID string
}

// ValidationResult summarizes a passing squad validation.
type ValidationResult struct {
	TotalCredits int64
	CreditsLeft  int64
	RoleCounts   map[player.Role]int
}

// TeamService validates and persists users' fantasy squads.
type TeamService struct {
	fixtureRepo fixture.Repository
	playerRepo  player.Repository
	fantasyRepo fantasy.Repository
	rules       fantasy.Rules
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewTeamService(
	fixtureRepo fixture.Repository,
	playerRepo player.Repository,
	fantasyRepo fantasy.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		fixtureRepo: fixtureRepo,
		playerRepo:  playerRepo,
		fantasyRepo: fantasyRepo,
		rules:       fantasy.DefaultRules(),
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// ValidateSquad runs the full rule set against a proposed squad without
// persisting anything. Callers use it to surface violations while a
// user is still composing their team.
func (s *TeamService) ValidateSquad(ctx context.Context, fixtureID string, in SquadInput) (ValidationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ValidateSquad")
	defer span.End()

	if _, err := s.getFixture(ctx, fixtureID); err != nil {
		return ValidationResult{}, err
	}

	picks, err := s.resolvePicks(ctx, in)
	if err != nil {
		return ValidationResult{}, err
	}

	return s.validatePicks(picks)
}

// SaveTeam validates and upserts the user's squad for a fixture. Each
// user keeps exactly one team per fixture; saving again replaces it
// until the selection window closes or the team locks.
func (s *TeamService) SaveTeam(ctx context.Context, userID, fixtureID string, in SquadInput) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SaveTeam")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	fx, err := s.getFixture(ctx, fixtureID)
	if err != nil {
		return fantasy.Team{}, err
	}
	now := s.now().UTC()
	if !fx.SelectionOpen || fx.LockedAt(now) {
		return fantasy.Team{}, fmt.Errorf("%w: team selection is closed for fixture %s", ErrPreconditionFailed, fixtureID)
	}

	picks, err := s.resolvePicks(ctx, in)
	if err != nil {
		return fantasy.Team{}, err
	}
	result, err := s.validatePicks(picks)
	if err != nil {
		return fantasy.Team{}, err
	}

	existing, exists, err := s.fantasyRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("get fantasy team: %w", err)
	}
	if exists && existing.IsLocked {
		return fantasy.Team{}, fmt.Errorf("%w: team is locked for fixture %s", ErrPreconditionFailed, fixtureID)
	}

	team := fantasy.Team{
		UserID:       userID,
		FixtureID:    fixtureID,
		Name:         strings.TrimSpace(in.Name),
		Picks:        picks,
		TotalCredits: result.TotalCredits,
		UpdatedAt:    now,
	}
	if exists {
		team.ID = existing.ID
		team.CreatedAt = existing.CreatedAt
	} else {
		teamID, err := s.idGen.NewID()
		if err != nil {
			return fantasy.Team{}, fmt.Errorf("generate team id: %w", err)
		}
		team.ID = teamID
		team.CreatedAt = now
	}
	if team.Name == "" {
		team.Name = userID + "'s XI"
	}

	if err := team.ValidateBasic(); err != nil {
		return fantasy.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.fantasyRepo.Upsert(ctx, team); err != nil {
		if errors.Is(err, fantasy.ErrConcurrentUpdate) {
			return fantasy.Team{}, fmt.Errorf("%w: squad save raced another request, retry", ErrConflict)
		}
		return fantasy.Team{}, fmt.Errorf("upsert fantasy team: %w", err)
	}

	s.logger.InfoContext(ctx, "fantasy team saved",
		"user_id", userID,
		"fixture_id", fixtureID,
		"team_id", team.ID,
		"total_credits", team.TotalCredits,
	)

	return team, nil
}

// GetTeam returns the user's saved squad for a fixture.
func (s *TeamService) GetTeam(ctx context.Context, userID, fixtureID string) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetTeam")
	defer span.End()

	team, exists, err := s.fantasyRepo.GetByUserAndFixture(ctx, userID, fixtureID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("get fantasy team: %w", err)
	}
	if !exists {
		return fantasy.Team{}, fmt.Errorf("%w: no fantasy team for user %s in fixture %s", ErrNotFound, userID, fixtureID)
	}

	return team, nil
}

// resolvePicks maps player ids onto pool players, carrying over the
// caller's captain and vice-captain flags. Unknown ids fail before any
// rule runs.
func (s *TeamService) resolvePicks(ctx context.Context, in SquadInput) ([]fantasy.TeamPick, error) {
	if len(in.PlayerIDs) == 0 {
		return nil, fmt.Errorf("%w: player_ids are required", ErrInvalidInput)
	}

	players, err := s.playerRepo.GetByIDs(ctx, in.PlayerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	index := make(map[string]player.Player, len(players))
	for _, p := range players {
		index[p.ID] = p
	}

	picks := make([]fantasy.TeamPick, 0, len(in.PlayerIDs))
	var missing []string
	for _, playerID := range in.PlayerIDs {
		p, ok := index[playerID]
		if !ok {
			missing = append(missing, playerID)
			continue
		}
		picks = append(picks, fantasy.TeamPick{
			PlayerID:      p.ID,
			TeamCode:      p.TeamCode,
			Role:          p.Role,
			Credits:       p.Credits,
			IsCaptain:     p.ID == in.CaptainID,
			IsViceCaptain: p.ID == in.ViceCaptainID,
		})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: unknown player ids: %s", ErrNotFound, strings.Join(missing, ", "))
	}

	return picks, nil
}

func (s *TeamService) validatePicks(picks []fantasy.TeamPick) (ValidationResult, error) {
	totalCredits, err := fantasy.ValidatePicks(picks, s.rules)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := fantasy.ValidateLeadership(picks); err != nil {
		return ValidationResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	roleCounts := make(map[player.Role]int, len(fantasy.DefaultRules().RoleBounds))
	for _, pick := range picks {
		roleCounts[pick.Role]++
	}

	return ValidationResult{
		TotalCredits: totalCredits,
		CreditsLeft:  s.rules.CreditCap - totalCredits,
		RoleCounts:   roleCounts,
	}, nil
}

func (s *TeamService) getFixture(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
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
