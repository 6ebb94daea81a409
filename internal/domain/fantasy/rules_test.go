package fantasy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/crickarena/crickarena/internal/domain/player"
)

func validPicks() []TeamPick {
	roles := []player.Role{
		player.RoleWicketKeeper,
		player.RoleBatsman, player.RoleBatsman, player.RoleBatsman, player.RoleBatsman,
		player.RoleAllRounder, player.RoleAllRounder,
		player.RoleBowler, player.RoleBowler, player.RoleBowler, player.RoleBowler,
	}

	picks := make([]TeamPick, 0, len(roles))
	for i, role := range roles {
		teamCode := "IND"
		if i%2 == 0 {
			teamCode = "AUS"
		}
		picks = append(picks, TeamPick{
			PlayerID: fmt.Sprintf("p-%02d", i+1),
			TeamCode: teamCode,
			Role:     role,
			Credits:  90,
		})
	}

	picks[0].IsCaptain = true
	picks[1].IsViceCaptain = true
	return picks
}

func TestValidatePicks_Valid(t *testing.T) {
	total, err := ValidatePicks(validPicks(), DefaultRules())
	if err != nil {
		t.Fatalf("expected valid squad, got %v", err)
	}
	if total != 990 {
		t.Fatalf("expected total credits 990, got %d", total)
	}
}

func TestValidatePicks_InvalidSize(t *testing.T) {
	picks := validPicks()[:10]
	if _, err := ValidatePicks(picks, DefaultRules()); !errors.Is(err, ErrInvalidSquadSize) {
		t.Fatalf("expected ErrInvalidSquadSize, got %v", err)
	}
}

func TestValidatePicks_DuplicatePlayer(t *testing.T) {
	picks := validPicks()
	picks[10].PlayerID = picks[0].PlayerID
	if _, err := ValidatePicks(picks, DefaultRules()); !errors.Is(err, ErrDuplicatePlayer) {
		t.Fatalf("expected ErrDuplicatePlayer, got %v", err)
	}
}

func TestValidatePicks_CreditsExceeded(t *testing.T) {
	picks := validPicks()
	for i := range picks {
		picks[i].Credits = 110
	}
	if _, err := ValidatePicks(picks, DefaultRules()); !errors.Is(err, ErrCreditsExceeded) {
		t.Fatalf("expected ErrCreditsExceeded, got %v", err)
	}
}

func TestValidatePicks_RoleViolation(t *testing.T) {
	picks := validPicks()
	// Losing the only wicket-keeper breaches the WK minimum.
	picks[0].Role = player.RoleBatsman
	if _, err := ValidatePicks(picks, DefaultRules()); !errors.Is(err, ErrRoleViolation) {
		t.Fatalf("expected ErrRoleViolation, got %v", err)
	}
}

func TestValidatePicks_RoleMaxViolation(t *testing.T) {
	picks := validPicks()
	// Seven batsmen breaches the BAT maximum of six.
	for i := 7; i < 10; i++ {
		picks[i].Role = player.RoleBatsman
	}
	if _, err := ValidatePicks(picks, DefaultRules()); !errors.Is(err, ErrRoleViolation) {
		t.Fatalf("expected ErrRoleViolation, got %v", err)
	}
}

func TestValidatePicks_TeamCapExceeded(t *testing.T) {
	picks := validPicks()
	for i := range picks {
		picks[i].TeamCode = "IND"
	}
	// Keep roles within bounds so only the team cap trips.
	if _, err := ValidatePicks(picks, DefaultRules()); !errors.Is(err, ErrTeamCapExceeded) {
		t.Fatalf("expected ErrTeamCapExceeded, got %v", err)
	}
}

func TestValidateLeadership(t *testing.T) {
	picks := validPicks()
	if err := ValidateLeadership(picks); err != nil {
		t.Fatalf("expected valid leadership, got %v", err)
	}

	noCaptain := validPicks()
	noCaptain[0].IsCaptain = false
	if err := ValidateLeadership(noCaptain); !errors.Is(err, ErrLeadershipRequired) {
		t.Fatalf("expected ErrLeadershipRequired, got %v", err)
	}

	samePlayer := validPicks()
	samePlayer[1].IsViceCaptain = false
	samePlayer[0].IsViceCaptain = true
	if err := ValidateLeadership(samePlayer); !errors.Is(err, ErrLeadershipInvalid) {
		t.Fatalf("expected ErrLeadershipInvalid, got %v", err)
	}

	twoCaptains := validPicks()
	twoCaptains[2].IsCaptain = true
	if err := ValidateLeadership(twoCaptains); !errors.Is(err, ErrLeadershipInvalid) {
		t.Fatalf("expected ErrLeadershipInvalid, got %v", err)
	}
}
