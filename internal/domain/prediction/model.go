package prediction

import (
	"fmt"
	"time"
)

// Answers holds the six prediction slots for one fixture. TotalScore,
// PowerplayScore and FiftiesCount are numeric guesses; the Most* slots
// reference a player id.
type Answers struct {
	TotalScore     int
	PowerplayScore int
	MostSixes      string
	MostFours      string
	MostWickets    string
	FiftiesCount   int
}

func (a Answers) Validate() error {
	if a.TotalScore < 0 {
		return fmt.Errorf("total score prediction cannot be negative")
	}
	if a.PowerplayScore < 0 {
		return fmt.Errorf("powerplay score prediction cannot be negative")
	}
	if a.FiftiesCount < 0 {
		return fmt.Errorf("fifties count prediction cannot be negative")
	}
	if a.MostSixes == "" || a.MostFours == "" || a.MostWickets == "" {
		return fmt.Errorf("player predictions are required")
	}

	return nil
}

// PlayerIDs returns the player-reference answers for resolution checks.
func (a Answers) PlayerIDs() []string {
	return []string{a.MostSixes, a.MostFours, a.MostWickets}
}

// Slip is one user's prediction set for one fixture. Unique per
// (UserID, FixtureID); becomes immutable once scored.
type Slip struct {
	ID        string
	UserID    string
	FixtureID string
	Answers   Answers
	Points    int
	IsLocked  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s Slip) ValidateBasic() error {
	if s.ID == "" {
		return fmt.Errorf("prediction id is required")
	}
	if s.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if s.FixtureID == "" {
		return fmt.Errorf("fixture id is required")
	}

	return s.Answers.Validate()
}
