package stats

import "fmt"

// Batting is one player's batting line for a fixture.
type Batting struct {
	Runs       int
	Fours      int
	Sixes      int
	BallsFaced int
	IsOut      bool
}

// Bowling is one player's bowling line for a fixture. Overs is fractional
// for incomplete final overs (3.4 overs bowled is 3.667).
type Bowling struct {
	Wickets      int
	LBW          int
	Bowled       int
	Maidens      int
	Overs        float64
	RunsConceded int
}

// Fielding is one player's fielding line for a fixture.
type Fielding struct {
	Catches         int
	Stumpings       int
	RunOutsDirect   int
	RunOutsIndirect int
}

// Performance is one player's full stat line for one fixture.
type Performance struct {
	PlayerID  string
	FixtureID string
	Batting   Batting
	Bowling   Bowling
	Fielding  Fielding
}

// Validate rejects internally inconsistent stat lines. A malformed row
// must fail loudly in the scoring run instead of silently scoring zero.
func (p Performance) Validate() error {
	if p.PlayerID == "" {
		return fmt.Errorf("performance player id is required")
	}
	if p.FixtureID == "" {
		return fmt.Errorf("performance fixture id is required")
	}

	b := p.Batting
	if b.Runs < 0 || b.Fours < 0 || b.Sixes < 0 || b.BallsFaced < 0 {
		return fmt.Errorf("negative batting counters for player %s", p.PlayerID)
	}
	if b.BallsFaced == 0 && (b.Fours > 0 || b.Sixes > 0) {
		return fmt.Errorf("boundaries without balls faced for player %s", p.PlayerID)
	}

	w := p.Bowling
	if w.Wickets < 0 || w.LBW < 0 || w.Bowled < 0 || w.Maidens < 0 || w.RunsConceded < 0 || w.Overs < 0 {
		return fmt.Errorf("negative bowling counters for player %s", p.PlayerID)
	}
	if w.LBW+w.Bowled > w.Wickets {
		return fmt.Errorf("dismissal detail exceeds wicket count for player %s", p.PlayerID)
	}

	f := p.Fielding
	if f.Catches < 0 || f.Stumpings < 0 || f.RunOutsDirect < 0 || f.RunOutsIndirect < 0 {
		return fmt.Errorf("negative fielding counters for player %s", p.PlayerID)
	}

	return nil
}

// Actuals holds the realized fixture-level outcomes that prediction
// slips are scored against.
type Actuals struct {
	FixtureID      string
	TotalScore     int
	PowerplayScore int
	MostSixes      string
	MostFours      string
	MostWickets    string
	FiftiesCount   int
}

func (a Actuals) Validate() error {
	if a.FixtureID == "" {
		return fmt.Errorf("actuals fixture id is required")
	}
	if a.TotalScore < 0 || a.PowerplayScore < 0 || a.FiftiesCount < 0 {
		return fmt.Errorf("negative actuals for fixture %s", a.FixtureID)
	}

	return nil
}
