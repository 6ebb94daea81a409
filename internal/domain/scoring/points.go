package scoring

import (
	"math"

	"github.com/crickarena/crickarena/internal/domain/fantasy"
	"github.com/crickarena/crickarena/internal/domain/stats"
)

const (
	pointsPerRun  = 1
	pointsPerFour = 1
	pointsPerSix  = 2

	centuryBonus     = 16
	halfCenturyBonus = 8
	thirtyBonus      = 4
	duckPenalty      = -2

	// Strike-rate adjustment applies only from this many balls faced.
	strikeRateMinBalls = 10

	pointsPerWicket = 25
	// Bowled and LBW dismissals earn an extra per-wicket bonus.
	bowledLBWBonus = 8

	fiveWicketBonus  = 16
	fourWicketBonus  = 8
	threeWicketBonus = 4
	pointsPerMaiden  = 12

	// Economy adjustment applies only from this many overs bowled.
	economyMinOvers = 2.0

	pointsPerCatch          = 8
	pointsPerStumping       = 12
	pointsPerRunOutDirect   = 12
	pointsPerRunOutIndirect = 6

	captainMultiplier     = 2.0
	viceCaptainMultiplier = 1.5
)

// BattingPoints converts one batting line into fantasy points.
func BattingPoints(b stats.Batting) int {
	points := b.Runs*pointsPerRun + b.Fours*pointsPerFour + b.Sixes*pointsPerSix

	// Milestone bonus, highest applicable only.
	switch {
	case b.Runs >= 100:
		points += centuryBonus
	case b.Runs >= 50:
		points += halfCenturyBonus
	case b.Runs >= 30:
		points += thirtyBonus
	}

	if b.Runs == 0 && b.IsOut {
		points += duckPenalty
	}

	if b.BallsFaced >= strikeRateMinBalls {
		points += strikeRateAdjustment(float64(b.Runs) / float64(b.BallsFaced) * 100)
	}

	return points
}

func strikeRateAdjustment(sr float64) int {
	switch {
	case sr < 70:
		return -6
	case sr < 80:
		return -4
	case sr < 90:
		return -2
	case sr < 130:
		return 0
	case sr < 150:
		return 2
	case sr < 170:
		return 4
	default:
		return 6
	}
}

// BowlingPoints converts one bowling line into fantasy points.
func BowlingPoints(b stats.Bowling) int {
	points := b.Wickets*pointsPerWicket + (b.LBW+b.Bowled)*bowledLBWBonus

	// Wicket-haul bonus, highest applicable only.
	switch {
	case b.Wickets >= 5:
		points += fiveWicketBonus
	case b.Wickets >= 4:
		points += fourWicketBonus
	case b.Wickets >= 3:
		points += threeWicketBonus
	}

	points += b.Maidens * pointsPerMaiden

	if b.Overs >= economyMinOvers {
		points += economyAdjustment(float64(b.RunsConceded) / b.Overs)
	}

	return points
}

func economyAdjustment(economy float64) int {
	switch {
	case economy < 5:
		return 6
	case economy < 6:
		return 4
	case economy < 7:
		return 2
	case economy < 10:
		return 0
	case economy < 11:
		return -2
	case economy < 12:
		return -4
	default:
		return -6
	}
}

// FieldingPoints converts one fielding line into fantasy points.
func FieldingPoints(f stats.Fielding) int {
	return f.Catches*pointsPerCatch +
		f.Stumpings*pointsPerStumping +
		f.RunOutsDirect*pointsPerRunOutDirect +
		f.RunOutsIndirect*pointsPerRunOutIndirect
}

// PerformancePoints is a player's raw point total for one fixture.
func PerformancePoints(p stats.Performance) int {
	return BattingPoints(p.Batting) + BowlingPoints(p.Bowling) + FieldingPoints(p.Fielding)
}

// TeamPoints aggregates raw player points into a fantasy team total.
// Captain counts double, vice-captain one-and-a-half times; players
// absent from the points map contribute zero. The sum is rounded to the
// nearest integer once.
func TeamPoints(picks []fantasy.TeamPick, pointsByPlayer map[string]int) int {
	total := 0.0
	for _, pick := range picks {
		raw := float64(pointsByPlayer[pick.PlayerID])
		switch {
		case pick.IsCaptain:
			total += raw * captainMultiplier
		case pick.IsViceCaptain:
			total += raw * viceCaptainMultiplier
		default:
			total += raw
		}
	}

	return int(math.Round(total))
}
