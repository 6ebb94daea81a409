package scoring

import (
	"github.com/crickarena/crickarena/internal/domain/prediction"
	"github.com/crickarena/crickarena/internal/domain/stats"
)

// Numeric categories award partial credit inside a closeness band;
// identity and count categories are exact-or-miss. The asymmetry is
// deliberate: numeric answers have a natural distance, identity answers
// do not.
const (
	totalScoreExact = 50
	totalScoreClose = 25
	totalScoreBand  = 15

	powerplayExact = 35
	powerplayClose = 15
	powerplayBand  = 10

	mostSixesExact   = 40
	mostFoursExact   = 40
	mostWicketsExact = 40
	fiftiesExact     = 30

	missPenalty = -10
)

// PredictionPoints scores one answer set against the fixture actuals.
// Each category is evaluated independently; the sum can be negative.
func PredictionPoints(a prediction.Answers, actual stats.Actuals) int {
	points := bandedPoints(a.TotalScore, actual.TotalScore, totalScoreExact, totalScoreClose, totalScoreBand)
	points += bandedPoints(a.PowerplayScore, actual.PowerplayScore, powerplayExact, powerplayClose, powerplayBand)
	points += exactPoints(a.MostSixes == actual.MostSixes, mostSixesExact)
	points += exactPoints(a.MostFours == actual.MostFours, mostFoursExact)
	points += exactPoints(a.MostWickets == actual.MostWickets, mostWicketsExact)
	points += exactPoints(a.FiftiesCount == actual.FiftiesCount, fiftiesExact)

	return points
}

func bandedPoints(predicted, actual, exact, close, band int) int {
	diff := predicted - actual
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return exact
	case diff <= band:
		return close
	default:
		return missPenalty
	}
}

func exactPoints(hit bool, exact int) int {
	if hit {
		return exact
	}
	return missPenalty
}
