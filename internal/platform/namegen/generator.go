package namegen

import (
	"math/rand/v2"
	"strings"
)

// Generator produces display names for auto-matched teams. Name
// generation has no correctness impact, so any implementation that
// returns a non-empty string is acceptable; tests inject a
// deterministic one.
type Generator interface {
	TeamName() string
}

var adjectives = []string{
	"Blazing", "Royal", "Thundering", "Fearless", "Golden",
	"Swift", "Mighty", "Roaring", "Electric", "Crimson",
	"Savage", "Rising", "Iron", "Wild", "Stormy",
}

var nouns = []string{
	"Strikers", "Titans", "Chargers", "Royals", "Hawks",
	"Panthers", "Warriors", "Spartans", "Blasters", "Knights",
	"Riders", "Gladiators", "Falcons", "Lions", "Kings",
}

// WordListGenerator picks a random adjective+noun pairing.
type WordListGenerator struct{}

func NewWordListGenerator() *WordListGenerator {
	return &WordListGenerator{}
}

func (g *WordListGenerator) TeamName() string {
	var b strings.Builder
	b.WriteString(adjectives[rand.IntN(len(adjectives))])
	b.WriteByte(' ')
	b.WriteString(nouns[rand.IntN(len(nouns))])
	return b.String()
}
