package memory

import (
	"time"

	"github.com/crickarena/crickarena/internal/domain/fixture"
	"github.com/crickarena/crickarena/internal/domain/player"
)

const (
	FixtureIDIndAus = "t20-ind-aus-2026-09-12"
	FixtureIDEngSa  = "t20-eng-sa-2026-09-13"
)

func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			ID:            FixtureIDIndAus,
			HomeTeam:      "India",
			AwayTeam:      "Australia",
			Venue:         "Wankhede Stadium",
			StartsAt:      time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC),
			LockAt:        time.Date(2026, 9, 12, 13, 30, 0, 0, time.UTC),
			SelectionOpen: true,
			Status:        fixture.StatusScheduled,
		},
		{
			ID:            FixtureIDEngSa,
			HomeTeam:      "England",
			AwayTeam:      "South Africa",
			Venue:         "Lord's",
			StartsAt:      time.Date(2026, 9, 13, 13, 0, 0, 0, time.UTC),
			LockAt:        time.Date(2026, 9, 13, 12, 30, 0, 0, time.UTC),
			SelectionOpen: true,
			Status:        fixture.StatusScheduled,
		},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "ind-wk-01", Name: "Rishabh Pant", TeamCode: "IND", Role: player.RoleWicketKeeper, Credits: 95},
		{ID: "ind-wk-02", Name: "Sanju Samson", TeamCode: "IND", Role: player.RoleWicketKeeper, Credits: 88},
		{ID: "ind-bat-01", Name: "Virat Kohli", TeamCode: "IND", Role: player.RoleBatsman, Credits: 105},
		{ID: "ind-bat-02", Name: "Rohit Sharma", TeamCode: "IND", Role: player.RoleBatsman, Credits: 102},
		{ID: "ind-bat-03", Name: "Shubman Gill", TeamCode: "IND", Role: player.RoleBatsman, Credits: 96},
		{ID: "ind-bat-04", Name: "Suryakumar Yadav", TeamCode: "IND", Role: player.RoleBatsman, Credits: 100},
		{ID: "ind-ar-01", Name: "Hardik Pandya", TeamCode: "IND", Role: player.RoleAllRounder, Credits: 98},
		{ID: "ind-ar-02", Name: "Ravindra Jadeja", TeamCode: "IND", Role: player.RoleAllRounder, Credits: 94},
		{ID: "ind-ar-03", Name: "Axar Patel", TeamCode: "IND", Role: player.RoleAllRounder, Credits: 86},
		{ID: "ind-bwl-01", Name: "Jasprit Bumrah", TeamCode: "IND", Role: player.RoleBowler, Credits: 104},
		{ID: "ind-bwl-02", Name: "Mohammed Siraj", TeamCode: "IND", Role: player.RoleBowler, Credits: 90},
		{ID: "ind-bwl-03", Name: "Kuldeep Yadav", TeamCode: "IND", Role: player.RoleBowler, Credits: 88},
		{ID: "ind-bwl-04", Name: "Arshdeep Singh", TeamCode: "IND", Role: player.RoleBowler, Credits: 84},
		{ID: "aus-wk-01", Name: "Josh Inglis", TeamCode: "AUS", Role: player.RoleWicketKeeper, Credits: 87},
		{ID: "aus-wk-02", Name: "Alex Carey", TeamCode: "AUS", Role: player.RoleWicketKeeper, Credits: 84},
		{ID: "aus-bat-01", Name: "Travis Head", TeamCode: "AUS", Role: player.RoleBatsman, Credits: 101},
		{ID: "aus-bat-02", Name: "David Warner", TeamCode: "AUS", Role: player.RoleBatsman, Credits: 97},
		{ID: "aus-bat-03", Name: "Steve Smith", TeamCode: "AUS", Role: player.RoleBatsman, Credits: 95},
		{ID: "aus-bat-04", Name: "Marnus Labuschagne", TeamCode: "AUS", Role: player.RoleBatsman, Credits: 89},
		{ID: "aus-ar-01", Name: "Glenn Maxwell", TeamCode: "AUS", Role: player.RoleAllRounder, Credits: 99},
		{ID: "aus-ar-02", Name: "Marcus Stoinis", TeamCode: "AUS", Role: player.RoleAllRounder, Credits: 88},
		{ID: "aus-ar-03", Name: "Cameron Green", TeamCode: "AUS", Role: player.RoleAllRounder, Credits: 92},
		{ID: "aus-bwl-01", Name: "Mitchell Starc", TeamCode: "AUS", Role: player.RoleBowler, Credits: 100},
		{ID: "aus-bwl-02", Name: "Pat Cummins", TeamCode: "AUS", Role: player.RoleBowler, Credits: 98},
		{ID: "aus-bwl-03", Name: "Adam Zampa", TeamCode: "AUS", Role: player.RoleBowler, Credits: 90},
		{ID: "aus-bwl-04", Name: "Josh Hazlewood", TeamCode: "AUS", Role: player.RoleBowler, Credits: 92},
		{ID: "eng-wk-01", Name: "Jos Buttler", TeamCode: "ENG", Role: player.RoleWicketKeeper, Credits: 102},
		{ID: "eng-bat-01", Name: "Harry Brook", TeamCode: "ENG", Role: player.RoleBatsman, Credits: 94},
		{ID: "eng-bat-02", Name: "Joe Root", TeamCode: "ENG", Role: player.RoleBatsman, Credits: 96},
		{ID: "eng-bat-03", Name: "Phil Salt", TeamCode: "ENG", Role: player.RoleBatsman, Credits: 91},
		{ID: "eng-ar-01", Name: "Ben Stokes", TeamCode: "ENG", Role: player.RoleAllRounder, Credits: 100},
		{ID: "eng-ar-02", Name: "Moeen Ali", TeamCode: "ENG", Role: player.RoleAllRounder, Credits: 85},
		{ID: "eng-bwl-01", Name: "Jofra Archer", TeamCode: "ENG", Role: player.RoleBowler, Credits: 93},
		{ID: "eng-bwl-02", Name: "Adil Rashid", TeamCode: "ENG", Role: player.RoleBowler, Credits: 89},
		{ID: "eng-bwl-03", Name: "Mark Wood", TeamCode: "ENG", Role: player.RoleBowler, Credits: 88},
		{ID: "sa-wk-01", Name: "Quinton de Kock", TeamCode: "SA", Role: player.RoleWicketKeeper, Credits: 97},
		{ID: "sa-bat-01", Name: "Aiden Markram", TeamCode: "SA", Role: player.RoleBatsman, Credits: 93},
		{ID: "sa-bat-02", Name: "David Miller", TeamCode: "SA", Role: player.RoleBatsman, Credits: 92},
		{ID: "sa-bat-03", Name: "Heinrich Klaasen", TeamCode: "SA", Role: player.RoleBatsman, Credits: 95},
		{ID: "sa-ar-01", Name: "Marco Jansen", TeamCode: "SA", Role: player.RoleAllRounder, Credits: 87},
		{ID: "sa-ar-02", Name: "Wiaan Mulder", TeamCode: "SA", Role: player.RoleAllRounder, Credits: 78},
		{ID: "sa-bwl-01", Name: "Kagiso Rabada", TeamCode: "SA", Role: player.RoleBowler, Credits: 99},
		{ID: "sa-bwl-02", Name: "Anrich Nortje", TeamCode: "SA", Role: player.RoleBowler, Credits: 91},
		{ID: "sa-bwl-03", Name: "Keshav Maharaj", TeamCode: "SA", Role: player.RoleBowler, Credits: 86},
	}
}
