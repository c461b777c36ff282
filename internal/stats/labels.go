package stats

// Labels maps record field keys to their display names.
var Labels = map[string]string{
	"username":           "User",
	"gamesPlayed":        "Game played",
	"wins":               "Wins",
	"kills":              "Kills",
	"deaths":             "Deaths",
	"downs":              "Downs",
	"kdRatio":            "K/D",
	"topFive":            "Top 5",
	"topTen":             "Top 10",
	"topTwentyFive":      "Top 25",
	"accuracy":           "Accuracy (MP and WZ)",
	"gulagDeaths":        "Gulag deaths",
	"gulagKills":         "Gulag kills",
	"objectiveTeamWiped": "Team wiped",
	"headshots":          "Headshots",
	"headshotPercentage": "Headshot percentage",
	"killsPerGame":       "Kills per game",
	"damageDone":         "Damage done",
	"damageTaken":        "Damage taken",
}

// Label returns the display name of key, or the key itself when it has none.
func Label(key string) string {
	if l, ok := Labels[key]; ok {
		return l
	}

	return key
}
