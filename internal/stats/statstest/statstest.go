// Package statstest builds provider profile documents for tests.
package statstest

import (
	"encoding/json"
	"fmt"
)

// Profile returns a complete MW/WZ profile document for username.
// Numeric values are derived from seed so that documents of different players differ.
func Profile(username string, seed int) json.RawMessage {
	doc := map[string]any{
		"title":    "mw",
		"platform": "battle",
		"username": username,
		"level":    155,
		"lifetime": map[string]any{
			"all": map[string]any{
				"properties": map[string]any{
					"accuracy": 0.1 + float64(seed)/100,
					"kills":    5000 + seed,
				},
			},
			"mode": map[string]any{
				"br": map[string]any{
					"properties": map[string]any{
						"gamesPlayed":   100 + seed,
						"wins":          seed,
						"kills":         1000 + seed,
						"deaths":        900 + seed,
						"downs":         1100 + seed,
						"kdRatio":       1.25,
						"topFive":       10 + seed,
						"topTen":        20 + seed,
						"topTwentyFive": 40 + seed,
						"score":         123456,
					},
				},
			},
		},
		"weekly": map[string]any{
			"mode": map[string]any{
				"br_all": map[string]any{
					"properties": map[string]any{
						"kills":              50 + seed,
						"deaths":             40 + seed,
						"kdRatio":            1.5,
						"gulagDeaths":        seed,
						"gulagKills":         2 * seed,
						"objectiveTeamWiped": 3,
						"headshots":          12,
						"headshotPercentage": 0.24,
						"killsPerGame":       4.5,
						"damageDone":         fmt.Sprintf("%d", 10000+seed),
						"damageTaken":        8000 + seed,
					},
				},
			},
		},
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}

	return raw
}
