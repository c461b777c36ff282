// Package stats turns the provider's nested MW/WZ profile document into a flat,
// ordered player record.
package stats

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrMissingField is wrapped by Extract when a required field is absent or null.
var ErrMissingField = errors.New("missing field")

// Section groups the fields of a record.
type Section string

// Record sections.
const (
	SectionAll    Section = "ALL"
	SectionWeekly Section = "LastWeek"
)

// Field is one resolved value of a record.
type Field struct {
	Key   string
	Value string
}

// Record is the normalized view of one player's profile.
type Record struct {
	Username string
	All      []Field
	Weekly   []Field
}

// FieldSpec locates a record field inside the provider document.
type FieldSpec struct {
	Key  string
	Path string
}

const (
	lifetimeBR = "lifetime.mode.br.properties."
	weeklyBR   = "weekly.mode.br_all.properties."
)

// UsernamePath locates the player's display name.
const UsernamePath = "username"

// AllFields lists the lifetime fields in display order.
var AllFields = []FieldSpec{
	{Key: "gamesPlayed", Path: lifetimeBR + "gamesPlayed"},
	{Key: "wins", Path: lifetimeBR + "wins"},
	{Key: "kills", Path: lifetimeBR + "kills"},
	{Key: "deaths", Path: lifetimeBR + "deaths"},
	{Key: "downs", Path: lifetimeBR + "downs"},
	{Key: "kdRatio", Path: lifetimeBR + "kdRatio"},
	{Key: "topFive", Path: lifetimeBR + "topFive"},
	{Key: "topTen", Path: lifetimeBR + "topTen"},
	{Key: "topTwentyFive", Path: lifetimeBR + "topTwentyFive"},
	{Key: "accuracy", Path: "lifetime.all.properties.accuracy"},
}

// WeeklyFields lists the last-week fields in display order.
var WeeklyFields = []FieldSpec{
	{Key: "kills", Path: weeklyBR + "kills"},
	{Key: "deaths", Path: weeklyBR + "deaths"},
	{Key: "kdRatio", Path: weeklyBR + "kdRatio"},
	{Key: "gulagDeaths", Path: weeklyBR + "gulagDeaths"},
	{Key: "gulagKills", Path: weeklyBR + "gulagKills"},
	{Key: "objectiveTeamWiped", Path: weeklyBR + "objectiveTeamWiped"},
	{Key: "headshots", Path: weeklyBR + "headshots"},
	{Key: "headshotPercentage", Path: weeklyBR + "headshotPercentage"},
	{Key: "killsPerGame", Path: weeklyBR + "killsPerGame"},
	{Key: "damageDone", Path: weeklyBR + "damageDone"},
	{Key: "damageTaken", Path: weeklyBR + "damageTaken"},
}

// Extract builds a Record from a raw profile document.
// Every field must be present and non-null, otherwise an error wrapping ErrMissingField is returned.
func Extract(raw []byte) (*Record, error) {
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("stats: profile is not valid JSON")
	}

	doc := gjson.ParseBytes(raw)

	username, err := lookup(doc, UsernamePath)
	if err != nil {
		return nil, err
	}

	all, err := resolve(doc, AllFields)
	if err != nil {
		return nil, err
	}

	weekly, err := resolve(doc, WeeklyFields)
	if err != nil {
		return nil, err
	}

	return &Record{Username: username, All: all, Weekly: weekly}, nil
}

func resolve(doc gjson.Result, specs []FieldSpec) ([]Field, error) {
	fields := make([]Field, 0, len(specs))
	for _, spec := range specs {
		v, err := lookup(doc, spec.Path)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: spec.Key, Value: v})
	}

	return fields, nil
}

// lookup returns the value at path as text. Numbers keep their JSON spelling.
func lookup(doc gjson.Result, path string) (string, error) {
	r := doc.Get(path)
	if !r.Exists() || r.Type == gjson.Null {
		return "", fmt.Errorf("stats: %w: %s", ErrMissingField, path)
	}

	if r.Type == gjson.String {
		return r.String(), nil
	}

	return r.Raw, nil
}
