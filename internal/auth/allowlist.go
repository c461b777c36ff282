// Package auth decides which chat users may talk to the bot.
package auth

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// AllowList is an immutable set of authorized sender identifiers.
// Identifiers are kept as xxhash sums.
type AllowList struct {
	ids map[uint64]struct{}
}

// NewAllowList builds an allow-list from the given identifiers. Blank entries are skipped.
func NewAllowList(ids []string) *AllowList {
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		set[xxhash.Sum64String(id)] = struct{}{}
	}

	return &AllowList{ids: set}
}

// Allowed reports whether id belongs to the allow-list. A nil list allows nobody.
func (a *AllowList) Allowed(id string) bool {
	if a == nil || id == "" {
		return false
	}

	_, ok := a.ids[xxhash.Sum64String(id)]
	return ok
}

// Len returns the number of distinct identifiers.
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}

	return len(a.ids)
}
