package common

import (
	"strconv"
	"strings"
	"unicode"
)

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest, "co_owner" becomes "Co_Owner".
func TitleCase(s string) string {
	runes := []rune(strings.ToLower(s))
	newWord := true
	for i, r := range runes {
		if newWord && unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
		}
		newWord = !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}

	return string(runes)
}

// RoleDisplay is the human readable name of a role.
func RoleDisplay(role string) string {
	return strings.ReplaceAll(TitleCase(role), "_", " ")
}

// ParseIDList parses a comma separated list of ids, ignoring invalid items.
func ParseIDList(s string) []int64 {
	ids := []int64{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if id, err := strconv.ParseInt(part, 10, 64); err == nil && id >= 0 {
			ids = append(ids, id)
		}
	}

	return ids
}
