package matching

import "strings"

// Regions maps a region name to the location tokens that belong to it. The
// tables are deliberately plain data so they can be inspected, tested and
// extended without touching the scoring math.
var Regions = map[string][]string{
	"west-coast": {
		"ca", "california",
		"wa", "washington",
		"or", "oregon",
	},
	"east-coast": {
		"ny", "new york",
		"ma", "massachusetts",
		"nj", "new jersey",
		"ct", "connecticut",
	},
	"texas": {
		"tx", "texas",
	},
}

// regionOf returns the region a location token belongs to, or "".
func regionOf(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return ""
	}

	for region, members := range Regions {
		for _, member := range members {
			if member == token {
				return region
			}
		}
	}

	return ""
}

// regionToken extracts the trailing region/state token from a location
// string such as "San Francisco, CA".
func regionToken(location string) string {
	parts := strings.Split(location, ",")

	return strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
}
