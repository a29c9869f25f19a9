package normalize

import "strings"

// unknownEntity is returned when a park reference carries no country-entity
// prefix.
const unknownEntity = "unknown"

// ExtractEntity returns the country-entity prefix of a park reference, the
// portion before the first "-": "K-1234" -> "K", "US-PA-1234" -> "US",
// "" -> "unknown".
func ExtractEntity(reference string) string {
	if reference == "" {
		return unknownEntity
	}
	if idx := strings.IndexByte(reference, '-'); idx >= 0 {
		if idx == 0 {
			return unknownEntity
		}
		return reference[:idx]
	}
	return reference
}
