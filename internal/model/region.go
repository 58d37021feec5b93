package model

import "strings"

// NormalizeRegion canonicalizes a free-text region value. Every write path
// (patient, doctor, facility) stores the normalized form, so reviewer
// resolution can compare regions with plain equality.
func NormalizeRegion(region string) string {
	return strings.ToLower(strings.TrimSpace(region))
}
