// Package services translates typed application calls into database
// operations, one service per collection. Every service follows the same
// template: GetAll / GetByID / Create / Update / Delete plus
// single-predicate finders. Absence is reported as a nil result, never as
// an error; database errors propagate to the caller unchanged.
package services

import (
	"time"
)

// nameSentinel is the high code point used as the upper bound of the
// half-open prefix range in SearchByName. The query only matches
// case-sensitive prefixes, not substrings.
const nameSentinel = "\uf8ff"

// defaultListLimit bounds GetAll when the caller passes no limit.
const defaultListLimit = 50

// now returns the server write time. It matches the database NowFunc so
// stored timestamps and stamped audit fields agree.
func now() time.Time {
	return time.Now().UTC()
}

// sanitizePatch strips immutable columns from a shallow-merge patch and
// stamps the update audit fields. Patch keys are column names; fields not
// present in the patch are left untouched by the merge.
func sanitizePatch(patch map[string]interface{}, actorID string) map[string]interface{} {
	cleaned := make(map[string]interface{}, len(patch)+2)
	for k, v := range patch {
		switch k {
		case "id", "created_at", "created_by", "updated_at", "updated_by":
			continue
		}
		cleaned[k] = v
	}
	cleaned["updated_at"] = now()
	cleaned["updated_by"] = actorID
	return cleaned
}

func listLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
