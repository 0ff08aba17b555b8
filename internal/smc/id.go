package smc

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// featureID derives a stable UUID for a detected feature from its kind,
// anchor time and price level. Deterministic IDs keep Analyze idempotent:
// two runs over the same series produce field-for-field identical results.
func featureID(kind string, t time.Time, level float64) string {
	name := fmt.Sprintf("%s|%d|%.8f", kind, t.UnixMilli(), level)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
