package expiration

import (
	"fmt"
	"time"
)

// Record binds an absolute expiration timestamp to a namespaced key derived
// from a level's role. The key is identical across both storage tiers.
type Record struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Key derives the storage key for a level's discount window,
// e.g. svbk_rcp_ctd_premium_discount_expires.
func Key(prefix, role string) string {
	return fmt.Sprintf("%s_%s_discount_expires", prefix, role)
}
