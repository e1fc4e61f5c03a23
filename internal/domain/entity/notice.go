package entity

import (
	"time"

	"github.com/sangkips/pharmabill-api/internal/domain/enum"
)

// Notice is a banner shown to the operator until it expires
type Notice struct {
	Kind      enum.NoticeKind `json:"kind"`
	Message   string          `json:"message"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Active reports whether the notice is still visible at now
func (n Notice) Active(now time.Time) bool {
	return now.Before(n.ExpiresAt)
}
