package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewIdempotencyKey generates a key for one submit action
func NewIdempotencyKey() string {
	return uuid.New().String()
}

// GenerateBillReference derives a short printable reference from an idempotency key
func GenerateBillReference(key string) string {
	compact := strings.ToUpper(strings.ReplaceAll(key, "-", ""))
	if len(compact) > 10 {
		compact = compact[:10]
	}
	return "BILL-" + compact
}
