package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// NewUUID generates a new UUID
func NewUUID() uuid.UUID {
	return uuid.New()
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FormatReference builds a sequential document reference like QT-000042
func FormatReference(prefix string, number int) string {
	return fmt.Sprintf("%s-%06d", prefix, number)
}
