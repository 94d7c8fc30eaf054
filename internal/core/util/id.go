package util

import (
	"strings"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
)

// NewHexID returns a random UUID without dashes, which matches the hex32 id format.
func NewHexID() domain.ID {
	return domain.MustParseID(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
