package domain

import (
	"strings"

	"github.com/google/uuid"
)

// ParseID validates a UUID identifier and returns it in canonical form.
func ParseID(kind, raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", Validationf("invalid %s id %q", kind, raw)
	}
	return id.String(), nil
}
