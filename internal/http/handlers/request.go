package handlers

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/hummingbird-backend/internal/platform/apierr"
)

var errInvalidJSON = apierr.BadRequest("invalid_request", "Invalid JSON payload")

func requireUUID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, apierr.BadRequest("invalid_request", "missing %s", field)
	}
	return parseUUID(field, raw)
}

// optionalUUID returns nil for an empty value.
func optionalUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := parseUUID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierr.BadRequest("invalid_request", "invalid %s", field)
	}
	return id, nil
}
