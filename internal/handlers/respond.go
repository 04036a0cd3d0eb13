package handlers

import (
	"errors"
	"net/http"

	"couples-gallery/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// respondError maps the service error taxonomy to stable status/kind pairs.
// Unknown errors become an opaque 500; internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, services.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseUUIDParam parses a path parameter, answering 400 itself on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// parseFormUUID reads a required UUID out of a multipart form field.
func parseFormUUID(c *gin.Context, field string) (uuid.UUID, error) {
	return parseUUIDValue(c.PostForm(field))
}

// parseUUIDValue parses a required UUID from any raw string source.
func parseUUIDValue(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, services.ErrInvalid
	}
	return id, nil
}

// parseOptionalParent normalizes the public "root" conventions: an absent
// value, the empty string and the literal "null" all select root level.
func parseOptionalParent(raw string) (*uuid.UUID, error) {
	if raw == "" || raw == "null" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, services.ErrInvalid
	}
	return &id, nil
}
