package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
)

// pathID parses the int64 path parameter name. On failure it records an
// INVALID_REQUEST error and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperrors.ErrInvalidRequestf("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

// bindJSON decodes the request body into dst. On failure it records an
// INVALID_REQUEST error and returns false.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(apperrors.Wrap(err, apperrors.CodeInvalidRequest, "malformed request body", http.StatusBadRequest))
		return false
	}
	return true
}

// parseChannels converts channel names, reporting INVALID_CHANNEL.
func parseChannels(c *gin.Context, names []string) ([]domain.Channel, bool) {
	channels, err := domain.ParseChannels(names)
	if err != nil {
		_ = c.Error(apperrors.BadRequest(apperrors.CodeInvalidChannel, err.Error()))
		return nil, false
	}
	return channels, true
}

// parseCategory maps a display label to a Category. An unknown label yields
// CategoryUnknown; callers decide whether that is an error.
func parseCategory(label string) domain.Category {
	cat, _ := domain.ParseCategory(label)
	return cat
}
