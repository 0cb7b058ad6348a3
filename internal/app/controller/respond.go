package controller

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/internal/validation"
)

// Pagination bounds the limit query parameter.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// respondError maps a service error onto the HTTP error contract.
func respondError(c *gin.Context, err error, action string) {
	log := middleware.GetLoggerFromContext(c)

	var svcErr *service.Error
	switch {
	case errors.Is(err, service.ErrNotFound):
		apperrors.NotFound(c, service.Message(err))
	case errors.Is(err, service.ErrForbidden):
		apperrors.Forbidden(c, service.Message(err))
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.RespondWithFieldErrors(c, apperrors.FieldErrors{
			validation.NonFieldErrors: {service.Message(err)},
		})
	case errors.Is(err, service.ErrValidation):
		if fields := service.FieldMessages(err); len(fields) > 0 {
			apperrors.RespondWithFieldErrors(c, fields)
			return
		}
		apperrors.BadRequest(c, service.Message(err))
	case errors.As(err, &svcErr):
		apperrors.BadRequest(c, svcErr.Message)
	default:
		log.Error("Failed to "+action, err)
		apperrors.InternalError(c, "")
	}
}

// respondBindError answers a payload that failed to decode or validate.
func respondBindError(c *gin.Context, err error) {
	if fields, ok := validation.FieldErrors(err); ok {
		apperrors.RespondWithFieldErrors(c, fields)
		return
	}
	apperrors.BadRequest(c, err.Error())
}

// requireViewer returns the authenticated user id or answers 401.
func requireViewer(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
	}
	return userID, ok
}

// parseID reads a positive integer path parameter, answering 404 otherwise.
func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		apperrors.NotFound(c, "")
		return 0, false
	}
	return uint(id), true
}

// parseLimitOffset reads limit and offset, clamping limit to the configured maximum.
func (p Pagination) parseLimitOffset(c *gin.Context) (int, int, bool) {
	fields := apperrors.FieldErrors{}

	limit := p.DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields.Add("limit", "A positive integer is required.")
		} else {
			limit = n
		}
	}
	if p.MaxLimit > 0 && limit > p.MaxLimit {
		limit = p.MaxLimit
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields.Add("offset", "A non-negative integer is required.")
		} else {
			offset = n
		}
	}

	if len(fields) > 0 {
		apperrors.RespondWithFieldErrors(c, fields)
		return 0, 0, false
	}
	return limit, offset, true
}

// newPage wraps results with absolute next/previous links, keeping the other query parameters.
func newPage[T any](c *gin.Context, results []T, total int64, limit, offset int) service.Page[T] {
	page := service.Page[T]{Count: total, Results: results}
	if page.Results == nil {
		page.Results = []T{}
	}

	if int64(offset+limit) < total {
		next := pageURL(c, limit, offset+limit)
		page.Next = &next
	}
	if offset > 0 {
		prevOffset := offset - limit
		if prevOffset < 0 {
			prevOffset = 0
		}
		prev := pageURL(c, limit, prevOffset)
		page.Previous = &prev
	}
	return page
}

func pageURL(c *gin.Context, limit, offset int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	query := c.Request.URL.Query()
	query.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	} else {
		query.Del("offset")
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
