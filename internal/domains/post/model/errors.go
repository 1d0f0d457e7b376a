package model

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"blogcms-backend/internal/shared/response"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrInvalidCursor   = errors.New("invalid cursor")
	ErrInvalidStatus   = errors.New("invalid post status")
	ErrSlugConflict    = errors.New("slug already exists")
	ErrNotPublished    = errors.New("post is not published")
	ErrDatabaseQuery   = errors.New("database query error")
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrTagNotFound     = errors.New("tag not found")
	ErrInvalidSort     = errors.New("invalid sort parameter")
	ErrContentTooLarge = errors.New("content document too large")
	ErrInvalidContent  = errors.New("content document is not valid")
	ErrMediaTooLarge   = errors.New("media file too large")
	ErrEmptyMedia      = errors.New("media file is empty")
)

var postErrorMap = map[error]struct {
	Status  int
	Code    string
	Message string
}{
	ErrPostNotFound: {
		Status:  http.StatusNotFound,
		Code:    "POST_001",
		Message: "The specified post does not exist",
	},
	ErrInvalidCursor: {
		Status:  http.StatusBadRequest,
		Code:    "POST_002",
		Message: "The pagination cursor is not a valid post ID",
	},
	ErrSlugConflict: {
		Status:  http.StatusConflict,
		Code:    "POST_003",
		Message: "A post with this slug already exists",
	},
	ErrInvalidStatus: {
		Status:  http.StatusBadRequest,
		Code:    "POST_004",
		Message: "Post status must be draft, published or archived",
	},
	ErrTagNotFound: {
		Status:  http.StatusBadRequest,
		Code:    "POST_005",
		Message: "One or more tags do not exist",
	},
	ErrInvalidSort: {
		Status:  http.StatusBadRequest,
		Code:    "POST_006",
		Message: "Unsupported sort field or direction",
	},
	ErrContentTooLarge: {
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "POST_007",
		Message: "The content document exceeds the maximum size",
	},
	ErrNotPublished: {
		Status:  http.StatusConflict,
		Code:    "POST_008",
		Message: "The post must be published before it can be processed",
	},
	ErrInvalidContent: {
		Status:  http.StatusBadRequest,
		Code:    "POST_009",
		Message: "The content document is not a valid node tree",
	},
	ErrMediaTooLarge: {
		Status:  http.StatusRequestEntityTooLarge,
		Code:    "POST_010",
		Message: "The media file exceeds the maximum upload size",
	},
	ErrEmptyMedia: {
		Status:  http.StatusBadRequest,
		Code:    "POST_011",
		Message: "The media file is empty",
	},
}

// HandlePostError maps a domain error to an HTTP response.
// Returns true when the error was handled.
func HandlePostError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for domainErr, mapping := range postErrorMap {
		if errors.Is(err, domainErr) {
			response.ErrorResponse(c, mapping.Status, mapping.Code, mapping.Message)
			return true
		}
	}

	response.ErrorResponse(c, http.StatusInternalServerError, "SYS_001", "Internal server error")
	return true
}
