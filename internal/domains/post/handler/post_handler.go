package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blogcms-backend/internal/domains/post/model"
	"blogcms-backend/internal/domains/post/service"
	"blogcms-backend/internal/shared/response"
)

// Handler - HTTP handler for the posts domain
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ============================================
// PUBLIC ENDPOINTS
// ============================================

// ListPosts - GET /v1/posts
// Query params: cursor, limit, tag
func (h *Handler) ListPosts(c *gin.Context) {
	req := model.ListPublicPostsRequest{
		Cursor: c.Query("cursor"),
		Tag:    c.Query("tag"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			req.Limit = l
		}
	}

	page, err := h.service.ListPublicPosts(c.Request.Context(), req)
	if handleError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Posts, &response.Meta{
		Limit:      req.Limit,
		NextCursor: page.NextCursor,
	})
}

// GetPost - GET /v1/posts/:slug
func (h *Handler) GetPost(c *gin.Context) {
	detail, err := h.service.GetPostBySlug(c.Request.Context(), c.Param("slug"))
	if handleError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// GetRelatedPosts - GET /v1/posts/:slug/related
func (h *Handler) GetRelatedPosts(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	items, err := h.service.GetRelatedPosts(c.Request.Context(), c.Param("slug"), limit)
	if handleError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, items)
}

// SearchPosts - GET /v1/search
// Query params: q, limit
func (h *Handler) SearchPosts(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			limit = l
		}
	}

	hits, err := h.service.SearchPosts(c.Request.Context(), c.Query("q"), limit)
	if handleError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, hits)
}

// ============================================
// ADMIN ENDPOINTS
// ============================================

// CreatePost - POST /v1/admin/posts
func (h *Handler) CreatePost(c *gin.Context) {
	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_001", "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), req)
	if handleError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, post)
}

// ListAdminPosts - GET /v1/admin/posts
// Query params: page, limit, status, search, sort_by, sort_dir
func (h *Handler) ListAdminPosts(c *gin.Context) {
	var req model.AdminListPostsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_001", "Invalid query parameters")
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	items, total, err := h.service.ListAdminPosts(c.Request.Context(), req)
	if handleError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// UpdatePost - PATCH /v1/admin/posts/:id
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_001", "Invalid request body")
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), id, req)
	if handleError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, post)
}

// DeletePost - DELETE /v1/admin/posts/:id
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if handleError(c, h.service.DeletePost(c.Request.Context(), id)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadMedia - POST /v1/admin/media
// Accepts one multipart file field named "file"
func (h *Handler) UploadMedia(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_001", "file is required (multipart/form-data)")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_001", "Unreadable upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_001", "Unreadable upload")
		return
	}

	upload, err := h.service.UploadMedia(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), data)
	if handleError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, upload)
}

// DeleteMedia - DELETE /v1/admin/media/*key
func (h *Handler) DeleteMedia(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_002", "Invalid media key")
		return
	}

	if handleError(c, h.service.DeleteMedia(c.Request.Context(), key)) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// GetSyncState - GET /v1/admin/posts/:id/sync-state
func (h *Handler) GetSyncState(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	synced, err := h.service.GetSyncState(c.Request.Context(), id)
	if handleError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"isSynced": synced})
}

// PublishPost - POST /v1/admin/posts/:id/publish
// Re-runs the publish pipeline; the way out of a drifted sync state.
func (h *Handler) PublishPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if handleError(c, h.service.StartPostProcessWorkflow(c.Request.Context(), id)) {
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"started": true})
}

// ============================================
// HELPERS
// ============================================

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_002", "Invalid post ID")
		return uuid.Nil, false
	}
	return id, true
}

// handleError routes validation failures to 400 and domain errors through
// the shared error map. Returns true when a response was written.
func handleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_001", "Invalid request", vErrs)
		return true
	}

	return model.HandlePostError(c, err)
}
