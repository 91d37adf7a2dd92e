package handler

import (
	app_errors "lingoflow/internal/errors"
	"lingoflow/internal/response"

	"github.com/gin-gonic/gin"
)

// CreateSegmentRequest defines the payload for appending a segment.
type CreateSegmentRequest struct {
	Ordinal    int    `json:"ordinal" binding:"required"`
	SourceText string `json:"source_text" binding:"required"`
}

// CreateSegment handles POST /api/documents/:id/segments.
func (s *Server) CreateSegment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req CreateSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	segment, err := s.SegmentService.Create(c.Request.Context(), c.Param("id"), actorID, req.Ordinal, req.SourceText)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "segment.created", segment)
}

// ListSegments handles GET /api/documents/:id/segments.
func (s *Server) ListSegments(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	segments, err := s.SegmentService.List(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, segments)
}

// GetSegment handles GET /api/segments/:id.
func (s *Server) GetSegment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	segment, err := s.SegmentService.Get(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, segment)
}

// versionedRequest carries the optimistic concurrency token every segment
// mutation requires.
type versionedRequest struct {
	Version int64 `json:"version" binding:"required"`
}

// TranslateSegment handles POST /api/segments/:id/translate.
func (s *Server) TranslateSegment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req versionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	segment, err := s.SegmentService.Translate(c.Request.Context(), c.Param("id"), actorID, req.Version)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "segment.translated", segment)
}

// EditSegmentRequest defines the payload for a human edit.
type EditSegmentRequest struct {
	TargetText string `json:"target_text" binding:"required"`
	Version    int64  `json:"version" binding:"required"`
}

// EditSegment handles PUT /api/segments/:id.
func (s *Server) EditSegment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req EditSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	segment, err := s.SegmentService.Edit(c.Request.Context(), c.Param("id"), actorID, req.TargetText, req.Version)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "segment.edited", segment)
}

// ReviewSegmentRequest defines the payload for a review decision. A
// rejection must carry a comment.
type ReviewSegmentRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
	Version int64  `json:"version" binding:"required"`
}

// ReviewSegment handles POST /api/segments/:id/review.
func (s *Server) ReviewSegment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req ReviewSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	segment, err := s.SegmentService.Review(c.Request.Context(), c.Param("id"), actorID, req.Approve, req.Comment, req.Version)
	if HandleServiceError(c, err) {
		return
	}
	if req.Approve {
		response.SuccessI18n(c, "segment.approved", segment)
	} else {
		response.SuccessI18n(c, "segment.rejected", segment)
	}
}

// ReopenSegment handles POST /api/segments/:id/reopen.
func (s *Server) ReopenSegment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req versionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	segment, err := s.SegmentService.Reopen(c.Request.Context(), c.Param("id"), actorID, req.Version)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "segment.reopened", segment)
}

// ResetSegment handles POST /api/segments/:id/reset.
func (s *Server) ResetSegment(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	var req versionedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, app_errors.NewAPIError(app_errors.ErrInvalidJSON, err.Error()))
		return
	}

	segment, err := s.SegmentService.Reset(c.Request.Context(), c.Param("id"), actorID, req.Version)
	if HandleServiceError(c, err) {
		return
	}
	response.SuccessI18n(c, "segment.reset", segment)
}

// SegmentComments handles GET /api/segments/:id/comments.
func (s *Server) SegmentComments(c *gin.Context) {
	actorID, ok := requireActor(c)
	if !ok {
		return
	}
	comments, err := s.SegmentService.Comments(c.Request.Context(), c.Param("id"), actorID)
	if HandleServiceError(c, err) {
		return
	}
	response.Success(c, comments)
}
