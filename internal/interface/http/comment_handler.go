package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/pkg/response"
)

type CommentHandler struct {
	Perfumes *application.PerfumeService
}

func NewCommentHandler(perfumes *application.PerfumeService) *CommentHandler {
	return &CommentHandler{Perfumes: perfumes}
}

type commentRequest struct {
	Rating  int    `json:"rating" form:"rating" binding:"required,rating"`
	Content string `json:"content" form:"content" binding:"required"`
}

// Upsert POST /perfumes/:id/comments. A member's second comment replaces the first.
func (h *CommentHandler) Upsert(c *gin.Context) {
	id := c.Param("id")
	form := isForm(c)
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		if form {
			renderError(c, application.Validation("Rating must be 1 to 3 and content is required", nil), "/perfumes/"+id)
			return
		}
		respondBindError(c, err)
		return
	}
	p, created, err := h.Perfumes.UpsertComment(c.Request.Context(), id, currentID(c), req.Rating, req.Content)
	if err != nil {
		if form {
			renderError(c, err, "/perfumes/"+id)
			return
		}
		respondError(c, err)
		return
	}
	if form {
		c.Redirect(http.StatusSeeOther, "/perfumes/"+id)
		return
	}
	status, msg := http.StatusOK, "Comment updated"
	if created {
		status, msg = http.StatusCreated, "Comment added"
	}
	response.Success(c, status, p, msg, nil)
}

// Delete DELETE /perfumes/:id/comments, and POST /perfumes/:id/comments/delete
// for forms. Succeeds when there is nothing to delete.
func (h *CommentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	p, err := h.Perfumes.DeleteComment(c.Request.Context(), id, currentID(c))
	form := c.Request.Method == http.MethodPost
	if err != nil {
		if form {
			renderError(c, err, "/perfumes/"+id)
			return
		}
		respondError(c, err)
		return
	}
	if form {
		c.Redirect(http.StatusSeeOther, "/perfumes/"+id)
		return
	}
	response.Success(c, http.StatusOK, p, "Comment deleted", nil)
}
