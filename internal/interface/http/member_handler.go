package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
	"github.com/oksasatya/perfume-catalog/pkg/response"
)

type MemberHandler struct {
	Members *application.MemberService
	Cookies *helpers.Manager
}

func NewMemberHandler(members *application.MemberService, cookies *helpers.Manager) *MemberHandler {
	return &MemberHandler{Members: members, Cookies: cookies}
}

// List GET /api/members
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.Members.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, members, "Members", gin.H{"count": len(members)})
}

// Delete DELETE /api/members/:id. Members deleting themselves are logged out.
func (h *MemberHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Members.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if id == currentID(c) {
		h.Cookies.Clear(c)
	}
	response.Success[any](c, http.StatusOK, gin.H{"_id": id}, "Member deleted", nil)
}
