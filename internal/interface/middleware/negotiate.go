package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// WantsHTML reports whether the client asked for an HTML page.
func WantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}

// IsForm reports whether the request body is an HTML form submission.
func IsForm(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == gin.MIMEPOSTForm || ct == gin.MIMEMultipartPOSTForm
}
