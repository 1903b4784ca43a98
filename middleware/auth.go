// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hugsy/ctfhub/logger"
)

// SessionMemberKey is the session variable holding the authenticated
// member id.
const SessionMemberKey = "member_id"

// AuthRequired ensures the request carries an authenticated session.
// Requests without one get a 401 and never reach the handler.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	raw := session.Get(SessionMemberKey)

	id, ok := raw.(string)
	if !ok || id == "" {
		logger.Warn.Printf("AuthRequired: unauthenticated request to %s", c.FullPath())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if _, err := uuid.Parse(id); err != nil {
		logger.Warn.Printf("AuthRequired: invalid member id in session: %v", err)
		session.Clear()
		_ = session.Save()
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	c.Set(SessionMemberKey, id)
	c.Next()
}

// CurrentMemberID returns the authenticated member id placed on the
// context by AuthRequired.
func CurrentMemberID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := c.Get(SessionMemberKey)
	if !ok {
		return uuid.Nil, false
	}
	s, _ := id.(string)
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return parsed, true
}
