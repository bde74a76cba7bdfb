package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domain "orb-service/internal/domain/user"
	"orb-service/internal/usecase/auth"
	pkgerrors "orb-service/pkg/errors"
	"orb-service/pkg/logger"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "orb_session"

// currentUserKey is the gin context key holding the restored user.
const currentUserKey = "current_user"

// LoginMessage is shown to unauthenticated clients, matching the page flash.
const LoginMessage = "Please log in to access this page."

// RequireAuth restores the session user from the cookie and aborts with 401
// when no live session exists. A dead token is "not logged in", never a 500.
func RequireAuth(authUC auth.Usecase, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)

		u, err := authUC.Restore(c.Request.Context(), token)
		if err != nil {
			log.Error("session restoration failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "An internal error occurred",
			})
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": LoginMessage,
				"login":   "/api/auth/login",
			})
			return
		}

		SetCurrentUser(c, u)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, strconv.FormatInt(u.ID, 10))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireAdmin gates a route to admin users. Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil || !u.IsAdmin() {
			err := pkgerrors.NewForbiddenError("admin role required")
			c.AbortWithStatusJSON(pkgerrors.StatusOf(err), gin.H{
				"error":   "forbidden",
				"message": err.Error(),
			})
			return
		}
		c.Next()
	}
}

// SetCurrentUser stores the authenticated user on the gin context.
func SetCurrentUser(c *gin.Context, u *domain.User) {
	c.Set(currentUserKey, u)
}

// CurrentUser returns the user restored by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
