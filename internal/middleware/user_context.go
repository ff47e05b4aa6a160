package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clientdesk/internal/models"
)

const userKey = "CurrentUser"

// InjectUser resolves the session's user_id into a full User record on
// every request. The lookup excludes soft-deleted users, so a removed
// account loses access immediately.
func InjectUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uidRaw := sess.Get("user_id"); uidRaw != nil {
			if uid, ok := uidRaw.(uint); ok && uid > 0 {
				var user models.User
				if err := db.First(&user, uid).Error; err == nil {
					c.Set(userKey, &user)
				}
			}
		}

		c.Next()
	}
}

// CurrentUser returns the caller resolved by InjectUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
