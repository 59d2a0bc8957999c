package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// более устойчиво к типам (int / int64 / float64 / string)
func getIntFromCtx(c *gin.Context, key string) (int, bool) {
	v, ok := c.Get(key)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n, true
		}
	}
	return 0, false
}

func getUserAndRole(c *gin.Context) (userID int, role string) {
	if id, ok := getIntFromCtx(c, "user_id"); ok {
		userID = id
	}
	if v, ok := c.Get("role"); ok {
		if s, ok := v.(string); ok {
			role = s
		}
	}
	return
}

// optionalUserID — user_id или nil для гостя.
func optionalUserID(c *gin.Context) *int {
	if id, ok := getIntFromCtx(c, "user_id"); ok && id > 0 {
		return &id
	}
	return nil
}

func parsePaging(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return
}

const (
	signupSessionCookie = "signup_session"
	cartSessionCookie   = "cart_session"
)

// sessionID возвращает значение куки, при отсутствии выпускает новую.
func sessionID(c *gin.Context, cookie string) string {
	if v, err := c.Cookie(cookie); err == nil && v != "" {
		return v
	}
	v := uuid.NewString()
	c.SetCookie(cookie, v, 30*24*60*60, "/", "", false, true)
	return v
}

func signupSessionID(c *gin.Context) string { return sessionID(c, signupSessionCookie) }
func cartSessionID(c *gin.Context) string   { return sessionID(c, cartSessionCookie) }
