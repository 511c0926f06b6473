package handler

import (
	"github.com/gin-gonic/gin"

	"acadtrack/backend/internal/service"
	"acadtrack/backend/pkg/response"
)

// MustGetUserID reads the user_id injected by JWTAuth.
// On failure a 401 has already been written and the caller should return.
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetRole reads the role injected by JWTAuth
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// MustGetCaller builds the request-scoped identity passed to services
func MustGetCaller(c *gin.Context) (service.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return service.Caller{}, false
	}
	// only student tokens carry a student_id
	studentID := c.GetString("student_id")
	return service.Caller{UserID: userID, Role: role, StudentID: studentID}, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}
