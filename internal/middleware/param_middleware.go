package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractUUIDParam создает middleware для извлечения и валидации UUID параметра URL.
// paramName - имя параметра в URL (например, "eventId").
// contextKey - ключ, под которым значение будет сохранено в контексте Gin.
func ExtractUUIDParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param(paramName))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			return
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// UUIDFromContext возвращает UUID, сохраненный ExtractUUIDParam
func UUIDFromContext(c *gin.Context, contextKey string) uuid.UUID {
	if raw, ok := c.Get(contextKey); ok {
		if id, ok := raw.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
