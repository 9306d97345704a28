package middleware

import (
	"github.com/gin-gonic/gin"
)

// ValidatedBodyKey is the gin context key holding the bound request body
const ValidatedBodyKey = "validatedBody"

// ValidateRequest binds and validates the JSON body into a fresh T before the handler
// runs. Validation uses gin's binding engine, so the custom tags registered by
// validation.RegisterWithGin apply. Invalid bodies are rejected with 400.
func ValidateRequest[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := new(T)
		if err := c.ShouldBindJSON(body); err != nil {
			RespondBindingError(c, err)
			return
		}

		c.Set(ValidatedBodyKey, body)
		c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateRequest
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	value, ok := c.Get(ValidatedBodyKey)
	if !ok {
		return nil, false
	}
	body, ok := value.(*T)
	return body, ok
}
