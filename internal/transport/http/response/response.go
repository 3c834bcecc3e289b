package response

import "github.com/gin-gonic/gin"

const (
	CodeBadRequest           = 40000
	CodeUnauthorized         = 40100
	CodeInvalidCredentials   = 40101
	CodeNotFound             = 40400
	CodeDatasetNotFound      = 40401
	CodeConversationNotFound = 40402
	CodeMarketplaceNotFound  = 40403
	CodeInternalServer       = 50000
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON writes a resource as-is.
func JSON(c *gin.Context, httpStatus int, data interface{}) {
	c.JSON(httpStatus, data)
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIError{
		Code:    code,
		Message: message,
	})
}

// Abort writes an error and stops the handler chain.
func Abort(c *gin.Context, httpStatus, code int, message string) {
	c.AbortWithStatusJSON(httpStatus, APIError{
		Code:    code,
		Message: message,
	})
}
