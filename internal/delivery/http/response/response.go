package response

import (
	"github.com/gin-gonic/gin"
)

// Response standardizes the success JSON body
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ID        string `json:"id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps failures as {"detail": {...}} so clients find the
// message at detail.message whatever the status code.
type ErrorResponse struct {
	Detail map[string]interface{} `json:"detail"`
}

// Success sends a success response; id is omitted when empty
func Success(c *gin.Context, code int, message, id string) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		ID:        id,
		RequestID: requestID(c),
	})
}

// Error sends an error response; extra keys land next to message inside detail
func Error(c *gin.Context, code int, message string, extra map[string]interface{}) {
	detail := map[string]interface{}{
		"success": false,
		"message": message,
	}
	for k, v := range extra {
		detail[k] = v
	}
	if id := requestID(c); id != "" {
		detail["request_id"] = id
	}
	c.JSON(code, ErrorResponse{Detail: detail})
}

func requestID(c *gin.Context) string {
	reqID, _ := c.Get("RequestID")
	idStr, _ := reqID.(string) // Safe type assertion
	return idStr
}
