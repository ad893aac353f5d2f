package response

import (
	"github.com/gin-gonic/gin"

	"github.com/userdir/user-directory-api/pkg/pagination"
)

// Envelope is the JSON body every endpoint returns.
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Pagination *pagination.Meta  `json:"pagination,omitempty"`
	Error      string            `json:"error,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
}

// Success writes a success envelope.
func Success(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// List writes a success envelope with pagination metadata.
func List(c *gin.Context, status int, data any, message string, meta *pagination.Meta) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data, Pagination: meta})
}

// Error writes a failure envelope; details is the optional field→message map.
func Error(c *gin.Context, status int, errMsg string, details map[string]string) {
	c.JSON(status, Envelope{Success: false, Error: errMsg, Details: details})
}
