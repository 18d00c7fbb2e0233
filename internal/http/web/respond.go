// Package web defines the wire-level response envelope and the static
// mapping from failure codes to HTTP statuses. It is shared by the
// router and the middleware so both write the same shape.
package web

import (
	"log"
	"net/http"

	"edubackend/internal/dispatch"
	"edubackend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every JSON response. It is a pure projection
// of a dispatch.Result and holds no state of its own.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// statusByCode is the one place failure codes become HTTP statuses.
var statusByCode = map[string]int{
	domain.CodeNotFound:         http.StatusNotFound,
	domain.CodeConflict:         http.StatusConflict,
	domain.CodeValidationFailed: http.StatusBadRequest,
	domain.CodeUnauthorized:     http.StatusUnauthorized,
	domain.CodeForbidden:        http.StatusForbidden,
	domain.CodeInternal:         http.StatusInternalServerError,
}

// StatusForCode resolves a failure code to its HTTP status. Codes
// outside the closed set fall back to 500; emitting one is a defect.
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	log.Printf("[DEFECT] unmapped error code %q", code)
	return http.StatusInternalServerError
}

// Result writes the envelope for a dispatched outcome: 200 on success,
// the mapped status on failure.
func Result(c *gin.Context, res dispatch.Result[any]) {
	if res.Succeeded() {
		c.JSON(http.StatusOK, Envelope{Success: true, Message: res.Message(), Data: res.Data()})
		return
	}
	c.JSON(StatusForCode(res.ErrorCode()), Envelope{Success: false, Message: res.Message()})
}

// Fail writes a failure envelope outside the dispatch path (malformed
// input, auth short-circuits, fault boundary).
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: false, Message: message})
}

// AbortFail is Fail plus aborting the remaining handler chain; it is
// what pre-dispatch middleware uses to short-circuit.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
