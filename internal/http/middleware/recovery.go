package middleware

import (
	"log"
	"net/http"

	"edubackend/internal/http/web"

	"github.com/gin-gonic/gin"
)

// Recovery is the outermost fault boundary. Panics from handlers are
// logged with their request id and turned into a generic 500 envelope
// that leaks no internal detail.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("[FAULT] request_id=%s path=%s panic=%v", GetRequestID(c), c.Request.URL.Path, recovered)
		web.AbortFail(c, http.StatusInternalServerError, "internal server error")
	})
}
