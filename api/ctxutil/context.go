package ctxutil

import (
	"context"

	"sales-service/api/response"
	"sales-service/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID copies the request ID from the gin context onto the
// request context, where the persistence layer can see it.
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
