package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projethon/projethon/internal/apperror"
	"github.com/projethon/projethon/internal/types"
)

// respondError maps classified errors to their status; anything else is
// logged in full and becomes a generic 500 unless running in development,
// where the detail is returned to ease debugging.
func respondError(ctx *gin.Context, err error) {
	status := apperror.Status(err)

	if status == http.StatusInternalServerError {
		log.Printf("Unhandled error on %s %s: %v", ctx.Request.Method, ctx.Request.URL.Path, err)

		if types.IsDevelopment() {
			ctx.JSON(status, gin.H{"error": err.Error()})
			return
		}

		ctx.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	ctx.JSON(status, gin.H{"error": err.Error()})
}
