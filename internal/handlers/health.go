package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/projethon/projethon/db"
)

func HealthCheck(c *gin.Context) {
	database := "ok"
	if !db.Available() {
		database = "unavailable"
	}

	c.JSON(200, gin.H{
		"status":    "ok",
		"database":  database,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
