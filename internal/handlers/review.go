package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/projethon/projethon/internal/store"
	"github.com/projethon/projethon/internal/utils"
)

type UpsertReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// UpsertReview records the caller's review of a project. A first submission
// responds 201; a repeat submission overwrites the existing review and
// responds 200.
func UpsertReview(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	projectID, ok := paramID(ctx, "id")

	if !ok {
		return
	}

	var body UpsertReviewRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	review, created, err := store.UpsertReview(projectID, userID, body.Rating, body.Comment)

	if err != nil {
		respondError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	ctx.JSON(status, review)
}

func ListReviews(ctx *gin.Context) {
	projectID, ok := paramID(ctx, "id")

	if !ok {
		return
	}

	reviews, err := store.ListReviews(projectID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

// MyReview returns the caller's review of a project, or a JSON null when
// they have not reviewed it.
func MyReview(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	projectID, ok := paramID(ctx, "id")

	if !ok {
		return
	}

	review, err := store.GetMyReview(projectID, userID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, review)
}
