package store

import (
	"errors"
	"time"

	"github.com/projethon/projethon/db"
	"github.com/projethon/projethon/internal/apperror"
	"github.com/projethon/projethon/internal/models"
	"gorm.io/gorm"
)

// ReviewWithReviewer is the read shape for review listings.
type ReviewWithReviewer struct {
	ID             uint      `gorm:"column:id" json:"id"`
	ProjectID      uint      `gorm:"column:project_id" json:"project_id"`
	ReviewerID     uint      `gorm:"column:reviewer_id" json:"reviewer_id"`
	Rating         int       `gorm:"column:rating" json:"rating"`
	Comment        string    `gorm:"column:comment" json:"comment"`
	ReviewerName   string    `gorm:"column:reviewer_name" json:"reviewer_name"`
	ReviewerAvatar string    `gorm:"column:reviewer_avatar" json:"reviewer_avatar"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// UpsertReview records or replaces the caller's review of a project. At
// most one row exists per (project, reviewer): a repeat submission rewrites
// the rating and comment of the existing row instead of inserting. The
// returned bool is true when a new row was created. A reviewer may review
// their own project; no ownership check applies here.
func UpsertReview(projectID, reviewerID uint, rating int, comment string) (*models.Review, bool, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, false, err
	}

	if rating < 1 || rating > 5 {
		return nil, false, apperror.Validation("rating", "rating must be between 1 and 5")
	}

	var count int64
	if err := conn.Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return nil, false, err
	}
	if count == 0 {
		return nil, false, apperror.NotFound("project", projectID)
	}

	var review models.Review
	err = conn.Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).First(&review).Error

	if err == nil {
		review.Rating = rating
		review.Comment = comment
		if err := conn.Save(&review).Error; err != nil {
			return nil, false, err
		}
		return &review, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	review = models.Review{
		ProjectID:  projectID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    comment,
	}

	if err := conn.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent first submission by the
			// same reviewer; apply this one as the overwrite it now is.
			return UpsertReview(projectID, reviewerID, rating, comment)
		}
		return nil, false, err
	}

	return &review, true, nil
}

// ListReviews returns a project's reviews newest first, joined with the
// reviewer's public identity.
func ListReviews(projectID uint) ([]ReviewWithReviewer, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	reviews := []ReviewWithReviewer{}
	err = conn.Table("reviews").
		Select(`reviews.id, reviews.project_id, reviews.reviewer_id, reviews.rating,
			reviews.comment, reviews.created_at, reviews.updated_at,
			users.username AS reviewer_name,
			users.avatar_url AS reviewer_avatar`).
		Joins("JOIN users ON users.id = reviews.reviewer_id").
		Where("reviews.project_id = ?", projectID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&reviews).Error
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// GetMyReview returns the caller's review of a project, or nil without an
// error when they have not reviewed it yet.
func GetMyReview(projectID, reviewerID uint) (*models.Review, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	var review models.Review
	err = conn.Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &review, nil
}
