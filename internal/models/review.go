package models

import "time"

// Review holds one reviewer's rating of one project. The composite unique
// index is the authoritative guard against duplicate (project, reviewer)
// rows; the store's lookup before insert is only the friendly fast path.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"not null;uniqueIndex:idx_reviews_project_reviewer" json:"project_id"`
	ReviewerID uint      `gorm:"not null;uniqueIndex:idx_reviews_project_reviewer" json:"reviewer_id"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Reviewer User    `gorm:"foreignKey:ReviewerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
