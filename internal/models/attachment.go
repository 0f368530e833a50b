package models

import "time"

// Attachment links an uploaded file to its project. A project surfaces at
// most the latest row; older rows are tolerated until the project is deleted.
type Attachment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	FileURL   string    `gorm:"not null" json:"file_url"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

func (Attachment) TableName() string {
	return "project_files"
}
