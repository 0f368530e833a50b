package models

import "time"

type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	AuthorID    uint   `gorm:"not null;index" json:"author_id"`
	Section     string `json:"section"`
	// "group" is a reserved word on both backends; keep the column neutral.
	Group     string    `gorm:"column:grp" json:"group"`
	FullName  string    `json:"full_name"`
	Matricule string    `json:"matricule"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Author      User         `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Reviews     []Review     `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Attachments []Attachment `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
