package store

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/projethon/projethon/db"
	"github.com/projethon/projethon/internal/apperror"
	"github.com/projethon/projethon/internal/attachments"
	"github.com/projethon/projethon/internal/models"
	"gorm.io/gorm"
)

// ProjectSummary is the read shape for project listings: the row joined
// with its author name, latest attachment and review aggregates. AvgRating
// is 0, not null, when no reviews exist.
type ProjectSummary struct {
	ID          uint      `gorm:"column:id" json:"id"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	AuthorID    uint      `gorm:"column:author_id" json:"author_id"`
	AuthorName  string    `gorm:"column:author_name" json:"author_name"`
	Section     string    `gorm:"column:section" json:"section"`
	Group       string    `gorm:"column:grp" json:"group"`
	FullName    string    `gorm:"column:full_name" json:"full_name"`
	Matricule   string    `gorm:"column:matricule" json:"matricule"`
	FileURL     string    `gorm:"column:file_url" json:"file_url"`
	AvgRating   float64   `gorm:"column:avg_rating" json:"avg_rating"`
	ReviewCount int64     `gorm:"column:review_count" json:"review_count"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// summaryQuery builds the shared join. The latest-attachment subquery and
// the COALESCE around AVG keep the result shape identical on both backends.
func summaryQuery(conn *gorm.DB) *gorm.DB {
	return conn.Table("projects").
		Select(`projects.id, projects.title, projects.description, projects.author_id,
			projects.section, projects.grp, projects.full_name, projects.matricule,
			projects.created_at,
			users.username AS author_name,
			COALESCE((SELECT pf.file_url FROM project_files pf
				WHERE pf.project_id = projects.id
				ORDER BY pf.created_at DESC, pf.id DESC LIMIT 1), '') AS file_url,
			COALESCE(AVG(reviews.rating), 0) AS avg_rating,
			COUNT(reviews.id) AS review_count`).
		Joins("JOIN users ON users.id = projects.author_id").
		Joins("LEFT JOIN reviews ON reviews.project_id = projects.id").
		Group("projects.id, projects.title, projects.description, projects.author_id, projects.section, projects.grp, projects.full_name, projects.matricule, projects.created_at, users.username")
}

// ListProjects returns all projects newest first, optionally narrowed by
// section and/or group. Both filters together are conjunctive.
func ListProjects(section, group string) ([]ProjectSummary, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	q := summaryQuery(conn)

	if section != "" {
		q = q.Where("projects.section = ?", section)
	}
	if group != "" {
		q = q.Where("projects.grp = ?", group)
	}

	summaries := []ProjectSummary{}
	if err := q.Order("projects.created_at DESC").Scan(&summaries).Error; err != nil {
		return nil, err
	}

	return summaries, nil
}

// ListProjectsByAuthor backs the public profile page.
func ListProjectsByAuthor(authorID uint) ([]ProjectSummary, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	summaries := []ProjectSummary{}
	err = summaryQuery(conn).
		Where("projects.author_id = ?", authorID).
		Order("projects.created_at DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

func GetProject(id uint) (*ProjectSummary, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	var summary ProjectSummary
	result := summaryQuery(conn).Where("projects.id = ?", id).Scan(&summary)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperror.NotFound("project", id)
	}

	return &summary, nil
}

type ProjectInput struct {
	Title       string
	Description string
	Section     string
	Group       string
	FullName    string
	Matricule   string
}

func validateProjectInput(in ProjectInput) error {
	if len(strings.TrimSpace(in.Title)) < 3 {
		return apperror.Validation("title", "title must be at least 3 characters")
	}
	if len(strings.TrimSpace(in.Description)) < 10 {
		return apperror.Validation("description", "description must be at least 10 characters")
	}
	return nil
}

// UploadedFile carries the bytes of a multipart upload into the store layer.
type UploadedFile struct {
	Data     []byte
	MimeType string
}

// CreateProject inserts the project and, when a file accompanied it, stores
// the bytes and links the attachment afterwards. A sink or attachment-row
// failure after the project insert is logged and the project is returned
// without an attachment; it is not rolled back.
func CreateProject(authorID uint, in ProjectInput, file *UploadedFile, sink attachments.Sink) (*models.Project, string, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, "", err
	}

	if err := validateProjectInput(in); err != nil {
		return nil, "", err
	}

	project := models.Project{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		AuthorID:    authorID,
		Section:     strings.TrimSpace(in.Section),
		Group:       strings.TrimSpace(in.Group),
		FullName:    strings.TrimSpace(in.FullName),
		Matricule:   strings.TrimSpace(in.Matricule),
	}

	if err := conn.Create(&project).Error; err != nil {
		return nil, "", err
	}

	fileURL := ""
	if file != nil && sink != nil {
		ref, err := sink.Store(file.Data, file.MimeType, "project-"+strconv.FormatUint(uint64(project.ID), 10))
		if err != nil {
			log.Printf("Failed to store attachment for project %d: %v", project.ID, err)
			return &project, "", nil
		}

		if ref != "" {
			attachment := models.Attachment{ProjectID: project.ID, FileURL: ref}
			if err := conn.Create(&attachment).Error; err != nil {
				log.Printf("Failed to link attachment for project %d: %v", project.ID, err)
				go sink.Remove(ref)
				return &project, "", nil
			}
			fileURL = ref
		}
	}

	return &project, fileURL, nil
}

// UpdateProject replaces the editable fields wholesale; callers resend
// unchanged values. Only the author may update.
func UpdateProject(id, requesterID uint, in ProjectInput) (*models.Project, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := conn.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("project", id)
		}
		return nil, err
	}

	if project.AuthorID != requesterID {
		return nil, apperror.Forbidden("only the project author can update it")
	}

	if err := validateProjectInput(in); err != nil {
		return nil, err
	}

	project.Title = strings.TrimSpace(in.Title)
	project.Description = strings.TrimSpace(in.Description)
	project.Section = strings.TrimSpace(in.Section)
	project.Group = strings.TrimSpace(in.Group)
	project.FullName = strings.TrimSpace(in.FullName)
	project.Matricule = strings.TrimSpace(in.Matricule)

	if err := conn.Save(&project).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// DeleteProject removes the project and its dependents in FK order:
// reviews, then attachments, then the row itself, in one transaction.
// Stored bytes are cleaned up afterwards, best-effort.
func DeleteProject(id, requesterID uint, sink attachments.Sink) error {
	conn, err := db.Conn()
	if err != nil {
		return err
	}

	var project models.Project
	if err := conn.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("project", id)
		}
		return err
	}

	if project.AuthorID != requesterID {
		return apperror.Forbidden("only the project author can delete it")
	}

	var refs []string
	if err := conn.Model(&models.Attachment{}).
		Where("project_id = ?", id).
		Pluck("file_url", &refs).Error; err != nil {
		return err
	}

	err = conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
	if err != nil {
		return err
	}

	if sink != nil {
		go func() {
			for _, ref := range refs {
				sink.Remove(ref)
			}
		}()
	}

	return nil
}
