package store

import (
	"errors"
	"regexp"
	"strings"

	"github.com/projethon/projethon/db"
	"github.com/projethon/projethon/internal/apperror"
	"github.com/projethon/projethon/internal/auth"
	"github.com/projethon/projethon/internal/models"
	"gorm.io/gorm"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const searchLimit = 20

// RegisterUser validates and creates a new account. The existence lookup is
// a fast path for a friendly error; the unique indexes on username and email
// are the authoritative guard, so a concurrent duplicate insert still comes
// back as a conflict rather than a second row.
func RegisterUser(username, email, password string) (*models.User, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(username) < 3 {
		return nil, apperror.Validation("username", "username must be at least 3 characters")
	}
	if len(password) < 6 {
		return nil, apperror.Validation("password", "password must be at least 6 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.Validation("email", "email address is not valid")
	}

	var existing models.User
	err = conn.Where("username = ? OR email = ?", username, email).First(&existing).Error
	if err == nil {
		return nil, apperror.Conflict("username or email is already taken")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := conn.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("username or email is already taken")
		}
		return nil, err
	}

	return &user, nil
}

// VerifyUser checks credentials against one identifier field that matches
// either the username or the email. Unknown identifier and wrong password
// produce the same error so callers cannot probe for accounts.
func VerifyUser(identifier, password string) (*models.User, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	identifier = strings.TrimSpace(identifier)

	var user models.User
	err = conn.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Auth("invalid credentials")
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.Auth("invalid credentials")
	}

	return &user, nil
}

func GetUserByID(id uint) (*models.User, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := conn.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, err
	}

	return &user, nil
}

// SearchUsers matches usernames by substring, case-insensitively on both
// backends. Queries shorter than 2 characters return no results; hits are
// capped at 20.
func SearchUsers(query string) ([]models.User, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []models.User{}, nil
	}

	users := []models.User{}
	err = conn.
		Where("LOWER(username) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("username ASC").
		Limit(searchLimit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

type ProfileUpdate struct {
	Username string
	Email    string
	FullName string
	Bio      string
	// AvatarURL replaces the stored avatar reference when non-nil. A nil
	// pointer keeps the existing reference (upload skipped or no new file).
	AvatarURL *string
}

// UpdateProfile applies a profile change for the account owner. Username
// and email keep their current values when submitted empty; when changed
// they are re-checked for uniqueness against other rows.
func UpdateProfile(userID uint, in ProfileUpdate) (*models.User, error) {
	conn, err := db.Conn()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := conn.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", userID)
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"full_name": strings.TrimSpace(in.FullName),
		"bio":       strings.TrimSpace(in.Bio),
	}

	if username := strings.TrimSpace(in.Username); username != "" && username != user.Username {
		if len(username) < 3 {
			return nil, apperror.Validation("username", "username must be at least 3 characters")
		}
		if taken, err := identityTaken(conn, "username", username, userID); err != nil {
			return nil, err
		} else if taken {
			return nil, apperror.Conflict("username is already taken")
		}
		updates["username"] = username
	}

	if email := strings.ToLower(strings.TrimSpace(in.Email)); email != "" && email != user.Email {
		if !emailPattern.MatchString(email) {
			return nil, apperror.Validation("email", "email address is not valid")
		}
		if taken, err := identityTaken(conn, "email", email, userID); err != nil {
			return nil, err
		} else if taken {
			return nil, apperror.Conflict("email is already taken")
		}
		updates["email"] = email
	}

	if in.AvatarURL != nil {
		updates["avatar_url"] = *in.AvatarURL
	}

	if err := conn.Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("username or email is already taken")
		}
		return nil, err
	}

	if err := conn.First(&user, userID).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func identityTaken(conn *gorm.DB, column, value string, excludeID uint) (bool, error) {
	var count int64
	err := conn.Model(&models.User{}).
		Where(column+" = ? AND id != ?", value, excludeID).
		Count(&count).Error
	return count > 0, err
}
