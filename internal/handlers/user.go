package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projethon/projethon/internal/attachments"
	"github.com/projethon/projethon/internal/store"
	"github.com/projethon/projethon/internal/types"
	"github.com/projethon/projethon/internal/utils"
)

func SearchUsers(ctx *gin.Context) {
	users, err := store.SearchUsers(ctx.Query("q"))

	if err != nil {
		respondError(ctx, err)
		return
	}

	results := make([]types.PublicUser, 0, len(users))
	for i := range users {
		results = append(results, types.NewPublicUser(&users[i]))
	}

	ctx.JSON(http.StatusOK, results)
}

// GetMe returns the caller's private profile, email included.
func GetMe(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	user, err := store.GetUserByID(currentUser.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewPrivateUser(user)})
}

// UpdateMe accepts a multipart form with the profile fields and an optional
// "avatar" image part. When an avatar is uploaded, the old reference is
// removed best-effort after the new one is recorded.
func UpdateMe(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, attachments.MaxAvatarBytes()+1<<20)

	update := store.ProfileUpdate{
		Username: ctx.PostForm("username"),
		Email:    ctx.PostForm("email"),
		FullName: ctx.PostForm("full_name"),
		Bio:      ctx.PostForm("bio"),
	}

	var oldAvatar string

	header, err := ctx.FormFile("avatar")

	switch {
	case errors.Is(err, http.ErrMissingFile):
		// no new avatar
	case err != nil:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "request body is too large or malformed"})
		return
	default:
		if err := attachments.ValidateAvatar(header.Size, header.Header.Get("Content-Type"), header.Filename); err != nil {
			respondError(ctx, err)
			return
		}

		src, err := header.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded avatar"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(io.LimitReader(src, attachments.MaxAvatarBytes()))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded avatar"})
			return
		}

		ref, err := sink.Store(data, header.Header.Get("Content-Type"), "avatar-"+strconv.FormatUint(uint64(currentUser.ID), 10))
		if err != nil {
			respondError(ctx, err)
			return
		}

		// An empty reference means the sink skipped the upload; keep the
		// existing avatar in that case.
		if ref != "" {
			if existing, err := store.GetUserByID(currentUser.ID); err == nil {
				oldAvatar = existing.AvatarURL
			}
			update.AvatarURL = &ref
		}
	}

	user, err := store.UpdateProfile(currentUser.ID, update)

	if err != nil {
		if update.AvatarURL != nil {
			go sink.Remove(*update.AvatarURL)
		}
		respondError(ctx, err)
		return
	}

	if oldAvatar != "" && update.AvatarURL != nil && oldAvatar != *update.AvatarURL {
		go sink.Remove(oldAvatar)
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewPrivateUser(user)})
}

// GetUser returns a public profile together with the user's projects.
func GetUser(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")

	if !ok {
		return
	}

	user, err := store.GetUserByID(id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	projects, err := store.ListProjectsByAuthor(id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":     types.NewPublicUser(user),
		"projects": projects,
	})
}
