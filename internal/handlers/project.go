package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/projethon/projethon/internal/attachments"
	"github.com/projethon/projethon/internal/store"
	"github.com/projethon/projethon/internal/utils"
)

// sink is the process-wide attachment backend, wired once at startup.
var sink attachments.Sink

func InitSink(s attachments.Sink) {
	sink = s
}

type UpdateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Section     string `json:"section"`
	Group       string `json:"group"`
	FullName    string `json:"full_name"`
	Matricule   string `json:"matricule"`
}

func ListProjects(ctx *gin.Context) {
	projects, err := store.ListProjects(ctx.Query("section"), ctx.Query("group"))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func GetProject(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")

	if !ok {
		return
	}

	project, err := store.GetProject(id)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// CreateProject accepts a multipart form with the project fields and an
// optional "file" part. The upload is size-checked before its bytes are
// buffered.
func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	// Cap the whole body before the form is parsed so oversized uploads
	// are refused without buffering them.
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, attachments.MaxFileBytes()+1<<20)

	input := store.ProjectInput{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		Section:     ctx.PostForm("section"),
		Group:       ctx.PostForm("group"),
		FullName:    ctx.PostForm("full_name"),
		Matricule:   ctx.PostForm("matricule"),
	}

	var file *store.UploadedFile

	header, err := ctx.FormFile("file")

	switch {
	case errors.Is(err, http.ErrMissingFile):
		// no attachment supplied
	case err != nil:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "request body is too large or malformed"})
		return
	default:
		if err := attachments.ValidateProjectFile(header.Size); err != nil {
			respondError(ctx, err)
			return
		}

		src, err := header.Open()
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}
		defer src.Close()

		data, err := io.ReadAll(io.LimitReader(src, attachments.MaxFileBytes()))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
			return
		}

		file = &store.UploadedFile{
			Data:     data,
			MimeType: header.Header.Get("Content-Type"),
		}
	}

	project, fileURL, err := store.CreateProject(userID, input, file, sink)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"project":  project,
		"file_url": fileURL,
	})
}

func UpdateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	id, ok := paramID(ctx, "id")

	if !ok {
		return
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	project, err := store.UpdateProject(id, userID, store.ProjectInput{
		Title:       body.Title,
		Description: body.Description,
		Section:     body.Section,
		Group:       body.Group,
		FullName:    body.FullName,
		Matricule:   body.Matricule,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func DeleteProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	id, ok := paramID(ctx, "id")

	if !ok {
		return
	}

	if err := store.DeleteProject(id, userID, sink); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}

	return uint(id), true
}
