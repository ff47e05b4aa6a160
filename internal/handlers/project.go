package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clientdesk/internal/database"
	"clientdesk/internal/middleware"
	"clientdesk/internal/models"
	"clientdesk/internal/repository"
	"clientdesk/internal/services"
	"clientdesk/internal/validation"
)

type ProjectHandler struct {
	repo        repository.ProjectRepository
	validator   *validation.Validator
	attachments *services.AttachmentService
	audit       *database.Auditor
}

func NewProjectHandler(
	repo repository.ProjectRepository,
	v *validation.Validator,
	attachments *services.AttachmentService,
	audit *database.Auditor,
) *ProjectHandler {
	return &ProjectHandler{repo: repo, validator: v, attachments: attachments, audit: audit}
}

type ProjectResponse struct {
	ID          uint           `json:"id"`
	ClientID    uint           `json:"client_id"`
	Client      string         `json:"client,omitempty"`
	UserID      uint           `json:"user_id"`
	Owner       string         `json:"owner,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	Deadline    string         `json:"deadline,omitempty"`
	Files       []FileResponse `json:"files,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type FileResponse struct {
	ID           uint      `json:"id"`
	Disk         string    `json:"disk"`
	Path         string    `json:"path"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

func projectResponse(p *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Client:      p.Client.Name,
		UserID:      p.UserID,
		Owner:       p.User.Name,
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Deadline != nil {
		resp.Deadline = p.Deadline.Format("2006-01-02")
	}
	for _, f := range p.Files {
		resp.Files = append(resp.Files, FileResponse{
			ID:           f.ID,
			Disk:         f.Disk,
			Path:         f.Path,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			CreatedAt:    f.CreatedAt,
		})
	}
	return resp
}

func projectResponses(projects []models.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, projectResponse(&projects[i]))
	}
	return out
}

// List is permission scoped: managers get every project, owners their own,
// anyone else an empty list.
func (h *ProjectHandler) List(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	projects, err := h.repo.List(caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projectResponses(projects),
		"can": gin.H{
			"delete_project": caller.Can(models.PermManageProjects),
		},
	})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var in validation.ProjectInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	fields, err := h.validator.Project(in)
	if err != nil {
		respondError(c, err)
		return
	}

	project, err := h.repo.Create(caller, fields)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(caller.ID, "project", project.ID, "create", "created project "+project.Title)
	c.JSON(http.StatusCreated, gin.H{"project": projectResponse(project)})
}

func (h *ProjectHandler) Show(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	project, err := h.repo.Get(caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": projectResponse(project)})
}

// Update writes the validated fields first; an attached file is stored
// afterwards and cannot roll the field update back.
func (h *ProjectHandler) Update(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var in validation.ProjectInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	fields, err := h.validator.Project(in)
	if err != nil {
		respondError(c, err)
		return
	}

	project, err := h.repo.Update(caller, id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(caller.ID, "project", project.ID, "update", "updated project "+project.Title)

	if header, err := c.FormFile("file"); err == nil {
		src, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer src.Close()

		att := services.Attachment{
			OriginalName: header.Filename,
			MimeType:     header.Header.Get("Content-Type"),
		}
		file, err := h.attachments.Store(src, att, "projects", project.ID)
		if err != nil {
			// strict attachment policy: the field update stands, the
			// request still reports the storage failure
			respondError(c, err)
			return
		}
		if file != nil {
			project.Files = append(project.Files, *file)
		}
	}

	c.JSON(http.StatusOK, gin.H{"project": projectResponse(project)})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(caller, id); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(caller.ID, "project", id, "delete", "deleted project")
	c.Status(http.StatusNoContent)
}
