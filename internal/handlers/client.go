package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clientdesk/internal/database"
	"clientdesk/internal/middleware"
	"clientdesk/internal/models"
	"clientdesk/internal/repository"
	"clientdesk/internal/validation"
)

type ClientHandler struct {
	repo      repository.ClientRepository
	validator *validation.Validator
	audit     *database.Auditor
}

func NewClientHandler(repo repository.ClientRepository, v *validation.Validator, audit *database.Auditor) *ClientHandler {
	return &ClientHandler{repo: repo, validator: v, audit: audit}
}

type ClientResponse struct {
	ID        uint              `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Company   string            `json:"company"`
	Address   string            `json:"address"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt *time.Time        `json:"deleted_at,omitempty"`
	Projects  []ProjectResponse `json:"projects,omitempty"`
}

func clientResponse(client *models.Client) ClientResponse {
	resp := ClientResponse{
		ID:        client.ID,
		Name:      client.Name,
		Email:     client.Email,
		Phone:     client.Phone,
		Company:   client.Company,
		Address:   client.Address,
		Status:    string(client.Status),
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
	if client.DeletedAt.Valid {
		t := client.DeletedAt.Time
		resp.DeletedAt = &t
	}
	for i := range client.Projects {
		resp.Projects = append(resp.Projects, projectResponse(&client.Projects[i]))
	}
	return resp
}

func clientResponses(clients []models.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, clientResponse(&clients[i]))
	}
	return out
}

func (h *ClientHandler) List(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	opts := repository.ClientListOptions{
		Status:         models.ClientStatus(c.Query("status")),
		IncludeTrashed: c.Query("trashed") == "1",
	}
	clients, err := h.repo.List(caller, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": clientResponses(clients)})
}

func (h *ClientHandler) Create(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	var in validation.ClientInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.validator.Client(in, 0); err != nil {
		respondError(c, err)
		return
	}

	client, err := h.repo.Create(caller, in)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(caller.ID, "client", client.ID, "create", "created client "+client.Name)
	c.JSON(http.StatusCreated, gin.H{"client": clientResponse(client)})
}

func (h *ClientHandler) Show(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	client, err := h.repo.Get(caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"client": clientResponse(client)})
}

func (h *ClientHandler) Update(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var in validation.ClientInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	// the record's own email must not collide with itself
	if err := h.validator.Client(in, id); err != nil {
		respondError(c, err)
		return
	}

	client, err := h.repo.Update(caller, id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(caller.ID, "client", client.ID, "update", "updated client "+client.Name)
	c.JSON(http.StatusOK, gin.H{"client": clientResponse(client)})
}

func (h *ClientHandler) Delete(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.repo.SoftDelete(caller, id); err != nil {
		respondError(c, err)
		return
	}

	h.audit.Record(caller.ID, "client", id, "delete", "soft-deleted client")
	c.Status(http.StatusNoContent)
}

func (h *ClientHandler) Projects(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	projects, err := h.repo.ListProjects(caller, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projectResponses(projects)})
}
