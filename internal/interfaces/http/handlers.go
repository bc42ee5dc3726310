package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"handoverhub/internal/domain/lifecycle"
	"handoverhub/internal/models"
	"handoverhub/internal/service"
)

// actorHeader carries the caller's identity. Authentication itself is
// handled upstream; the service trusts this header.
const actorHeader = "X-Actor-ID"

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		services: services,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps service errors onto HTTP status codes.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrInvalidDimension):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrUploadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, Response{Success: false, Error: err.Error()})
	case errors.Is(err, service.ErrTaskNotCompleted),
		errors.Is(err, service.ErrTasksOutstanding),
		errors.Is(err, service.ErrHandoverClosed),
		errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrGuardFailed):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

func actorID(c *gin.Context) string {
	return c.GetHeader(actorHeader)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	respondOK(c, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// CreateHandoverRequest is the body for POST /api/v1/handovers
type CreateHandoverRequest struct {
	ExitingEmployeeID    string `json:"exiting_employee_id" binding:"required"`
	ExitingEmployeeEmail string `json:"exiting_employee_email" binding:"required"`
	ExitingEmployeeName  string `json:"exiting_employee_name" binding:"required"`
	SuccessorID          string `json:"successor_id"`
	SuccessorEmail       string `json:"successor_email"`
	SuccessorName        string `json:"successor_name"`
	Department           string `json:"department"`
}

// CreateHandover handles POST /api/v1/handovers
func (h *Handlers) CreateHandover(c *gin.Context) {
	var req CreateHandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	handover, err := h.services.Handovers.Create(c.Request.Context(), service.CreateHandoverInput{
		ExitingEmployeeID:    req.ExitingEmployeeID,
		ExitingEmployeeEmail: req.ExitingEmployeeEmail,
		ExitingEmployeeName:  req.ExitingEmployeeName,
		SuccessorID:          req.SuccessorID,
		SuccessorEmail:       req.SuccessorEmail,
		SuccessorName:        req.SuccessorName,
		Department:           req.Department,
	}, actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, handover)
}

// ListHandovers handles GET /api/v1/handovers
func (h *Handlers) ListHandovers(c *gin.Context) {
	handovers, err := h.services.Handovers.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, handovers)
}

// GetHandover handles GET /api/v1/handovers/:id
func (h *Handlers) GetHandover(c *gin.Context) {
	handover, err := h.services.Handovers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, handover)
}

// AssignSuccessorRequest is the body for PUT /api/v1/handovers/:id/successor
type AssignSuccessorRequest struct {
	SuccessorID    string `json:"successor_id" binding:"required"`
	SuccessorEmail string `json:"successor_email" binding:"required"`
	SuccessorName  string `json:"successor_name"`
}

// AssignSuccessor handles PUT /api/v1/handovers/:id/successor
func (h *Handlers) AssignSuccessor(c *gin.Context) {
	var req AssignSuccessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	err := h.services.Handovers.AssignSuccessor(c.Request.Context(),
		c.Param("id"), req.SuccessorID, req.SuccessorEmail, req.SuccessorName, actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"assigned": true})
}

// SubmitForReview handles POST /api/v1/handovers/:id/submit
func (h *Handlers) SubmitForReview(c *gin.Context) {
	if err := h.services.Handovers.SubmitForReview(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": models.HandoverStatusReview})
}

// ReopenHandover handles POST /api/v1/handovers/:id/reopen
func (h *Handlers) ReopenHandover(c *gin.Context) {
	if err := h.services.Handovers.Reopen(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": models.HandoverStatusInProgress})
}

// ApproveHandover handles POST /api/v1/handovers/:id/approve
func (h *Handlers) ApproveHandover(c *gin.Context) {
	if err := h.services.Handovers.Approve(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": models.HandoverStatusCompleted})
}

// ApplyTemplate handles POST /api/v1/handovers/:id/templates/:templateId
func (h *Handlers) ApplyTemplate(c *gin.Context) {
	created, err := h.services.Templates.Apply(c.Request.Context(),
		c.Param("id"), c.Param("templateId"), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"tasks_created": created})
}

// AssessHandover handles POST /api/v1/handovers/:id/assess
func (h *Handlers) AssessHandover(c *gin.Context) {
	assessment, err := h.services.Insights.Assess(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, assessment)
}

// ListTasks handles GET /api/v1/handovers/:id/tasks
func (h *Handlers) ListTasks(c *gin.Context) {
	tasks, err := h.services.Tasks.ListByHandover(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, tasks)
}

// GetTask handles GET /api/v1/tasks/:id
func (h *Handlers) GetTask(c *gin.Context) {
	task, err := h.services.Tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, task)
}

// SetTaskStatusRequest is the body for PUT /api/v1/tasks/:id/status
type SetTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetTaskStatus handles PUT /api/v1/tasks/:id/status
func (h *Handlers) SetTaskStatus(c *gin.Context) {
	var req SetTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := h.services.Tasks.SetStatus(c.Request.Context(), c.Param("id"), req.Status, actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}

// UpdateTaskRequest is the body for PUT /api/v1/tasks/:id
type UpdateTaskRequest struct {
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTask handles PUT /api/v1/tasks/:id
func (h *Handlers) UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	err := h.services.Tasks.UpdateDetails(c.Request.Context(), c.Param("id"), service.UpdateDetailsInput{
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}

// AcknowledgeTask handles POST /api/v1/tasks/:id/acknowledge
func (h *Handlers) AcknowledgeTask(c *gin.Context) {
	if err := h.services.Tasks.Acknowledge(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"acknowledged": true})
}

// AddTaskNoteRequest is the body for POST /api/v1/tasks/:id/notes
type AddTaskNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// AddTaskNote handles POST /api/v1/tasks/:id/notes
func (h *Handlers) AddTaskNote(c *gin.Context) {
	var req AddTaskNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	note, err := h.services.Tasks.AddNote(c.Request.Context(), c.Param("id"), actorID(c), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, note)
}

// TaskInsightRequest is the body for insight create/update endpoints
type TaskInsightRequest struct {
	Topic       string   `json:"topic" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	Attachments []string `json:"attachments"`
}

// AddTaskInsight handles POST /api/v1/tasks/:id/insights
func (h *Handlers) AddTaskInsight(c *gin.Context) {
	var req TaskInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	ins, err := h.services.Tasks.AddInsight(c.Request.Context(),
		c.Param("id"), actorID(c), req.Topic, req.Content, req.Attachments)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, ins)
}

// UpdateTaskInsight handles PUT /api/v1/insights/:id
func (h *Handlers) UpdateTaskInsight(c *gin.Context) {
	var req TaskInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	err := h.services.Tasks.UpdateInsight(c.Request.Context(),
		c.Param("id"), req.Topic, req.Content, req.Attachments)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"updated": true})
}

// ListTemplates handles GET /api/v1/templates
func (h *Handlers) ListTemplates(c *gin.Context) {
	templates, err := h.services.Templates.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, templates)
}

// CreateTemplateRequest is the body for POST /api/v1/templates
type CreateTemplateRequest struct {
	Name       string                `json:"name" binding:"required"`
	Role       string                `json:"role"`
	Department string                `json:"department"`
	Tasks      []models.TemplateTask `json:"tasks" binding:"required"`
}

// CreateTemplate handles POST /api/v1/templates
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	tpl, err := h.services.Templates.Create(c.Request.Context(), service.CreateTemplateInput{
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		Tasks:      req.Tasks,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, tpl)
}

// RegisterUserRequest is the body for POST /api/v1/users
type RegisterUserRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// RegisterUser handles POST /api/v1/users
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	u, err := h.services.Users.Register(c.Request.Context(), service.RegisterUserInput{
		Email:      req.Email,
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, u)
}

// GetUser handles GET /api/v1/users/:id
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.services.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, u)
}

// ListUsers handles GET /api/v1/users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.services.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, users)
}

// CreateHelpRequestRequest is the body for POST /api/v1/tasks/:id/help-requests
type CreateHelpRequestRequest struct {
	RequestType string `json:"request_type" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

// CreateHelpRequest handles POST /api/v1/tasks/:id/help-requests
func (h *Handlers) CreateHelpRequest(c *gin.Context) {
	var req CreateHelpRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	created, err := h.services.Help.Create(c.Request.Context(), service.CreateHelpRequestInput{
		TaskID:      c.Param("id"),
		RequesterID: actorID(c),
		RequestType: req.RequestType,
		Message:     req.Message,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, created)
}

// ListHelpRequests handles GET /api/v1/handovers/:id/help-requests
func (h *Handlers) ListHelpRequests(c *gin.Context) {
	requests, err := h.services.Help.ListByHandover(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, requests)
}

// RespondHelpRequestRequest is the body for POST /api/v1/help-requests/:id/respond
type RespondHelpRequestRequest struct {
	Response string `json:"response" binding:"required"`
}

// RespondHelpRequest handles POST /api/v1/help-requests/:id/respond
func (h *Handlers) RespondHelpRequest(c *gin.Context) {
	var req RespondHelpRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := h.services.Help.Respond(c.Request.Context(), c.Param("id"), actorID(c), req.Response); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": models.HelpRequestStatusReplied})
}

// ResolveHelpRequest handles POST /api/v1/help-requests/:id/resolve
func (h *Handlers) ResolveHelpRequest(c *gin.Context) {
	if err := h.services.Help.Resolve(c.Request.Context(), c.Param("id"), actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, gin.H{"status": models.HelpRequestStatusResolved})
}

// GetDashboard handles GET /api/v1/dashboard
func (h *Handlers) GetDashboard(c *gin.Context) {
	dashboard, err := h.services.Reports.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, dashboard)
}

// pivotDimensions parses the ?dims=department,status query parameter.
func pivotDimensions(c *gin.Context) []string {
	raw := c.Query("dims")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	dims := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			dims = append(dims, p)
		}
	}
	return dims
}

// GetPivot handles GET /api/v1/reports/pivot
func (h *Handlers) GetPivot(c *gin.Context) {
	rep, err := h.services.Reports.Pivot(c.Request.Context(), pivotDimensions(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, rep)
}

// ExportPivot handles GET /api/v1/reports/pivot/export
func (h *Handlers) ExportPivot(c *gin.Context) {
	fileName := fmt.Sprintf("pivot-report-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.services.Reports.ExportPivot(c.Request.Context(), pivotDimensions(c), c.Writer); err != nil {
		h.respondError(c, err)
		return
	}
}

// UploadDocument handles POST /api/v1/handovers/:id/documents (multipart)
func (h *Handlers) UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "missing file field")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	doc, err := h.services.Documents.Upload(c.Request.Context(),
		c.Param("id"), actorID(c), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondCreated(c, doc)
}

// ListDocuments handles GET /api/v1/handovers/:id/documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	docs, err := h.services.Documents.ListByHandover(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, docs)
}

// DownloadDocument handles GET /api/v1/documents/:id/download
func (h *Handlers) DownloadDocument(c *gin.Context) {
	doc, content, err := h.services.Documents.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, contentType, content)
}

// ListActivity handles GET /api/v1/handovers/:id/activity
func (h *Handlers) ListActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	activities, err := h.services.Handovers.ListActivity(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respondOK(c, activities)
}
