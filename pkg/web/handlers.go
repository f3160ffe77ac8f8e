// Package web provides HTTP handlers and REST API endpoints for editing workflow graphs.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dukex/flowcanvas/pkg/catalog"
	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/models"
	"github.com/dukex/flowcanvas/pkg/services"
	"github.com/dukex/flowcanvas/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	workflowService *services.Workflow
	validator       *validator.Validate
}

func NewAPIHandlers(workflowService *services.Workflow, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		validator:       validator,
	}
}

// RegisterRoutes mounts every canvas endpoint on router.
func (h *APIHandlers) RegisterRoutes(router fiber.Router) {
	router.Get("/catalog", h.GetCatalog)
	router.Get("/health", h.HealthCheck)

	w := router.Group("/workflows")
	w.Get("/", h.GetWorkflows)
	w.Post("/", h.CreateWorkflow)
	w.Get("/:id", h.GetWorkflow)
	w.Delete("/:id", h.DeleteWorkflow)

	w.Post("/:id/nodes", h.AddNode)
	w.Patch("/:id/nodes/:nodeId", h.UpdateNode)
	w.Delete("/:id/nodes/:nodeId", h.RemoveNode)

	w.Post("/:id/edges", h.AddEdge)
	w.Delete("/:id/edges/:edgeId", h.RemoveEdge)

	w.Put("/:id/selection", h.Select)

	w.Post("/:id/validate", h.ValidateWorkflow)
	w.Post("/:id/save", h.SaveWorkflow)
	w.Post("/:id/run", h.RunWorkflow)
}

// GetCatalog lists every node kind the palette offers.
func (h *APIHandlers) GetCatalog(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"templates": catalog.Templates(),
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	req, err := h.parseListWorkflowsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.workflowService.List(c.Context(), *req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows":     result.Workflows,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseListWorkflowsRequest parses query parameters for listing workflows.
func (h *APIHandlers) parseListWorkflowsRequest(c fiber.Ctx) (*services.ListWorkflowsRequest, error) {
	req := &services.ListWorkflowsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	return req, nil
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	workflow, err := h.workflowService.Get(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowcanvas API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Flowcanvas API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.workflowService.Create(c.Context(), services.CreateWorkflowRequest{Name: req.Name})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	err := h.workflowService.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) AddNode(c fiber.Ctx) error {
	var req AddNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.workflowService.AddNode(c.Context(), c.Params("id"), services.AddNodeRequest{
		Category:    req.Category,
		Subtype:     req.Subtype,
		Cases:       req.Cases,
		Label:       req.Label,
		Description: req.Description,
		Icon:        req.Icon,
		Position:    req.Position,
		Config:      req.Config,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return h.sendNode(c, fiber.StatusCreated, node)
}

func (h *APIHandlers) UpdateNode(c fiber.Ctx) error {
	var req UpdateNodeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	node, err := h.workflowService.UpdateNode(c.Context(), c.Params("id"), c.Params("nodeId"), services.UpdateNodeRequest{
		Position: req.Position,
		Label:    req.Label,
		Config:   req.Config,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return h.sendNode(c, fiber.StatusOK, node)
}

func (h *APIHandlers) RemoveNode(c fiber.Ctx) error {
	removed, err := h.workflowService.RemoveNode(c.Context(), c.Params("id"), c.Params("nodeId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(NodeResponse{RemovedEdgeIDs: removed})
}

func (h *APIHandlers) sendNode(c fiber.Ctx, status int, node *models.NodeInstance) error {
	record, err := models.NewNodeRecord(node)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(status).JSON(NodeResponse{Node: record})
}

func (h *APIHandlers) AddEdge(c fiber.Ctx) error {
	var req AddEdgeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	edge, err := h.workflowService.AddEdge(c.Context(), c.Params("id"), graph.Candidate{
		SourceNodeID:   req.SourceNodeID,
		SourcePortID:   req.SourcePortID,
		TargetNodeID:   req.TargetNodeID,
		TargetPortID:   req.TargetPortID,
		ConnectionType: models.ConnectionType(req.ConnectionType),
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

func (h *APIHandlers) RemoveEdge(c fiber.Ctx) error {
	err := h.workflowService.RemoveEdge(c.Context(), c.Params("id"), c.Params("edgeId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) Select(c fiber.Ctx) error {
	var req SelectRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	selection := models.Selection{NodeID: req.NodeID, EdgeID: req.EdgeID}

	err := h.workflowService.Select(c.Context(), c.Params("id"), selection)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(selection)
}

func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	problems, err := h.workflowService.Validate(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	if problems == nil {
		problems = []validation.Problem{}
	}

	return c.JSON(ValidationResponse{Valid: len(problems) == 0, Problems: problems})
}

func (h *APIHandlers) SaveWorkflow(c fiber.Ctx) error {
	result, err := h.workflowService.Save(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	request, err := h.workflowService.Run(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(request)
}
