package web

import (
	"encoding/json"

	"github.com/dukex/flowcanvas/pkg/graph"
	"github.com/dukex/flowcanvas/pkg/persistence"
	"github.com/dukex/flowcanvas/pkg/rules"
	"github.com/dukex/flowcanvas/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

// withExtensions adds machine-readable members to a problem body.
func withExtensions(problem any, extensions fiber.Map) (fiber.Map, error) {
	raw, err := json.Marshal(problem)
	if err != nil {
		return nil, err
	}

	body := fiber.Map{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}

	for key, value := range extensions {
		body[key] = value
	}

	return body, nil
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusBadRequest).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, kind, detail string) error {
	problem := problems.NewStatusProblem(fiber.StatusNotFound).
		WithInstance(c.Path()).
		WithType(kind).
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(fiber.StatusInternalServerError).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError provides typed error handling for service layer errors.
func handleServiceError(c fiber.Ctx, err error) error {
	if rejection, ok := rules.IsRejection(err); ok {
		problem := problems.NewStatusProblem(fiber.StatusUnprocessableEntity).
			WithInstance(c.Path()).
			WithType("edge_rejected").
			WithDetail(rejection.Message)

		body, err := withExtensions(problem, fiber.Map{"reason": rejection.Reason})
		if err != nil {
			return internalError(c, err)
		}

		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	}

	if blocked, ok := services.IsRunBlocked(err); ok {
		problem := problems.NewStatusProblem(fiber.StatusConflict).
			WithInstance(c.Path()).
			WithType("run_blocked").
			WithDetail("workflow has problems that must be fixed before it can run")

		body, err := withExtensions(problem, fiber.Map{"problems": blocked.Problems})
		if err != nil {
			return internalError(c, err)
		}

		return c.Status(fiber.StatusConflict).JSON(body)
	}

	switch {
	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case persistence.IsWorkflowNotFound(err):
		return notFound(c, "workflow_not_found", "workflow not found")

	case graph.IsNodeNotFound(err):
		return notFound(c, "node_not_found", "node not found")

	case graph.IsEdgeNotFound(err):
		return notFound(c, "edge_not_found", "edge not found")

	case graph.IsCorruptSnapshot(err):
		problem := problems.NewStatusProblem(fiber.StatusUnprocessableEntity).
			WithInstance(c.Path()).
			WithType("corrupt_snapshot").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	default:
		// Log unexpected errors but don't expose details
		return internalError(c, err)
	}
}
