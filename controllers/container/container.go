package container

import (
	"errors"
	"fmt"

	"container-tracker/apperrors"
	"container-tracker/logger"
	"container-tracker/middleware"
	containerService "container-tracker/services/container"
	"container-tracker/types"
	containerTypes "container-tracker/types/container"
	"container-tracker/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ContainerController handles container-related HTTP requests.
type ContainerController struct {
	DB      *gorm.DB
	Service *containerService.Service
	Logger  *logger.AsyncLogger
}

// NewContainerController creates a new container controller.
func NewContainerController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *ContainerController {
	return &ContainerController{
		DB:      db,
		Service: containerService.NewService(db),
		Logger:  asyncLogger,
	}
}

// respondError translates a service error into an HTTP response. Storage
// failures stay opaque to the caller.
func respondError(c *fiber.Ctx, err error) error {
	var verr *apperrors.ValidationError
	var conflict *apperrors.ConflictError
	var notFound *apperrors.NotFoundError

	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Validation failed",
			Data:    verr.Fields,
		})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: conflict.Message,
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Container not found",
		})
	case errors.Is(err, apperrors.ErrAuthRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "Authentication required",
		})
	default:
		logger.Error("Container operation failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

// Index lists containers with optional filters.
func (cc *ContainerController) Index(c *fiber.Ctx) error {
	var query containerTypes.ContainerListQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid query parameters",
		})
	}

	rows, err := cc.Service.List(&query)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Containers fetched successfully",
		Data:    rows,
	})
}

// Show returns a single container with its change history.
func (cc *ContainerController) Show(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid container id",
		})
	}

	detail, err := cc.Service.Get(uint(id))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Container fetched successfully",
		Data:    detail,
	})
}

// Store creates a new container attributed to the authenticated user.
func (cc *ContainerController) Store(c *fiber.Ctx) error {
	var req containerTypes.ContainerCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	actingUserID, ok := middleware.CurrentUserID(c)
	if !ok {
		return respondError(c, apperrors.ErrAuthRequired)
	}

	row, err := cc.Service.Create(&req, actingUserID)
	if err != nil {
		return respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Container created successfully with ID: %d", row.ID))
	cc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Container created successfully",
		Data:    map[string]interface{}{"id": row.ID},
	})
}

// Update applies a partial update and records per-field history.
func (cc *ContainerController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid container id",
		})
	}

	var patch containerTypes.ContainerUpdateRequest
	if err := c.BodyParser(&patch); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body: " + err.Error(),
		})
	}

	actingUserID, ok := middleware.CurrentUserID(c)
	if !ok {
		return respondError(c, apperrors.ErrAuthRequired)
	}

	outcome, err := cc.Service.Update(uint(id), &patch, actingUserID)
	if err != nil {
		return respondError(c, err)
	}

	message := "No changes detected"
	if outcome.Changed {
		message = "Container updated successfully"
		cc.Logger.Log(utils.CreateSanitizedLogEntry(c))
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: message,
		Data:    outcome,
	})
}

// Destroy hard-deletes a container and its history.
func (cc *ContainerController) Destroy(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid container id",
		})
	}

	if err := cc.Service.Delete(uint(id)); err != nil {
		return respondError(c, err)
	}

	logger.Success(fmt.Sprintf("Container deleted successfully with ID: %d", id))
	cc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Container deleted successfully",
	})
}

// Stats returns the statistics rollup for the dashboard.
func (cc *ContainerController) Stats(c *fiber.Ctx) error {
	overview, err := cc.Service.Stats()
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Statistics fetched successfully",
		Data:    overview,
	})
}

// Types lists the container type reference data.
func (cc *ContainerController) Types(c *fiber.Ctx) error {
	containerTypeRows, err := cc.Service.ListTypes()
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Container types fetched successfully",
		Data:    containerTypeRows,
	})
}
