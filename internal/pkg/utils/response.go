package utils

import (
	stderrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/journey-planner/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error     *errors.AppError `json:"error"`
	RequestID string           `json:"request_id,omitempty"`
}

type Meta struct {
	Total     int    `json:"total"`
	RequestID string `json:"request_id,omitempty"`
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("request_id").(string)
	return id
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	if meta != nil && meta.RequestID == "" {
		meta.RequestID = requestID(c)
	}
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

// SendError отвечает AppError из цепочки ошибок, иначе 500
func SendError(c *fiber.Ctx, err error) error {
	appErr := errors.ErrInternalServer
	var target *errors.AppError
	if stderrors.As(err, &target) {
		appErr = target
	}

	return c.Status(appErr.StatusCode).JSON(ErrorResponse{
		Error:     appErr,
		RequestID: requestID(c),
	})
}
