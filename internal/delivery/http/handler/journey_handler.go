package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/journey-planner/internal/pkg/errors"
	"github.com/journey-planner/internal/pkg/utils"
	"github.com/journey-planner/internal/pkg/validator"
	"github.com/journey-planner/internal/usecase"
	"github.com/journey-planner/internal/usecase/dto"
	"go.uber.org/zap"
)

// JourneyHandler - обработчик планирования поездок и отправлений
type JourneyHandler struct {
	journeyUC    *usecase.JourneyUseCase
	departuresUC *usecase.DeparturesUseCase
	logger       *zap.Logger
}

// NewJourneyHandler - создание нового JourneyHandler
func NewJourneyHandler(journeyUC *usecase.JourneyUseCase, departuresUC *usecase.DeparturesUseCase, logger *zap.Logger) *JourneyHandler {
	return &JourneyHandler{
		journeyUC:    journeyUC,
		departuresUC: departuresUC,
		logger:       logger,
	}
}

// Journeys - поиск поездок в регионе
// @Summary Plan journeys
// @Tags journeys
// @Produce json
// @Param region path string true "Region"
// @Param from query string true "Origin URI or lon;lat"
// @Param to query string false "Destination URI or lon;lat, empty for isochrone"
// @Param datetime query string false "YYYYMMDDThhmmss"
// @Param first_section_mode query []string false "Fallback modes at the origin" collectionFormat(multi)
// @Param last_section_mode query []string false "Fallback modes at the destination" collectionFormat(multi)
// @Success 200 {object} utils.SuccessResponse{data=dto.JourneysResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/regions/{region}/journeys [get]
func (h *JourneyHandler) Journeys(c *fiber.Ctx) error {
	var req dto.JourneyRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, toAppError(err))
	}

	region := c.Params("region")
	result, err := h.journeyUC.Plan(c.UserContext(), region, req)
	if err != nil {
		appErr := toAppError(err)
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			h.logger.Error("Journey planning failed",
				zap.String("region", region),
				zap.String("from", req.From),
				zap.String("to", req.To),
				zap.Error(err))
		}
		return utils.SendError(c, appErr)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Journeys),
	})
}

// Departures - ближайшие отправления с остановки
// @Summary Next departures at a stop
// @Tags departures
// @Produce json
// @Param region path string true "Region"
// @Param stop query string true "Stop point URI"
// @Param line query string false "Line URI"
// @Param count query int false "Max departures"
// @Success 200 {object} utils.SuccessResponse{data=dto.DeparturesResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/regions/{region}/departures [get]
func (h *JourneyHandler) Departures(c *fiber.Ctx) error {
	var req dto.DeparturesRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage(err.Error()))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, toAppError(err))
	}

	result, err := h.departuresUC.NextDepartures(c.UserContext(), c.Params("region"), req)
	if err != nil {
		return utils.SendError(c, toAppError(err))
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Departures),
	})
}
