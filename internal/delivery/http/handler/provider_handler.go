package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/pkg/errors"
	"github.com/journey-planner/internal/pkg/utils"
	"github.com/journey-planner/internal/usecase"
	"go.uber.org/zap"
)

var providerKinds = map[domain.ProviderKind]bool{
	domain.ProviderBikeShare:   true,
	domain.ProviderCarPark:     true,
	domain.ProviderRidesharing: true,
	domain.ProviderEquipment:   true,
	domain.ProviderRealtime:    true,
}

// ProviderHandler - обработчик списка провайдеров live-данных
type ProviderHandler struct {
	providersUC *usecase.ProvidersUseCase
	logger      *zap.Logger
}

// NewProviderHandler - создание нового ProviderHandler
func NewProviderHandler(providersUC *usecase.ProvidersUseCase, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		providersUC: providersUC,
		logger:      logger,
	}
}

// List - провайдеры всех реестров с последним статусом
// @Summary List live-data providers
// @Tags providers
// @Produce json
// @Param kind query string false "bss, car_park, ridesharing, equipment or realtime"
// @Success 200 {object} utils.SuccessResponse{data=dto.ProvidersResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/providers [get]
func (h *ProviderHandler) List(c *fiber.Ctx) error {
	kind := domain.ProviderKind(c.Query("kind"))
	if kind != "" && !providerKinds[kind] {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"kind": string(kind),
		}))
	}

	result := h.providersUC.List(c.UserContext(), kind)
	return utils.SendSuccess(c, result, &utils.Meta{
		Total: len(result.Providers),
	})
}
