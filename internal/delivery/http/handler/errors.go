package handler

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"
	"github.com/journey-planner/internal/breaker"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/pkg/errors"
	"github.com/journey-planner/internal/transport"
)

var noSolutionErrors = map[domain.NoSolutionReason]*errors.AppError{
	domain.ReasonNoOrigin:               errors.ErrNoOrigin,
	domain.ReasonNoDestination:          errors.ErrNoDestination,
	domain.ReasonNoOriginNorDestination: errors.ErrNoOriginNorDestination,
	domain.ReasonNoSolution:             errors.ErrNoSolution,
}

// toAppError переводит ошибки usecase'ов в ответ API
func toAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		fields := make(map[string]interface{}, len(validationErrs))
		for _, fe := range validationErrs {
			fields[fe.Field()] = fe.Tag()
		}
		return errors.ErrInvalidRequest.WithDetails(fields)
	}

	var noSolution *domain.NoSolutionError
	if stderrors.As(err, &noSolution) {
		appErr, ok := noSolutionErrors[noSolution.Reason]
		if !ok {
			appErr = errors.ErrNoSolution
		}
		if noSolution.Message != "" {
			appErr = appErr.WithMessage(noSolution.Message)
		}
		return appErr
	}

	var dead *transport.DeadBackendError
	if stderrors.As(err, &dead) {
		return errors.ErrDeadBackend.WithDetails(map[string]interface{}{"instance": dead.Instance})
	}
	if stderrors.Is(err, breaker.ErrCircuitOpen) {
		return errors.ErrDeadBackend
	}

	var backendErr *domain.BackendError
	if stderrors.As(err, &backendErr) {
		return errors.ErrInternalServer.WithDetails(map[string]interface{}{"backend_error": backendErr.ID})
	}

	switch {
	case stderrors.Is(err, domain.ErrUnknownRegion):
		return errors.ErrUnknownRegion.WithMessage(err.Error())
	case stderrors.Is(err, domain.ErrInvalidRequest):
		return errors.ErrInvalidRequest.WithMessage(err.Error())
	case stderrors.Is(err, domain.ErrPlaceNotFound):
		return errors.ErrPlaceNotFound.WithMessage(err.Error())
	}
	return errors.ErrInternalServer
}
