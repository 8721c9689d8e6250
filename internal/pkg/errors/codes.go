package errors

import "net/http"

var (
	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrUnknownRegion = New(
		"UNKNOWN_REGION",
		"Region is not served by any backend instance",
		http.StatusNotFound,
	)

	ErrPlaceNotFound = New(
		"PLACE_NOT_FOUND",
		"Origin or destination not found",
		http.StatusNotFound,
	)

	ErrNoOrigin = New(
		"NO_ORIGIN",
		"Public transport is not reachable from the origin",
		http.StatusNotFound,
	)

	ErrNoDestination = New(
		"NO_DESTINATION",
		"Public transport is not reachable from the destination",
		http.StatusNotFound,
	)

	ErrNoOriginNorDestination = New(
		"NO_ORIGIN_NOR_DESTINATION",
		"Public transport is reachable neither from the origin nor from the destination",
		http.StatusNotFound,
	)

	ErrNoSolution = New(
		"NO_SOLUTION",
		"No solution found for this journey",
		http.StatusNotFound,
	)

	ErrDeadBackend = New(
		"DEAD_BACKEND",
		"Planner backend is unavailable",
		http.StatusServiceUnavailable,
	)

	ErrProviderNotFound = New(
		"PROVIDER_NOT_FOUND",
		"Provider not found",
		http.StatusNotFound,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
