package worker

import (
	"MotifFinderSampler/backend/go/internal/database"
	"MotifFinderSampler/backend/go/internal/sampler"
	"MotifFinderSampler/backend/go/internal/sampler_service/service"
	"MotifFinderSampler/backend/go/internal/store"
	"errors"
)

// errorType classifies a job failure for structured logs.
func errorType(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidParams):
		return "invalid_params"
	case errors.Is(err, sampler.ErrToolFailed):
		return "tool_failed"
	case errors.Is(err, sampler.ErrMissingOutput):
		return "missing_output"
	case errors.Is(err, sampler.ErrMalformedOutput):
		return "malformed_output"
	case errors.Is(err, store.ErrLocked):
		return "workdir_locked"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, database.ErrUnhealthy):
		return "backend_unhealthy"
	default:
		return "internal"
	}
}
