package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/emandor/econoguide_service/internal/middleware"
	"github.com/emandor/econoguide_service/internal/providers"
	"github.com/emandor/econoguide_service/internal/quiz"
	"github.com/emandor/econoguide_service/internal/telemetry"
)

// Error codes returned in the "code" field of every error body.
const (
	CodeModelUnavailable = "model_unavailable"
	CodeModelTimeout     = "model_timeout"
	CodeEmptyResponse    = "empty_response"
	CodeMalformedJSON    = "malformed_json"
	CodeSchemaMismatch   = "schema_mismatch"
	CodeInvalidRequest   = "invalid_request"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternal         = "internal"
)

type ErrorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

// classify maps an error to its HTTP status and body.
func classify(err error) (int, ErrorBody) {
	var (
		un    *providers.ModelUnavailable
		empty *providers.EmptyResponse
		mj    *providers.MalformedJSON
		sm    *quiz.SchemaMismatch
		fe    *fiber.Error
	)
	switch {
	case errors.As(err, &un):
		if un.Timeout {
			return fiber.StatusGatewayTimeout, ErrorBody{Detail: err.Error(), Code: CodeModelTimeout}
		}
		return fiber.StatusServiceUnavailable, ErrorBody{Detail: err.Error(), Code: CodeModelUnavailable}
	case errors.As(err, &empty):
		return fiber.StatusInternalServerError, ErrorBody{Detail: err.Error(), Code: CodeEmptyResponse}
	case errors.As(err, &mj):
		return fiber.StatusInternalServerError, ErrorBody{Detail: err.Error(), Code: CodeMalformedJSON}
	case errors.As(err, &sm):
		return fiber.StatusInternalServerError, ErrorBody{Detail: err.Error(), Code: CodeSchemaMismatch, Reason: sm.Reason}
	case errors.As(err, &fe):
		switch fe.Code {
		case fiber.StatusUnprocessableEntity, fiber.StatusBadRequest:
			return fiber.StatusUnprocessableEntity, ErrorBody{Detail: fe.Message, Code: CodeInvalidRequest}
		case fiber.StatusNotFound:
			return fe.Code, ErrorBody{Detail: fe.Message, Code: CodeNotFound}
		case fiber.StatusMethodNotAllowed:
			return fe.Code, ErrorBody{Detail: fe.Message, Code: CodeMethodNotAllowed}
		}
		if fe.Code >= fiber.StatusBadRequest && fe.Code < fiber.StatusInternalServerError {
			return fe.Code, ErrorBody{Detail: fe.Message, Code: CodeInvalidRequest}
		}
		return fe.Code, ErrorBody{Detail: fe.Message, Code: CodeInternal}
	default:
		return fiber.StatusInternalServerError, ErrorBody{Detail: err.Error(), Code: CodeInternal}
	}
}

// ErrorHandler renders every handler error as {"detail","code","reason"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, body := classify(err)
	if status >= fiber.StatusInternalServerError {
		log := telemetry.L()
		log.Error().
			Str("req_id", middleware.RequestIDFrom(c)).
			Str("path", c.Path()).
			Int("status", status).
			Str("code", body.Code).
			Err(err).
			Msg("request_failed")
	}
	return c.Status(status).JSON(body)
}
