package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
)

type duplicateIDsError struct {
	problems []string
}

func (e *duplicateIDsError) Error() string {
	return "duplicate ids: " + strings.Join(e.problems, "; ")
}

// badRequest reports an unreadable body, listing the failed field rules
// when the body decoded but did not validate.
func badRequest(c fiber.Ctx, err error) error {
	var dups *duplicateIDsError
	if errors.As(err, &dups) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "details": dups.problems})
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body", "details": details})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
}

// fail maps domain errors to HTTP responses.
func (s *Server) fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, automation.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"errors": automation.Problems(err)})
	case errors.Is(err, automation.ErrSaveInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "save already in progress"})
	case errors.Is(err, automation.ErrAutomationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "automation not found"})
	case errors.Is(err, automation.ErrUnknownOptionKind):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		s.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// upstream reports a failed call to the catalog collaborator.
func (s *Server) upstream(c fiber.Ctx, err error) error {
	if errors.Is(err, automation.ErrUnknownOptionKind) {
		return s.fail(c, err)
	}
	s.log.Warn("catalog request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
}
