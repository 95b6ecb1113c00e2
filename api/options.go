package api

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/automation"
)

type optionsRequest struct {
	Options []automation.Option `json:"options" validate:"required,dive"`
}

func optionKind(c fiber.Ctx) (automation.OptionKind, error) {
	kind := automation.OptionKind(c.Params("kind"))
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q", automation.ErrUnknownOptionKind, kind)
	}
	return kind, nil
}

func (s *Server) listOptions(c fiber.Ctx) error {
	kind, err := optionKind(c)
	if err != nil {
		return s.fail(c, err)
	}
	opts, err := s.catalog.ListOptions(c.Context(), kind, automation.OptionFilter{
		PlatformID: c.Query("platform_id"),
		PageID:     c.Query("page_id"),
	})
	if err != nil {
		return s.upstream(c, err)
	}
	return c.JSON(opts)
}

func (s *Server) putOptions(c fiber.Ctx) error {
	kind, err := optionKind(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req optionsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	if err := s.catalog.PutOptions(c.Context(), kind, req.Options); err != nil {
		return s.upstream(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) syncPosts(c fiber.Ctx) error {
	posts, err := s.catalog.SyncPosts(c.Context(), c.Params("id"))
	if err != nil {
		return s.upstream(c, err)
	}
	return c.JSON(posts)
}
