package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/automation"
	"github.com/meikuraledutech/automation/editor"
	"github.com/meikuraledutech/automation/wizard"
)

// graphRequest is the canvas document posted by the graph editor.
type graphRequest struct {
	Name  string            `json:"name" validate:"required"`
	Nodes []automation.Node `json:"nodes"`
	Edges []automation.Edge `json:"edges"`
}

// bindGraph decodes the body and rejects documents that reuse a node or
// connection id.
func bindGraph(c fiber.Ctx) (*graphRequest, error) {
	var req graphRequest
	if err := c.Bind().JSON(&req); err != nil {
		return nil, err
	}
	g := automation.Graph{Name: req.Name, Nodes: req.Nodes, Edges: req.Edges}
	if dups := g.DuplicateIDs(); len(dups) > 0 {
		return nil, &duplicateIDsError{problems: dups}
	}
	return &req, nil
}

func (r *graphRequest) record(id string) *automation.Record {
	return &automation.Record{ID: id, Name: r.Name, Nodes: r.Nodes, Edges: r.Edges}
}

type statusRequest struct {
	Status automation.Status `json:"status" validate:"required,oneof=active inactive"`
}

func (s *Server) session(r *automation.Record) *editor.Session {
	return editor.Open(r, s.store,
		editor.WithLogger(s.log),
		editor.WithStrictValidation(s.strict),
	)
}

// save runs either editing surface through the same contract.
func (s *Server) save(c fiber.Ctx, ed automation.Editor, status int) error {
	rec, err := ed.Save(c.Context())
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(status).JSON(rec)
}

// ── Schema ────────────────────────────────────────────────────────────

func (s *Server) createSchema(c fiber.Ctx) error {
	if err := s.store.CreateSchema(c.Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema created"})
}

func (s *Server) dropSchema(c fiber.Ctx) error {
	if err := s.store.DropSchema(c.Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema dropped"})
}

// ── Automations ───────────────────────────────────────────────────────

func (s *Server) listAutomations(c fiber.Ctx) error {
	f := automation.ListFilter{
		Platform: c.Query("platform"),
		Type:     c.Query("type"),
		Status:   automation.Status(c.Query("status")),
		Search:   c.Query("search"),
	}
	if f.Status != "" && !f.Status.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown status"})
	}
	recs, err := s.store.ListAutomations(c.Context(), f)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(recs)
}

func (s *Server) createAutomation(c fiber.Ctx) error {
	req, err := bindGraph(c)
	if err != nil {
		return badRequest(c, err)
	}
	return s.save(c, s.session(req.record("")), fiber.StatusCreated)
}

func (s *Server) validateAutomation(c fiber.Ctx) error {
	req, err := bindGraph(c)
	if err != nil {
		return badRequest(c, err)
	}
	problems := s.session(req.record("")).Validate()
	if problems == nil {
		problems = []string{}
	}
	return c.JSON(fiber.Map{"valid": len(problems) == 0, "errors": problems})
}

func (s *Server) getAutomation(c fiber.Ctx) error {
	rec, err := s.store.GetAutomation(c.Context(), c.Params("id"))
	if err != nil {
		return s.fail(c, err)
	}
	if rec == nil {
		return s.fail(c, automation.ErrAutomationNotFound)
	}
	return c.JSON(rec)
}

func (s *Server) updateAutomation(c fiber.Ctx) error {
	req, err := bindGraph(c)
	if err != nil {
		return badRequest(c, err)
	}
	id := c.Params("id")
	existing, err := s.store.GetAutomation(c.Context(), id)
	if err != nil {
		return s.fail(c, err)
	}
	if existing == nil {
		return s.fail(c, automation.ErrAutomationNotFound)
	}
	return s.save(c, s.session(req.record(id)), fiber.StatusOK)
}

func (s *Server) deleteAutomation(c fiber.Ctx) error {
	if err := s.store.DeleteAutomation(c.Context(), c.Params("id")); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) setStatus(c fiber.Ctx) error {
	var req statusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, err)
	}
	if err := s.store.SetStatus(c.Context(), c.Params("id"), req.Status); err != nil {
		return s.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Wizard ────────────────────────────────────────────────────────────

// wizardAutomation saves a wizard draft submitted in one piece. Service and
// platform lists are loaded first so the record carries their labels.
func (s *Server) wizardAutomation(c fiber.Ctx) error {
	var d wizard.Data
	if err := c.Bind().JSON(&d); err != nil {
		return badRequest(c, err)
	}
	w := wizard.New(s.catalog, s.store, wizard.WithLogger(s.log))
	for _, step := range []wizard.Step{wizard.StepTrigger, wizard.StepPlatform} {
		if _, err := w.LoadOptions(c.Context(), step); err != nil {
			return s.upstream(c, err)
		}
	}
	w.Load(d)
	return s.save(c, w, fiber.StatusCreated)
}
