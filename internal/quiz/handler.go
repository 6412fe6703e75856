package quiz

import (
	"github.com/gofiber/fiber/v2"

	"github.com/emandor/econoguide_service/internal/middleware"
	"github.com/emandor/econoguide_service/internal/telemetry"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to EconoGuide API"})
}

func (h *Handler) GenerateQuestions(c *fiber.Ctx) error {
	qs, err := h.svc.GenerateQuestions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(QuestionsResponse{Questions: qs})
}

func (h *Handler) SubmitQuiz(c *fiber.Ctx) error {
	log := telemetry.L().With().Str("req_id", middleware.RequestIDFrom(c)).Logger()

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn().Err(err).Msg("submit_bad_body")
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid request body: "+err.Error())
	}
	if len(req.Answers) == 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "answers must not be empty")
	}

	res, err := h.svc.Analyze(c.UserContext(), req.Answers)
	if err != nil {
		return err
	}
	log.Info().Int("answered", len(req.Answers)).Int("total_score", res.TotalScore).Msg("quiz_submitted")
	if len(res.Raw) > 0 {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(res.Raw)
	}
	return c.JSON(res)
}

// Register mounts the quiz routes on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/", h.Welcome)
	r.Get("/generate-questions", h.GenerateQuestions)
	r.Post("/submit-quiz", h.SubmitQuiz)
}
