package http

import (
	"net/http"
	"strconv"
	"strings"

	"golang-chart-predictor/internal/predictor/dto"
	"golang-chart-predictor/internal/predictor/repository"
	"golang-chart-predictor/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

var validOutcomes = map[string]bool{
	"bullish": true,
	"bearish": true,
	"neutral": true,
}

// ObservationHandler handles HTTP requests for stored observations and
// prediction feedback.
type ObservationHandler struct {
	observationRepo repository.ChartObservationRepository
	feedbackRepo    repository.PredictionFeedbackRepository
	logger          *logger.Logger
}

// NewObservationHandler creates a new ObservationHandler.
func NewObservationHandler(observationRepo repository.ChartObservationRepository,
	feedbackRepo repository.PredictionFeedbackRepository,
	logger *logger.Logger) *ObservationHandler {
	return &ObservationHandler{
		observationRepo: observationRepo,
		feedbackRepo:    feedbackRepo,
		logger:          logger,
	}
}

// RegisterRoutes registers the observation routes to the Echo group.
func (h *ObservationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListObservations)
	g.GET("/:id", h.GetObservationByID)
	g.POST("/:id/outcome", h.AttachOutcome)
}

// RegisterFeedbackRoutes registers the feedback routes to the Echo group.
func (h *ObservationHandler) RegisterFeedbackRoutes(g *echo.Group) {
	g.GET("", h.ListFeedbacks)
}

// ListObservations godoc
// @Summary List chart observations
// @Description List stored chart observations, newest first
// @Tags observations
// @Produce  json
// @Param   limit   query   int false   "Page size"
// @Param   offset  query   int false   "Page offset"
// @Success 200 {array} dto.ChartObservation
// @Failure 500 {object} dto.ErrorResponse
// @Router /observations [get]
func (h *ObservationHandler) ListObservations(c echo.Context) error {
	limit, offset := pagination(c)

	records, err := h.observationRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list observations", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list observations"})
	}

	observations := make([]dto.ChartObservation, 0, len(records))
	for _, r := range records {
		observations = append(observations, dto.ObservationFromEntity(r))
	}
	return c.JSON(http.StatusOK, observations)
}

// GetObservationByID godoc
// @Summary Get an observation by ID
// @Tags observations
// @Produce  json
// @Param   id  path    int true    "Observation ID"
// @Success 200 {object} dto.ChartObservation
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /observations/{id} [get]
func (h *ObservationHandler) GetObservationByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid observation ID"})
	}

	record, err := h.observationRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "observation not found"})
		}
		h.logger.Error("Failed to get observation", logger.ErrorField(err), logger.IntField("id", int(id)))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to get observation"})
	}

	return c.JSON(http.StatusOK, dto.ObservationFromEntity(*record))
}

// AttachOutcome godoc
// @Summary Attach a realized outcome to an observation
// @Description Record how the chart actually resolved. Outcomes are append-only.
// @Tags observations
// @Accept  json
// @Produce  json
// @Param   id      path    int                     true    "Observation ID"
// @Param   outcome body    dto.AttachOutcomeRequest true    "Realized outcome"
// @Success 200 {object} dto.ChartObservation
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /observations/{id}/outcome [post]
func (h *ObservationHandler) AttachOutcome(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid observation ID"})
	}

	var req dto.AttachOutcomeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request payload"})
	}

	outcome := strings.ToLower(strings.TrimSpace(req.Outcome))
	if !validOutcomes[outcome] {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "outcome must be bullish, bearish or neutral"})
	}

	if err := h.observationRepo.AttachOutcome(c.Request().Context(), uint(id), outcome); err != nil {
		h.logger.Error("Failed to attach outcome", logger.ErrorField(err), logger.IntField("id", int(id)))
		return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	}

	record, err := h.observationRepo.GetByID(c.Request().Context(), uint(id))
	if err != nil {
		h.logger.Error("Failed to reload observation", logger.ErrorField(err), logger.IntField("id", int(id)))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to reload observation"})
	}

	return c.JSON(http.StatusOK, dto.ObservationFromEntity(*record))
}

// ListFeedbacks godoc
// @Summary List persisted predictions
// @Description List predictions recorded by the feedback consumer, newest first
// @Tags feedbacks
// @Produce  json
// @Param   limit   query   int false   "Page size"
// @Param   offset  query   int false   "Page offset"
// @Success 200 {array} entity.PredictionFeedback
// @Failure 500 {object} dto.ErrorResponse
// @Router /feedbacks [get]
func (h *ObservationHandler) ListFeedbacks(c echo.Context) error {
	limit, offset := pagination(c)

	feedbacks, err := h.feedbackRepo.List(c.Request().Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list prediction feedbacks", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to list feedbacks"})
	}
	return c.JSON(http.StatusOK, feedbacks)
}

func pagination(c echo.Context) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
