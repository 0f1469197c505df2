package http

import (
	"errors"
	"io"
	"net/http"

	"golang-chart-predictor/internal/predictor/dto"
	"golang-chart-predictor/internal/predictor/repository"
	"golang-chart-predictor/internal/predictor/service"
	"golang-chart-predictor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// 10 MB is plenty for a chart screenshot.
const maxImageBytes = 10 << 20

// PredictionHandler handles HTTP requests for chart predictions.
type PredictionHandler struct {
	predictor service.EnsemblePredictorService
	logger    *logger.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictor service.EnsemblePredictorService, logger *logger.Logger) *PredictionHandler {
	return &PredictionHandler{predictor: predictor, logger: logger}
}

// RegisterRoutes registers the prediction routes to the Echo group.
func (h *PredictionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreatePrediction)
}

// CreatePrediction godoc
// @Summary Predict from a chart screenshot
// @Description Analyze an uploaded chart screenshot and run the ensemble prediction pipeline
// @Tags predictions
// @Accept  multipart/form-data
// @Produce  json
// @Param   image  formData    file    true    "Chart screenshot (PNG or JPEG)"
// @Success 200 {object} dto.PredictionResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /predictions [post]
func (h *PredictionHandler) CreatePrediction(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "missing 'image' form file"})
	}
	if fileHeader.Size > maxImageBytes {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "image too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unable to read uploaded image"})
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unable to read uploaded image"})
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}

	result, err := h.predictor.Predict(c.Request().Context(), image, mimeType, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, repository.ErrVisionUnavailable) {
			h.logger.Warn("Vision service unavailable", logger.ErrorField(err))
			return c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "vision service unavailable, try again later", Retryable: true})
		}
		h.logger.Error("Prediction failed", logger.ErrorField(err), logger.StringField("filename", fileHeader.Filename))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "prediction failed"})
	}

	return c.JSON(http.StatusOK, result)
}
