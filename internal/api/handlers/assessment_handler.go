package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"retrofit_risk/internal/api/dto"
	"retrofit_risk/internal/api/middleware"
	"retrofit_risk/internal/assessment"
	"retrofit_risk/internal/domain"
	"retrofit_risk/pkg/shared"
)

// AssessmentHandler serves POST /api/v1/risk-assessment
type AssessmentHandler struct {
	service  AssessmentService
	defaults DefaultsResolver
	logger   *slog.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(service AssessmentService, defaults DefaultsResolver, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service:  service,
		defaults: defaults,
		logger:   logger,
	}
}

// RunAssessment handles POST /api/v1/risk-assessment. On success the
// response body is the audience-shaped ResultEnvelope itself.
func (h *AssessmentHandler) RunAssessment(c *gin.Context) {
	var req dto.RiskAssessmentRequest
	if !middleware.ValidateJSON(c, &req) {
		return
	}

	requestID := uuid.New().String()

	inputs, opts, err := h.resolve(c, &req)
	if err != nil {
		h.writeError(c, requestID, err)
		return
	}

	envelope, err := h.service.RunRiskAssessment(c.Request.Context(), inputs, opts)
	if err != nil {
		h.writeError(c, requestID, err)
		return
	}

	c.Header("X-Request-ID", requestID)
	c.JSON(http.StatusOK, envelope)
}

// resolve turns the wire request into validated engine parameters,
// filling missing CAPEX/OPEX from the defaults repository
func (h *AssessmentHandler) resolve(c *gin.Context, req *dto.RiskAssessmentRequest) (domain.ProjectInputs, assessment.Options, error) {
	inputs := domain.ProjectInputs{
		AnnualEnergySavings: req.AnnualEnergySavings,
		ProjectLifetime:     req.ProjectLifetime,
		LoanAmount:          req.LoanAmount,
		LoanTermYears:       req.LoanTermYears,
	}

	if req.NeedsDefaults() {
		defaults, err := h.defaults.DefaultCapexOpex(c.Request.Context(), req.PropertyType)
		if err != nil {
			return domain.ProjectInputs{}, assessment.Options{}, err
		}
		inputs.Capex = defaults.Capex
		inputs.AnnualMaintenanceCost = defaults.AnnualOpex
	}
	if req.Capex != nil {
		inputs.Capex = *req.Capex
	}
	if req.AnnualMaintenanceCost != nil {
		inputs.AnnualMaintenanceCost = *req.AnnualMaintenanceCost
	}

	indicators, err := domain.NewIndicatorSet(req.Indicators)
	if err != nil {
		return domain.ProjectInputs{}, assessment.Options{}, err
	}
	level, err := domain.ParseOutputLevel(req.OutputLevel)
	if err != nil {
		return domain.ProjectInputs{}, assessment.Options{}, err
	}

	opts := assessment.Options{
		NSims:       req.NSims,
		Seed:        assessment.DefaultSeed,
		OutputLevel: level,
		Indicators:  indicators,
	}
	if req.Seed != nil {
		opts.Seed = *req.Seed
	}
	return inputs, opts, nil
}

func (h *AssessmentHandler) writeError(c *gin.Context, requestID string, err error) {
	c.Header("X-Request-ID", requestID)

	var businessErr *shared.BusinessError
	if errors.As(err, &businessErr) {
		status := http.StatusInternalServerError
		switch businessErr.Code {
		case shared.CodeInvalidInputs:
			status = http.StatusBadRequest
		case shared.CodeInvalidForecast:
			status = http.StatusUnprocessableEntity
		}
		h.logger.Warn("risk assessment rejected",
			"request_id", requestID, "code", businessErr.Code, "error", businessErr.Message)
		c.JSON(status, dto.APIResponse{
			Success: false,
			Error: &dto.APIError{
				Code:    businessErr.Code,
				Message: businessErr.Message,
				Details: businessErr.Details,
			},
		})
		return
	}

	h.logger.Error("risk assessment failed", "request_id", requestID, "error", err)
	c.JSON(http.StatusInternalServerError, dto.APIResponse{
		Success: false,
		Error: &dto.APIError{
			Code:    shared.CodeInternalError,
			Message: "risk assessment failed",
		},
	})
}
