package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fintrack/internal/advisor"
	apperrors "fintrack/internal/errors"
)

// AdvisorHandler answers financial questions.
type AdvisorHandler struct {
	advisor advisor.Advisor
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(a advisor.Advisor) *AdvisorHandler {
	return &AdvisorHandler{advisor: a}
}

// AdviceRequest represents a question for the advisor.
type AdviceRequest struct {
	Query string `json:"query" binding:"required,max=2000" example:"How much should I save each month?"`
}

// AdviceResponse carries the advisor's answer.
type AdviceResponse struct {
	Response string `json:"response"`
}

// GetAdvice asks the advisor a question.
// @Summary     Ask the advisor
// @Tags        advisor
// @Accept      json
// @Produce     json
// @Param       request body AdviceRequest true "Question"
// @Success     200 {object} AdviceResponse
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     502 {object} ErrorResponse "Advisor unavailable"
// @Router      /advisor [post]
func (h *AdvisorHandler) GetAdvice(c *gin.Context) {
	var req AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "query is required"))
		return
	}

	answer, err := h.advisor.GetAdvice(c.Request.Context(), req.Query)
	if err != nil {
		// Rendered by middleware.ErrorHandler.
		_ = c.Error(apperrors.Wrap(apperrors.ErrAdvisorUnavailable, err))
		return
	}

	c.JSON(http.StatusOK, AdviceResponse{Response: answer})
}
