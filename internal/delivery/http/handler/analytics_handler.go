package handler

import (
	"net/http"

	"ayursetu-backend/internal/usecase"
	"ayursetu-backend/pkg/response"
)

type AnalyticsHandler struct {
	analyticsUsecase usecase.AnalyticsUsecase
}

func NewAnalyticsHandler(analyticsUsecase usecase.AnalyticsUsecase) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUsecase: analyticsUsecase,
	}
}

func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.analyticsUsecase.GetAnalytics(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get analytics")
		return
	}

	response.Success(w, http.StatusOK, "Analytics retrieved successfully", analytics)
}
