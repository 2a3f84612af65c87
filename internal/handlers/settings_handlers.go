package handlers

import (
	"bonsaichat-backend/internal/auth"
	"bonsaichat-backend/internal/models"
	"bonsaichat-backend/internal/services"
	"bonsaichat-backend/pkg/httputil"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SettingsService defines the interface expected from the settings service.
type SettingsService interface {
	Settings(ctx context.Context) (*models.WidgetSettings, error)
	Update(ctx context.Context, req models.UpdateSettingsRequest) (*models.WidgetSettings, error)
}

// ConnectionTester probes the upstream with the current settings.
type ConnectionTester interface {
	TestConnection(ctx context.Context) models.TestConnectionResponse
}

type SettingsHandler struct {
	settingsService SettingsService
	tester          ConnectionTester
}

func NewSettingsHandler(settingsSvc SettingsService, tester ConnectionTester) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsSvc,
		tester:          tester,
	}
}

// HandleGetSettings handles GET /v1/admin/settings.
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Settings(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("loading widget settings")
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toSettingsResponse(settings))
}

// HandleUpdateSettings handles PUT /v1/admin/settings.
func (h *SettingsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	settings, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrSettingsReadOnly):
			httputil.RespondError(w, http.StatusConflict, err.Error())
		default:
			log.Error().Err(err).Msg("updating widget settings")
			httputil.RespondError(w, http.StatusInternalServerError, "Failed to save settings")
		}
		return
	}

	subject, _ := auth.GetAdminSubjectFromContext(r.Context())
	log.Info().Str("admin", subject).Msg("widget settings changed")
	httputil.RespondJSON(w, http.StatusOK, toSettingsResponse(settings))
}

// HandleTestConnection handles POST /v1/admin/settings/test.
func (h *SettingsHandler) HandleTestConnection(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.tester.TestConnection(r.Context()))
}

func toSettingsResponse(s *models.WidgetSettings) models.SettingsResponse {
	return models.SettingsResponse{
		APIURL:         s.APIURL,
		APIUsername:    s.APIUsername,
		HasAPIPassword: s.APIPassword != "",
		UseRAG:         s.UseRAG,
		WelcomeMessage: s.WelcomeMessage,
		UpdatedAt:      s.UpdatedAt,
	}
}
