package handlers

import (
	"net/http"

	"authprobe/internal/database"
	"authprobe/internal/utils"
)

type CommonHandler struct {
	db database.Service
}

func NewCommonHandler(db database.Service) *CommonHandler {
	return &CommonHandler{db: db}
}

func (h *CommonHandler) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World"})
}

func (h *CommonHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := h.db.Health()

	statusCode := http.StatusOK
	if _, down := health["error"]; down {
		statusCode = http.StatusServiceUnavailable
	}
	utils.RespondWithJSON(w, statusCode, health)
}
