package server

import (
	"encoding/json"
	"net/http"

	"github.com/h918m/mazmorra/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/rooms", h.handleListRooms)
}

// /debug/rooms - запущенные комнаты: тик, игроки, сущности
func (h *DebugHandler) handleListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Rooms())
}

func writeJSON(w http.ResponseWriter, data any) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	_ = json.NewEncoder(w).Encode(data)
}
