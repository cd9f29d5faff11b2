package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/pprof"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/h918m/mazmorra/internal/engine"
	"github.com/h918m/mazmorra/internal/version"
	"github.com/h918m/mazmorra/pkg/api"
	"github.com/h918m/mazmorra/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Время на вход в комнату (загрузка героя из хранилища)
const joinTimeout = 5 * time.Second

type Server struct {
	Engine  *engine.GameService
	Port    int
	Origins []string

	upgrader websocket.Upgrader
	http     *http.Server
	log      *logrus.Entry
}

// New создает игровой сервер. origins - разрешенные Origin для websocket (пусто - любые).
func New(game *engine.GameService, port int, origins []string) *Server {
	s := &Server{
		Engine:  game,
		Port:    port,
		Origins: origins,
		log:     logger.Component("server"),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Handler собирает маршруты
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	mux.Handle("/metrics", promhttp.Handler())

	debugHandler := NewDebugHandler(s.Engine)
	debugHandler.RegisterRoutes(mux)

	// Профилирование
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return mux
}

// Run запускает HTTP сервер и блокируется до остановки
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:              ":" + strconv.Itoa(s.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.WithField("port", s.Port).Info("Mazmorra game server running")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает прием соединений
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.Origins) == 0 {
		return true
	}
	return slices.Contains(s.Origins, r.Header.Get("Origin"))
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

// handleWS: /ws?token=...&progress=N. Вход в комнату до запуска пампов,
// чтобы joined ушел клиенту раньше первого кадра состояния.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	progress, _ := strconv.Atoi(r.URL.Query().Get("progress"))

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Upgrade error")
		return
	}

	clientID := uuid.NewString()
	updates := s.Engine.Hub.Register(clientID)

	ctx, cancel := context.WithTimeout(r.Context(), joinTimeout)
	joined, err := s.Engine.Join(ctx, clientID, token, progress)
	cancel()
	if err != nil {
		s.Engine.Hub.Unregister(clientID)
		s.log.WithField("client_id", clientID).WithError(err).Info("Join rejected")
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(api.ServerMessage{Type: api.MessageError, Error: err.Error()})
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "join rejected"))
		_ = conn.Close()
		return
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(joined); err != nil {
		s.Engine.Leave(clientID)
		s.Engine.Hub.Unregister(clientID)
		_ = conn.Close()
		return
	}

	client := NewClient(s.Engine, conn, clientID, updates)
	s.log.WithFields(logrus.Fields{
		"client_id": clientID,
		"room":      joined.Room,
		"progress":  joined.Progress,
	}).Info("Client connected")

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(version.Info())
}
