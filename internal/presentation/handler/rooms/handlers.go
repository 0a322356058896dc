package rooms

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sprintdeck/pokersync/internal/infrastructure/configs"
	"github.com/sprintdeck/pokersync/internal/infrastructure/json"
	"github.com/sprintdeck/pokersync/internal/infrastructure/logging"
	"github.com/sprintdeck/pokersync/internal/infrastructure/sign"
	"github.com/sprintdeck/pokersync/internal/infrastructure/ws"
)

type Handler struct {
	core     *ws.Core
	sink     ws.EventSink
	signer   *sign.Signer
	cfg      configs.NegotiateConfig
	logger   logging.Logger
	upgrader websocket.Upgrader
}

func NewHandler(core *ws.Core, sink ws.EventSink, signer *sign.Signer, cfg configs.NegotiateConfig, allowedOrigins []string, logger logging.Logger) *Handler {
	return &Handler{
		core:   core,
		sink:   sink,
		signer: signer,
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := false
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// NegotiateHandler issues the credential a client needs to attach to a room
// group: a websocket URL carrying a signed, expiring token bound to this
// user and room.
func (h *Handler) NegotiateHandler(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("roomId")
	userID := r.URL.Query().Get("userId")

	if roomID == "" || userID == "" {
		json.WriteValidationError(w, errors.New("roomId and userId are required"))
		return
	}

	if !h.signer.Ready() {
		h.logger.Error(logging.General, logging.Negotiate, "negotiate secret not configured", nil)
		json.WriteInternalError(w, sign.ErrSecretMissing)
		return
	}

	token, err := h.signer.Token(userID, roomID, h.cfg.TokenTTL)
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	wsURL := fmt.Sprintf("%s/api/rooms/%s/ws?userId=%s&token=%s",
		h.cfg.PublicURL,
		url.PathEscape(roomID),
		url.QueryEscape(userID),
		url.QueryEscape(token),
	)

	json.Write(w, http.StatusOK, negotiateResponse{URL: wsURL})
}

// AttachHandler upgrades the connection and registers it with the hub. All
// room events (join included) arrive over the socket afterwards.
func (h *Handler) AttachHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		json.WriteValidationError(w, errors.New("userId query parameter is required"))
		return
	}

	token := r.URL.Query().Get("token")
	if err := h.signer.Verify(token, userID, roomID); err != nil {
		json.WriteError(w, http.StatusUnauthorized, err, "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(logging.WS, logging.Negotiate, "websocket upgrade failed", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	client := ws.NewClient(conn, uuid.New().String(), userID, roomID)
	h.core.Register() <- client

	go client.WritePump()
	go client.ReadPump(h.core, h.sink)

	h.logger.Info(logging.WS, logging.Negotiate, "client attached", map[logging.ExtraKey]any{
		logging.RoomID:       roomID,
		logging.UserID:       userID,
		logging.ConnectionID: client.ID,
	})
}
