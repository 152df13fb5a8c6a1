package feed

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"techrent/internal/identity"
	"techrent/internal/pkg/response"
)

type Handler struct {
	hub      *Hub
	resolver identity.Resolver
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket endpoint. An empty origins list accepts any origin.
func NewHandler(hub *Hub, resolver identity.Resolver, origins []string) *Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &Handler{
		hub:      hub,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWS authenticates before upgrading. Browsers cannot set headers on a websocket
// handshake, so the token may also come as ?token=.
func (h *Handler) ServeWS(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTHENTICATION_REQUIRED", "Token is required")
		return
	}

	actor, err := h.resolver.Resolve(c.Request.Context(), token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.Debug("feed: upgrade failed", zap.Error(err))
		return
	}
	h.hub.serve(conn, actor)
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/bookings", h.ServeWS)
}
