package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Janikow/55Khat/internal/config"
	"github.com/Janikow/55Khat/internal/core"
	"github.com/Janikow/55Khat/internal/ipaddr"
	"github.com/Janikow/55Khat/internal/proto"
	"github.com/Janikow/55Khat/internal/store"
)

// WSHandler upgrades HTTP connections, runs the connection gate, and
// bridges accepted connections to core.Client.
type WSHandler struct {
	hub  *core.Hub
	bans store.BanStore
	cfg  config.Config
	log  *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *core.Hub, bans store.BanStore, cfg config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, bans: bans, cfg: cfg, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		println("DEBUG accept err:", err.Error())
	}
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	if h.cfg.WSReadLimit > 0 {
		conn.SetReadLimit(h.cfg.WSReadLimit)
	}

	// Connection gate: a banned IP gets its ban notice before the
	// transport closes, and never reaches the hub.
	ip := clientIP(r)
	if h.bans.IsBanned(ip) {
		h.log.Info().Str("ip", ipaddr.Mask(ip)).Msg("banned ip rejected at gate")
		_ = wsjson.Write(ctx, conn, proto.Outbound{
			Type: proto.OutboundTypeBanned,
			Data: proto.BannedData{By: "server"},
		})
		conn.Close(websocket.StatusPolicyViolation, "ip banned")
		return
	}

	client := core.NewClient(uuid.NewString(), ip)
	println("DEBUG registering client")
	h.hub.RegisterClient(client)
	println("DEBUG registered client")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh
	close(client.Commands)
	h.hub.UnregisterClient(client)

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		cmd, notice := inboundToCommand(inbound)
		if notice != "" {
			if err := wsjson.Write(ctx, conn, proto.Outbound{
				Type: proto.OutboundTypeSystem,
				Data: proto.SystemData{Text: notice},
			}); err != nil {
				return err
			}
			continue
		}
		if cmd == nil {
			// Malformed frame, dropped silently.
			h.log.Debug().Str("client_id", client.ID).Str("type", inbound.Type).Msg("malformed frame dropped")
			continue
		}

		select {
		case client.Commands <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				// The hub terminated this connection (disconnect or ban).
				return nil
			}
			println("DEBUG writeLoop event", int(event.Kind))
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// clientIP resolves the peer address, honoring proxy forwarding headers.
func clientIP(r *stdhttp.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return ipaddr.Normalize(fwd)
	}
	if cf := r.Header.Get("CF-Connecting-IP"); cf != "" {
		return ipaddr.Normalize(cf)
	}
	return ipaddr.Normalize(r.RemoteAddr)
}
