package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Janikow/55Khat/internal/auth"
	"github.com/Janikow/55Khat/internal/ipaddr"
	"github.com/Janikow/55Khat/internal/store"
)

// DefaultMaxImageBytes caps embedded image payloads at 4 MiB.
const DefaultMaxImageBytes = 4 << 20

// Config controls hub behavior.
type Config struct {
	// CredentialMode requires login with a password checked against the
	// identity store instead of name-only join.
	CredentialMode bool
	// MaxImageBytes is the image payload ceiling; larger images are
	// dropped silently. Zero means DefaultMaxImageBytes.
	MaxImageBytes int64
}

// Hub owns the session registry and the room index. Every command from
// every connection is processed in arrival order on the single Run
// goroutine, which is the only writer of registry state.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	queries    chan rosterQuery
	done       chan struct{}

	clients  map[*Client]struct{}
	sessions map[*Client]*Session
	rooms    map[string]*room

	bans       store.BanStore
	identities store.IdentityStore
	authorize  auth.Authorizer

	cfg Config
	log *zerolog.Logger
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

type rosterQuery struct {
	room  string
	reply chan []Member
}

// NewHub creates the chat hub. identities may be nil when credential
// mode is off; a nil authorize grants privilege to no one.
func NewHub(bans store.BanStore, identities store.IdentityStore, authorize auth.Authorizer, cfg Config, logger *zerolog.Logger) *Hub {
	if cfg.MaxImageBytes == 0 {
		cfg.MaxImageBytes = DefaultMaxImageBytes
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand),
		queries:    make(chan rosterQuery),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		sessions:   make(map[*Client]*Session),
		rooms:      make(map[string]*room),
		bans:       bans,
		identities: identities,
		authorize:  authorize,
		cfg:        cfg,
		log:        logger,
	}
}

// Run processes registrations and commands until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.addClient(ctx, c)
		case c := <-h.unregister:
			h.removeClient(c)
		case cc := <-h.commands:
			h.dispatch(cc.client, cc.cmd)
		case q := <-h.queries:
			q.reply <- h.roster(q.room)
		}
	}
}

// RegisterClient admits a gated connection into the hub. The connection
// stays unauthenticated until its join/login command succeeds.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient removes a connection and its session, if any.
// Idempotent: unknown or already-removed clients are a no-op.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// ListRoom returns a snapshot of the members currently in roomKey,
// sorted by name. Returns nil after the hub has stopped.
func (h *Hub) ListRoom(roomKey string) []Member {
	q := rosterQuery{room: roomKey, reply: make(chan []Member, 1)}
	select {
	case h.queries <- q:
		return <-q.reply
	case <-h.done:
		return nil
	}
}

func (h *Hub) addClient(ctx context.Context, c *Client) {
	h.clients[c] = struct{}{}
	h.log.Info().Str("client_id", c.ID).Str("ip", ipaddr.Mask(c.IP)).Msg("client connected")

	// Pump this client's commands into the shared serialization point.
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case cmd, ok := <-c.Commands:
				if !ok {
					return
				}
				select {
				case h.commands <- clientCommand{client: c, cmd: cmd}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	deliver(c, systemEvent("Connected to server."))
}

// removeClient terminates a connection: the session (if any) is dropped,
// the room roster is re-broadcast, and the event channel is closed so the
// transport's write loop unwinds.
func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)

	if sess, ok := h.sessions[c]; ok {
		delete(h.sessions, c)
		if r, ok := h.rooms[sess.Room]; ok {
			r.remove(c)
			if r.empty() {
				delete(h.rooms, sess.Room)
			} else {
				h.broadcastRoster(sess.Room)
			}
		}
		h.log.Info().Str("user", sess.Name).Str("room", sess.Room).Str("ip", ipaddr.Mask(sess.IP)).Msg("user disconnected")
	}

	close(c.Events)
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	sess := h.sessions[c]

	switch cmd.Kind {
	case CommandJoin, CommandLogin:
		if sess != nil {
			h.log.Debug().Str("client_id", c.ID).Msg("duplicate registration dropped")
			return
		}
		h.handleJoin(c, cmd.Join)
		return
	}

	// Anything else from an unauthenticated connection is dropped.
	if sess == nil {
		h.log.Debug().Str("client_id", c.ID).Msg("command before join dropped")
		return
	}

	switch cmd.Kind {
	case CommandChat:
		h.handleChat(c, sess, cmd.Chat)
	case CommandWhisper:
		h.handleWhisper(c, sess, cmd.Target, cmd.Text)
	case CommandBan:
		if sess.Privileged {
			h.handleBan(c, sess, cmd.Target)
		}
	case CommandUnban:
		if sess.Privileged {
			h.handleUnban(c, sess, cmd.Target)
		}
	case CommandSetColor:
		sess.Color = cmd.Color
		h.broadcastRoster(sess.Room)
	}
}

func (h *Hub) handleJoin(c *Client, args JoinArgs) {
	if h.cfg.CredentialMode {
		h.handleLogin(c, args)
		return
	}

	name := strings.TrimSpace(args.Name)
	if name == "" {
		name = "Unnamed"
	}
	h.activate(c, &Session{
		Name:       name,
		IP:         c.IP,
		Room:       args.Room,
		Privileged: h.privileged(name),
	})
}

func (h *Hub) handleLogin(c *Client, args JoinArgs) {
	name := strings.TrimSpace(args.Name)
	if name == "" || args.Password == "" {
		deliver(c, &Event{Kind: EventLoginResult, Login: &LoginResult{Message: ErrMissingField.Error()}})
		return
	}

	id, err := h.identities.Lookup(name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// First login for this name registers it.
		hash, herr := auth.HashCredential(args.Password)
		if herr != nil {
			h.log.Error().Err(herr).Str("user", name).Msg("hash credential")
			deliver(c, &Event{Kind: EventLoginResult, Login: &LoginResult{Message: "internal error"}})
			return
		}
		id = &store.Identity{Name: name, CredentialHash: hash, ProfilePic: args.ProfilePic}
		if serr := h.identities.Save(id); serr != nil {
			h.log.Error().Err(serr).Str("user", name).Msg("persist identity")
		}
	case err != nil:
		h.log.Error().Err(err).Str("user", name).Msg("lookup identity")
		deliver(c, &Event{Kind: EventLoginResult, Login: &LoginResult{Message: "internal error"}})
		return
	default:
		if auth.CompareCredential(id.CredentialHash, args.Password) != nil {
			deliver(c, &Event{Kind: EventLoginResult, Login: &LoginResult{Message: ErrIncorrectPassword.Error()}})
			return
		}
		// A newly supplied profile image replaces the stored one;
		// otherwise the prior image carries over.
		if args.ProfilePic != "" && args.ProfilePic != id.ProfilePic {
			id.ProfilePic = args.ProfilePic
			if serr := h.identities.Save(id); serr != nil {
				h.log.Error().Err(serr).Str("user", name).Msg("persist identity")
			}
		}
	}

	deliver(c, &Event{Kind: EventLoginResult, Login: &LoginResult{Success: true}})
	h.activate(c, &Session{
		Name:       name,
		IP:         c.IP,
		Room:       args.Room,
		ProfilePic: id.ProfilePic,
		Color:      args.Color,
		Privileged: h.privileged(name),
	})
}

// activate transitions a connection from unauthenticated to active.
func (h *Hub) activate(c *Client, sess *Session) {
	h.sessions[c] = sess
	r, ok := h.rooms[sess.Room]
	if !ok {
		r = newRoom(sess.Room)
		h.rooms[sess.Room] = r
	}
	r.add(c)
	h.log.Info().Str("user", sess.Name).Str("room", sess.Room).Str("ip", ipaddr.Mask(sess.IP)).Msg("user joined")
	h.broadcastRoster(sess.Room)
}

func (h *Hub) handleChat(c *Client, sess *Session, args ChatArgs) {
	if args.Image != "" && int64(len(args.Image)) > h.cfg.MaxImageBytes {
		h.log.Debug().Str("user", sess.Name).Int("size", len(args.Image)).Msg("oversized image dropped")
		return
	}

	if word, rest, ok := parseSlash(args.Text); ok {
		h.dispatchSlash(c, sess, word, rest)
		return
	}

	if strings.TrimSpace(args.Text) == "" && args.Image == "" {
		return
	}
	h.roomBroadcast(sess.Room, &Event{Kind: EventChatMessage, Chat: &ChatPayload{
		User:       sess.Name,
		Text:       args.Text,
		Image:      args.Image,
		Color:      sess.Color,
		ProfilePic: sess.ProfilePic,
	}})
}

func (h *Hub) dispatchSlash(c *Client, sess *Session, word, args string) {
	switch word {
	case "w", "whisper":
		target, rest, ok := splitTarget(args)
		if !ok || rest == "" {
			deliver(c, systemEvent("Usage: /w <user> <message>"))
			return
		}
		h.handleWhisper(c, sess, target, rest)
	case "ban":
		if !sess.Privileged {
			return
		}
		target, _, ok := splitTarget(args)
		if !ok {
			deliver(c, systemEvent("Usage: /ban <user|ip>"))
			return
		}
		h.handleBan(c, sess, target)
	case "unban":
		if !sess.Privileged {
			return
		}
		target, _, ok := splitTarget(args)
		if !ok {
			deliver(c, systemEvent("Usage: /unban <user|ip>"))
			return
		}
		h.handleUnban(c, sess, target)
	default:
		deliver(c, systemEvent("Unknown command: /"+word))
	}
}

func (h *Hub) handleWhisper(c *Client, sess *Session, target, text string) {
	text = strings.TrimSpace(text)
	if target == "" || text == "" {
		deliver(c, systemEvent("Usage: /w <user> <message>"))
		return
	}

	// Whisper targets resolve within the sender's room only.
	var tc *Client
	if r, ok := h.rooms[sess.Room]; ok {
		for m := range r.members {
			if ms := h.sessions[m]; ms != nil && ms.Name == target {
				tc = m
				break
			}
		}
	}
	if tc == nil {
		deliver(c, systemEvent(fmt.Sprintf("User %q not found.", target)))
		return
	}

	ev := &Event{Kind: EventChatMessage, Chat: &ChatPayload{
		User:       sess.Name,
		Text:       text,
		Color:      sess.Color,
		ProfilePic: sess.ProfilePic,
		Whisper:    true,
		To:         target,
	}}
	deliver(tc, ev)
	if tc != c {
		deliver(c, ev)
	}
}

// handleBan resolves the target to one or more IPs, persists the bans,
// notifies and terminates every matching live session, and reports the
// masked IPs back to the issuer.
func (h *Hub) handleBan(c *Client, sess *Session, target string) {
	var victims []*Client
	var ips []string

	if ipaddr.IsIPv4(target) {
		ips = append(ips, target)
		for cl, s := range h.sessions {
			if s.IP == target {
				victims = append(victims, cl)
			}
		}
	} else {
		// Names are not unique among live sessions: ban every match.
		for cl, s := range h.sessions {
			if s.Name == target {
				victims = append(victims, cl)
			}
		}
		if len(victims) == 0 {
			deliver(c, systemEvent(fmt.Sprintf("User %q not found.", target)))
			return
		}
		seen := make(map[string]struct{})
		for _, v := range victims {
			ip := h.sessions[v].IP
			if _, dup := seen[ip]; ip != "" && !dup {
				seen[ip] = struct{}{}
				ips = append(ips, ip)
			}
		}
	}

	for _, ip := range ips {
		if err := h.bans.Ban(ip, sess.Name); err != nil {
			// The in-memory ban still holds for this process lifetime.
			h.log.Error().Err(err).Str("ip", ipaddr.Mask(ip)).Msg("persist ban")
		}
	}

	room := sess.Room
	for _, v := range victims {
		vs := h.sessions[v]
		// Notify before termination so the target sees why it was dropped.
		deliver(v, &Event{Kind: EventBanned, Banned: &BannedPayload{By: sess.Name, IP: ipaddr.Mask(vs.IP)}})
		h.removeClient(v)
	}

	if len(victims) > 0 {
		h.roomBroadcast(room, &Event{Kind: EventChatMessage, Chat: &ChatPayload{
			User: "Server",
			Text: fmt.Sprintf("User %q was IP-banned by %s.", target, sess.Name),
		}})
	}

	// The issuer may have banned itself; only report back if still here.
	if _, ok := h.clients[c]; ok {
		masked := make([]string, 0, len(ips))
		for _, ip := range ips {
			masked = append(masked, ipaddr.Mask(ip))
		}
		deliver(c, systemEvent("Banned IPs: "+strings.Join(masked, ", ")))
	}
}

// handleUnban lifts a ban. Live sessions are untouched: unban only
// clears future admission checks.
func (h *Hub) handleUnban(c *Client, sess *Session, target string) {
	ip := target
	if !ipaddr.IsIPv4(target) {
		resolved := ""
		for _, s := range h.sessions {
			if s.Name == target && h.bans.IsBanned(s.IP) {
				resolved = s.IP
				break
			}
		}
		if resolved != "" {
			ip = resolved
		}
		// Otherwise the literal target doubles as the key: a banned
		// user's session no longer exists to resolve its IP from.
	}

	removed, err := h.bans.Unban(ip)
	if err != nil {
		h.log.Error().Err(err).Str("ip", ipaddr.Mask(ip)).Msg("persist unban")
	}
	if removed {
		deliver(c, systemEvent(fmt.Sprintf("Unbanned %s.", ipaddr.Mask(ip))))
	} else {
		deliver(c, systemEvent(fmt.Sprintf("No ban found for %q.", target)))
	}
}

func (h *Hub) privileged(name string) bool {
	return h.authorize != nil && h.authorize(name)
}

func (h *Hub) roster(roomKey string) []Member {
	r, ok := h.rooms[roomKey]
	if !ok {
		return nil
	}
	members := make([]Member, 0, len(r.members))
	for c := range r.members {
		if s := h.sessions[c]; s != nil {
			members = append(members, Member{Name: s.Name, ProfilePic: s.ProfilePic, Color: s.Color})
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	return members
}

func (h *Hub) broadcastRoster(roomKey string) {
	if r, ok := h.rooms[roomKey]; ok {
		r.broadcast(&Event{Kind: EventUserList, Users: h.roster(roomKey)})
	}
}

func (h *Hub) roomBroadcast(roomKey string, ev *Event) {
	if r, ok := h.rooms[roomKey]; ok {
		r.broadcast(ev)
	}
}
