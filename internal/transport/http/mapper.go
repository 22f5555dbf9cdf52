package http

import (
	"encoding/json"

	"github.com/Janikow/55Khat/internal/core"
	"github.com/Janikow/55Khat/internal/proto"
)

// inboundToCommand maps a wire frame to a core command. A non-empty
// notice is sent back to the client in-band; a nil command with no
// notice means the frame is dropped silently.
func inboundToCommand(in proto.Inbound) (cmd *core.Command, notice string) {
	switch in.Type {
	case proto.InboundTypeJoin:
		var data proto.JoinData
		if json.Unmarshal(in.Data, &data) != nil {
			return nil, ""
		}
		return &core.Command{Kind: core.CommandJoin, Join: core.JoinArgs{
			Name: data.Name,
			Room: data.Room,
		}}, ""

	case proto.InboundTypeLogin:
		var data proto.LoginData
		if json.Unmarshal(in.Data, &data) != nil {
			return nil, ""
		}
		return &core.Command{Kind: core.CommandLogin, Join: core.JoinArgs{
			Name:       data.Name,
			Password:   data.Password,
			Room:       data.Room,
			ProfilePic: data.ProfilePic,
			Color:      data.Color,
		}}, ""

	case proto.InboundTypeChat:
		var data proto.ChatData
		if json.Unmarshal(in.Data, &data) != nil {
			return nil, ""
		}
		return &core.Command{Kind: core.CommandChat, Chat: core.ChatArgs{
			Text:  data.Text,
			Image: data.Image,
		}}, ""

	case proto.InboundTypeWhisper:
		var data proto.WhisperData
		if json.Unmarshal(in.Data, &data) != nil {
			return nil, ""
		}
		return &core.Command{Kind: core.CommandWhisper, Target: data.To, Text: data.Text}, ""

	case proto.InboundTypeBan:
		var data proto.TargetData
		if json.Unmarshal(in.Data, &data) != nil {
			return nil, ""
		}
		return &core.Command{Kind: core.CommandBan, Target: data.Target}, ""

	case proto.InboundTypeUnban:
		var data proto.TargetData
		if json.Unmarshal(in.Data, &data) != nil {
			return nil, ""
		}
		return &core.Command{Kind: core.CommandUnban, Target: data.Target}, ""

	case proto.InboundTypeColor:
		var data proto.ColorData
		if json.Unmarshal(in.Data, &data) != nil {
			return nil, ""
		}
		return &core.Command{Kind: core.CommandSetColor, Color: data.Color}, ""

	default:
		return nil, "unknown message type: " + in.Type
	}
}

// outboundFromEvent maps a core event to its wire frame.
func outboundFromEvent(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventChatMessage:
		return proto.Outbound{Type: proto.OutboundTypeChat, Data: proto.ChatMessageData{
			User:       ev.Chat.User,
			Text:       ev.Chat.Text,
			Image:      ev.Chat.Image,
			Color:      ev.Chat.Color,
			ProfilePic: ev.Chat.ProfilePic,
			Whisper:    ev.Chat.Whisper,
			To:         ev.Chat.To,
		}}

	case core.EventUserList:
		users := make([]proto.UserEntry, 0, len(ev.Users))
		for _, m := range ev.Users {
			users = append(users, proto.UserEntry{Name: m.Name, ProfilePic: m.ProfilePic, Color: m.Color})
		}
		return proto.Outbound{Type: proto.OutboundTypeUserList, Data: proto.UserListData{Users: users}}

	case core.EventBanned:
		return proto.Outbound{Type: proto.OutboundTypeBanned, Data: proto.BannedData{
			By: ev.Banned.By,
			IP: ev.Banned.IP,
		}}

	case core.EventLoginResult:
		return proto.Outbound{Type: proto.OutboundTypeLoginResult, Data: proto.LoginResultData{
			Success: ev.Login.Success,
			Message: ev.Login.Message,
		}}

	default:
		return proto.Outbound{Type: proto.OutboundTypeSystem, Data: proto.SystemData{Text: ev.Text}}
	}
}
