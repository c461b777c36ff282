package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// messageType names the content of msg the way the Bot API documents it.
func messageType(msg *tgbotapi.Message) string {
	switch {
	case msg.Text != "":
		return "text"
	case msg.Animation != nil:
		return "animation"
	case len(msg.Photo) > 0:
		return "photo"
	case msg.Document != nil:
		return "document"
	case msg.Sticker != nil:
		return "sticker"
	case msg.Voice != nil:
		return "voice"
	case msg.VideoNote != nil:
		return "video_note"
	case msg.Video != nil:
		return "video"
	case msg.Audio != nil:
		return "audio"
	case msg.Contact != nil:
		return "contact"
	case msg.Venue != nil:
		return "venue"
	case msg.Location != nil:
		return "location"
	case msg.Poll != nil:
		return "poll"
	case msg.Dice != nil:
		return "dice"
	case len(msg.NewChatMembers) > 0:
		return "new_chat_members"
	case msg.LeftChatMember != nil:
		return "left_chat_member"
	case msg.PinnedMessage != nil:
		return "pinned_message"
	default:
		return "unknown"
	}
}
