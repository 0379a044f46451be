package models

type (
	// TextObject is a Slack composition text object.
	TextObject struct {
		Type  string `json:"type"`
		Text  string `json:"text"`
		Emoji bool   `json:"emoji,omitempty"`
	}

	// MessageBlock is a Slack layout block. Only the fields used by the
	// header, section, divider and context blocks are modelled.
	MessageBlock struct {
		Type     string       `json:"type"`
		Text     *TextObject  `json:"text,omitempty"`
		Fields   []TextObject `json:"fields,omitempty"`
		Elements []TextObject `json:"elements,omitempty"`
	}

	// ChatMessage is a formatted notification ready for dispatch.
	ChatMessage struct {
		Blocks []MessageBlock
		Text   string
	}

	// ConnectionInfo is returned by a successful connection test.
	ConnectionInfo struct {
		Team   string
		User   string
		UserID string
	}
)

func PlainText(text string) *TextObject {
	return &TextObject{Type: "plain_text", Text: text, Emoji: true}
}

func Markdown(text string) TextObject {
	return TextObject{Type: "mrkdwn", Text: text}
}
