package game

import (
	jsoniter "github.com/json-iterator/go"
)

const MessageVersion = "1.0"

// GameMessage wraps an engine event for delivery to a presentation layer.
type GameMessage struct {
	Version   string `json:"version"`
	GameID    uint64 `json:"gameId"`
	GameCode  string `json:"gameCode"`
	MessageID uint64 `json:"messageId"`
	Event     Event  `json:"event"`
}

// MessageReceiver receives every event produced by a game, in order.
type MessageReceiver interface {
	GameMessage(message *GameMessage)
}

func EncodeMessage(message *GameMessage) ([]byte, error) {
	return jsoniter.Marshal(message)
}

func DecodeMessage(data []byte) (*GameMessage, error) {
	var message GameMessage
	err := jsoniter.Unmarshal(data, &message)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// MessageCollector keeps received messages in memory.
type MessageCollector struct {
	Messages []*GameMessage
}

func (c *MessageCollector) GameMessage(message *GameMessage) {
	c.Messages = append(c.Messages, message)
}

// Kinds returns the event kinds of the collected messages.
func (c *MessageCollector) Kinds() []EventKind {
	kinds := make([]EventKind, 0, len(c.Messages))
	for _, m := range c.Messages {
		kinds = append(kinds, m.Event.Kind)
	}
	return kinds
}
