package ws

import (
	"encoding/json"
	"log"
	"time"

	"skill-swap/internal/usecase"
)

type skillPostMessage struct {
	Type      string `json:"type"`
	PostID    string `json:"post_id"`
	SkillName string `json:"skill_name"`
	PostType  string `json:"post_type"`
	Timestamp string `json:"timestamp"`
}

// Notifier fans skill post events out to every websocket subscriber.
type Notifier struct {
	hub    *Hub
	logger *log.Logger
}

func NewNotifier(hub *Hub, logger *log.Logger) *Notifier {
	return &Notifier{hub: hub, logger: logger}
}

func (n *Notifier) NotifySkillPost(evt usecase.SkillPostEvent) {
	if n == nil || n.hub == nil {
		return
	}

	b, err := json.Marshal(skillPostMessage{
		Type:      evt.Type,
		PostID:    evt.PostID.String(),
		SkillName: evt.SkillName,
		PostType:  string(evt.PostType),
		Timestamp: evt.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		if n.logger != nil {
			n.logger.Printf("WS encode error | type=%s error=%v", evt.Type, err)
		}
		return
	}

	n.hub.Broadcast(b)
}
