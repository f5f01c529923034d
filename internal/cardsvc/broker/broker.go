package broker

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const AuditSubject = "card.audit"

// AuditEvent mirrors the audit log line emitted before a mutation:
// pre-mutation state as of lookup time.
type AuditEvent struct {
	At     time.Time `json:"at"`
	Action string    `json:"action"`
	CardId int       `json:"cardId"`
	Title  string    `json:"title"`
}

// Broker publishes audit events for interested consumers. A nil
// broker is valid and publishes nothing, so wiring NATS stays
// optional.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

func (b *Broker) PublishAudit(ev AuditEvent) {
	if b == nil || b.Conn == nil {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Errorf("Error marshaling audit event %s", err)
		return
	}

	if err := b.Conn.Publish(AuditSubject, data); err != nil {
		log.Errorf("Error publishing audit event %s", err)
	}
}
