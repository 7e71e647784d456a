// Package messaging publica los movimientos de stock confirmados en Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/domain/entity"
)

var _ inventory.MovementPublisher = (*KafkaPublisher)(nil)

// messageWriter subconjunto de *kafka.Writer que usa el publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MovementEvent payload JSON de cada mensaje.
type MovementEvent struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Delta     int       `json:"delta"`
	Balance   int       `json:"balance"`
	Source    string    `json:"source"`
	Reference string    `json:"reference"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// KafkaPublisher escribe un mensaje por movimiento, con clave = item_id para conservar el orden por item.
type KafkaPublisher struct {
	w messageWriter
}

// NewKafkaPublisher construye el writer sobre los brokers y el topic dados.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}}
}

// Publish envía los movimientos en un solo lote.
func (p *KafkaPublisher) Publish(ctx context.Context, movements []*entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(movements))
	for _, m := range movements {
		value, err := json.Marshal(MovementEvent{
			ID:        m.ID,
			ItemID:    m.ItemID,
			Delta:     m.Delta,
			Balance:   m.Balance,
			Source:    m.Source,
			Reference: m.Reference,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("kafka: serializar movimiento %s: %w", m.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(m.ItemID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "source", Value: []byte(m.Source)},
			},
		})
	}

	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.w.WriteMessages(sendCtx, msgs...); err != nil {
		return fmt.Errorf("kafka: publicar %d movimientos: %w", len(msgs), err)
	}
	return nil
}

// Close libera el writer.
func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}
