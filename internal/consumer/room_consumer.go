package consumer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hotelhub/reservation-service/internal/models"
	"github.com/hotelhub/reservation-service/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RoomConsumer keeps the local room read copy in sync with the catalog
// service. Rooms are never edited locally; this is the only writer.
type RoomConsumer struct {
	rooms repository.RoomRepository
}

func NewRoomConsumer(rooms repository.RoomRepository) *RoomConsumer {
	return &RoomConsumer{rooms: rooms}
}

// Start listens for messages and upserts rooms into the local DB.
func (rc *RoomConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		for msg := range msgs {
			rc.handleMessage(msg)
		}
		log.Println("[RoomConsumer] channel closed, stopping consumer")
	}()
}

func (rc *RoomConsumer) handleMessage(msg amqp.Delivery) {
	var room models.Room
	if err := json.Unmarshal(msg.Body, &room); err != nil {
		log.Printf("[RoomConsumer] failed to unmarshal: %v", err)
		msg.Nack(false, false)
		return
	}

	if err := rc.rooms.Upsert(context.Background(), &room); err != nil {
		log.Printf("[RoomConsumer] failed to upsert room %d: %v", room.ID, err)
		msg.Nack(false, true) // requeue
		return
	}

	log.Printf("[RoomConsumer] synced room %d: %s (%s)", room.ID, room.Name, room.OperationalStatus)
	msg.Ack(false)
}
