package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/arslanyasin/bnw-orders-backend-sub000/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

const notificationExchange = "dispatch_notifications"

var (
	notifyConn *amqp.Connection
	notifyCh   *amqp.Channel
)

// DispatchNotification is the outbound message sent when an order ships.
// Delivery to the customer (SMS/WhatsApp) is handled by a downstream consumer.
type DispatchNotification struct {
	Phone             string `json:"phone"`
	CustomerName      string `json:"customerName"`
	CourierName       string `json:"courierName"`
	TrackingNumber    string `json:"trackingNumber"`
	ConsignmentNumber string `json:"consignmentNumber,omitempty"`
	ReferenceNumber   string `json:"referenceNumber"`
}

// ConnectNotifier sets up the RabbitMQ fanout exchange for outbound
// notifications. A missing RABBITMQ_URL disables notifications instead of
// failing startup.
func ConnectNotifier() error {
	url := config.GetEnv("RABBITMQ_URL", "")
	if url == "" {
		log.Println("RABBITMQ_URL not set, dispatch notifications disabled")
		return nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(notificationExchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return err
	}

	notifyConn = conn
	notifyCh = ch
	log.Println("📨 Connected to RabbitMQ!")
	return nil
}

// NotifyDispatch publishes a dispatch notification. Fire-and-forget: every
// failure is logged, none is returned to the caller.
func NotifyDispatch(n DispatchNotification) {
	if notifyCh == nil {
		return
	}

	body, err := json.Marshal(n)
	if err != nil {
		log.Printf("Failed to marshal dispatch notification for %s: %v", n.ReferenceNumber, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = notifyCh.PublishWithContext(ctx, notificationExchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		log.Printf("Failed to publish dispatch notification for %s: %v", n.ReferenceNumber, err)
	}
}

func CloseNotifier() {
	if notifyCh != nil {
		notifyCh.Close()
	}
	if notifyConn != nil {
		notifyConn.Close()
	}
}
