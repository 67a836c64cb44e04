package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"civicsync/pkg/middleware"
	"civicsync/pkg/queue"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

var hub = NewHub()

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	amqpURI := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		getenv("RABBITMQ_USER", "guest"),
		getenv("RABBITMQ_PASS", "guest"),
		getenv("RABBITMQ_HOST", "localhost"),
		getenv("RABBITMQ_PORT", "5672"),
	)

	conn, ch, err := queue.ConnectRabbitMQ(amqpURI)
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()
	defer ch.Close()
	log.Println("[OK] Connected to RabbitMQ")

	if err := queue.DeclareReportsExchange(ch); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	queueName, err := queue.BindQueue(ch, "notifications", queue.KeyReportCreated, queue.KeyReportUpdated)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	log.Println("[INFO] Listening to notifications queue")

	middleware.RegisterMetrics()

	go consumeReportEvents(ch, queueName)

	mux := http.NewServeMux()
	mux.HandleFunc("/events/subscribe", subscribeHandler)
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", middleware.GetMetricsHandler())

	handler := middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(mux),
		),
	)

	port := getenv("NOTIFICATION_PORT", "8084")
	log.Printf("[INFO] Notification Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

// consumeReportEvents forwards every report event to the hub verbatim.
// The payload already is the full re-read row; the hub neither inspects
// nor reorders it.
func consumeReportEvents(ch *amqp.Channel, queueName string) {
	msgs, err := queue.ConsumeMessages(ch, queueName)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	for d := range msgs {
		var event struct {
			Type   string          `json:"type"`
			Report json.RawMessage `json:"report"`
		}
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("[WARN] Failed to parse report event: %v", err)
			continue
		}

		log.Printf("[OK] Event received - type: %s", event.Type)
		hub.Broadcast(d.Body)
	}
}

// subscribeHandler holds an SSE stream open and relays every broadcast
// until the client disconnects. There is no catch-up: a client that was
// away during a mutation learns the new state from its next full fetch.
func subscribeHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sub := &Subscriber{
		ID:   uuid.New().String(),
		Send: make(chan []byte, 10),
	}

	hub.Register(sub)
	defer hub.Unregister(sub)

	fmt.Fprintf(w, "data: %s\n\n", `{"type":"connected","message":"Connection established"}`)
	flusher.Flush()

	for {
		select {
		case payload, open := <-sub.Send:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	health := map[string]interface{}{
		"status":                "UP",
		"service":               "notification-service",
		"connected_subscribers": hub.Count(),
	}
	json.NewEncoder(w).Encode(health)
}
