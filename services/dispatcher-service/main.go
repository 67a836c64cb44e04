package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"civicsync/pkg/alerts"
	"civicsync/pkg/queue"
)

// reportEvent is the slice of the broadcast payload this service needs.
type reportEvent struct {
	Type   string `json:"type"`
	Report struct {
		ID            string     `json:"id"`
		Category      string     `json:"category"`
		Location      string     `json:"location"`
		Description   string     `json:"description"`
		Status        string     `json:"status"`
		Deadline      *time.Time `json:"deadline"`
		FinalDeadline *time.Time `json:"final_deadline"`
		Version       int64      `json:"version"`
	} `json:"report"`
}

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
	log.Println("[OK] Dispatcher Service connected to RabbitMQ")

	if err := queue.DeclareReportsExchange(ch); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	queueName, err := queue.BindQueue(ch, "dispatch", queue.KeyReportCreated, queue.KeyReportUpdated)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	msgs, err := queue.ConsumeMessages(ch, queueName)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}

	var feed alerts.Feed

	log.Printf("[INFO] Waiting for report events on queue %q", queueName)
	for d := range msgs {
		var event reportEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("[WARN] Error parsing event: %v", err)
			continue
		}

		if event.Type == "new_report" {
			routeToDepartment(event)
		}

		feed.Apply(alerts.Entry{
			ID:            event.Report.ID,
			Status:        event.Report.Status,
			Deadline:      event.Report.Deadline,
			FinalDeadline: event.Report.FinalDeadline,
		})
		logFeed(&feed)
	}
}

// routeToDepartment forwards a new report to the municipal department
// responsible for its category.
func routeToDepartment(event reportEvent) {
	var department string
	switch strings.ToLower(strings.TrimSpace(event.Report.Category)) {
	case "pothole", "road damage":
		department = "PUBLIC WORKS"
	case "streetlight":
		department = "STREET LIGHTING"
	case "litter", "garbage":
		department = "SANITATION"
	case "property damage", "vandalism":
		department = "CODE ENFORCEMENT"
	default:
		department = "CITY HALL (GENERAL)"
	}

	log.Printf("[ROUTING] Report %s (%s at %s) forwarded to: >> %s <<",
		event.Report.ID, event.Report.Category, event.Report.Location, department)
}

// logFeed prints the actionable queue soonest-deadline-first so operators
// see what is about to slip.
func logFeed(feed *alerts.Feed) {
	entries := feed.Entries()
	log.Printf("[INFO] Actionable reports in feed: %d", len(entries))
	now := time.Now()
	for _, e := range entries {
		c := alerts.Classify(e.Deadline, e.FinalDeadline, now)
		log.Printf("[INFO]   %s - %s (%s)", e.ID, c.Label, alerts.Bucket(c.Tier))
	}
}
