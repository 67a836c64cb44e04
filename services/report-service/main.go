package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"civicsync/pkg/database"
	"civicsync/pkg/middleware"
	"civicsync/pkg/objstore"
	"civicsync/pkg/queue"
	"civicsync/pkg/response"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	db          *mongo.Database
	amqpChannel *amqp.Channel
	store       *objstore.Store
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%s",
		getenv("MONGO_USER", "admin"),
		getenv("MONGO_PASSWORD", "password"),
		getenv("MONGO_HOST", "localhost"),
		getenv("MONGO_PORT", "27017"),
	)

	var err error
	db, err = database.ConnectMongo(mongoURI, getenv("MONGO_DB", "civicsync"))
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to MongoDB: %v", err)
	}

	if err := ensureIndexes(); err != nil {
		log.Fatalf("[ERROR] Failed to create indexes: %v", err)
	}

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
	amqpChannel = ch

	if err := queue.DeclareReportsExchange(ch); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	log.Println("[OK] Connected to RabbitMQ")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err = objstore.Connect(ctx,
		getenv("MINIO_ENDPOINT", "localhost:9000"),
		getenv("MINIO_ACCESS_KEY", "minioadmin"),
		getenv("MINIO_SECRET_KEY", "minioadmin"),
		getenv("MINIO_BUCKET", "civicsync-media"),
		os.Getenv("MINIO_USE_SSL") == "true",
	)
	cancel()
	if err != nil {
		log.Fatalf("[ERROR] Failed to connect to object storage: %v", err)
	}

	middleware.RegisterMetrics()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/reports", reportsHandler)
	mux.HandleFunc("/api/reports/", reportDetailHandler)
	mux.HandleFunc("/api/alerts/actionable", actionableAlertsHandler)
	mux.HandleFunc("/api/analytics", analyticsHandler)
	mux.HandleFunc("/api/analytics/case-status", caseStatusHandler)
	mux.HandleFunc("/api/analytics/monthly-trends", monthlyTrendsHandler)
	mux.HandleFunc("/uploads/", mediaHandler)
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", middleware.GetMetricsHandler())

	handler := middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(mux),
		),
	)

	port := getenv("REPORT_PORT", "8082")
	log.Printf("[INFO] Report Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection("reports").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "deadline", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("reports indexes: %w", err)
	}

	_, err = db.Collection("comments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "report_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("comments index: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "report-service",
	})
}
