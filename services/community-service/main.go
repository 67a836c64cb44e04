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
	"civicsync/pkg/response"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	db    *mongo.Database
	store *objstore.Store
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
	mux.HandleFunc("/api/posts", postsHandler)
	mux.HandleFunc("/api/posts/", postDetailHandler)
	mux.HandleFunc("/api/ngos", ngosHandler)
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", middleware.GetMetricsHandler())

	handler := middleware.TraceMiddleware(
		middleware.MetricsMiddleware(
			middleware.LoggerMiddleware(mux),
		),
	)

	port := getenv("COMMUNITY_PORT", "8083")
	log.Printf("[INFO] Community Service running on port :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("[ERROR] Server failed: %v", err)
	}
}

func ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection("community_posts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("posts index: %w", err)
	}

	// Unique registration number and email back the duplicate check on
	// NGO signup.
	_, err = db.Collection("ngos").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "reg_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ngos indexes: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status":  "UP",
		"service": "community-service",
	})
}
