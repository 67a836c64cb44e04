package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"civicsync/pkg/alerts"
	"civicsync/pkg/response"
	"civicsync/services/report-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

const recentReportLimit = 5

type categoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

type analyticsSnapshot struct {
	Total          int64            `json:"total"`
	StatusCounts   map[string]int64 `json:"status_counts"`
	CategoryCounts []categoryCount  `json:"category_counts"`
	Recent         []models.Report  `json:"recent"`
}

// analyticsHandler assembles the dashboard snapshot from four independent
// queries run concurrently. Any single failure fails the whole response;
// no partial snapshots.
func analyticsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var snap analyticsSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := db.Collection("reports").CountDocuments(gctx, bson.M{})
		snap.Total = total
		return err
	})

	g.Go(func() error {
		counts, err := countByField(gctx, "$status")
		if err != nil {
			return err
		}
		statusCounts := map[string]int64{}
		for _, c := range counts {
			statusCounts[c.Category] = c.Count
		}
		snap.StatusCounts = statusCounts
		return nil
	})

	g.Go(func() error {
		counts, err := countByField(gctx, "$category")
		snap.CategoryCounts = counts
		return err
	})

	g.Go(func() error {
		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(recentReportLimit)
		cursor, err := db.Collection("reports").Find(gctx, bson.M{}, opts)
		if err != nil {
			return err
		}
		defer cursor.Close(gctx)
		recent := []models.Report{}
		if err := cursor.All(gctx, &recent); err != nil {
			return err
		}
		snap.Recent = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		response.Internal(w, "Failed to aggregate analytics", err)
		return
	}

	response.Success(w, http.StatusOK, "Analytics data retrieved", snap)
}

func countByField(ctx context.Context, field string) ([]categoryCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": field, "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	}
	cursor, err := db.Collection("reports").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []categoryCount{}
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// caseStatusHandler returns per-status counts keyed the way the pie chart
// expects: lower-snake status names, zero-filled.
func caseStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	counts, err := countByField(ctx, "$status")
	if err != nil {
		response.Internal(w, "Failed to count case statuses", err)
		return
	}

	statusCounts := map[string]int64{
		"pending":     0,
		"in_progress": 0,
		"resolved":    0,
		"rejected":    0,
	}
	for _, c := range counts {
		key := statusKey(c.Category)
		if _, known := statusCounts[key]; known {
			statusCounts[key] = c.Count
		}
	}

	response.Success(w, http.StatusOK, "Case status counts retrieved", statusCounts)
}

func statusKey(status string) string {
	return strings.ReplaceAll(strings.ToLower(status), " ", "_")
}

type monthlyTrends struct {
	Labels   []string       `json:"labels"`
	Datasets []trendDataset `json:"datasets"`
}

type trendDataset struct {
	Label string  `json:"label"`
	Data  []int64 `json:"data"`
}

// monthlyTrendsHandler counts created and resolved reports per calendar
// month over the trailing six months.
func monthlyTrendsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	const months = 6
	now := time.Now().UTC()

	trends := monthlyTrends{
		Datasets: []trendDataset{
			{Label: "Cases Created"},
			{Label: "Cases Resolved"},
		},
	}

	for i := months - 1; i >= 0; i-- {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		next := first.AddDate(0, 1, 0)

		trends.Labels = append(trends.Labels, first.Month().String())

		created, err := db.Collection("reports").CountDocuments(ctx, bson.M{
			"created_at": bson.M{"$gte": first, "$lt": next},
		})
		if err != nil {
			response.Internal(w, "Failed to count created cases", err)
			return
		}
		resolved, err := db.Collection("reports").CountDocuments(ctx, bson.M{
			"status":      alerts.StatusResolved,
			"resolved_at": bson.M{"$gte": first, "$lt": next},
		})
		if err != nil {
			response.Internal(w, "Failed to count resolved cases", err)
			return
		}

		trends.Datasets[0].Data = append(trends.Datasets[0].Data, created)
		trends.Datasets[1].Data = append(trends.Datasets[1].Data, resolved)
	}

	response.Success(w, http.StatusOK, "Monthly trends retrieved", trends)
}
