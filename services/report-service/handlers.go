package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"civicsync/pkg/alerts"
	"civicsync/pkg/response"
	"civicsync/services/report-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func reportsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listReports(w, r)
	case http.MethodPost:
		createReport(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

// reportDetailHandler dispatches /api/reports/{id}[/status|/deadline|/comments].
func reportDetailHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	if rest == "" {
		response.Error(w, http.StatusBadRequest, "Missing report ID", "")
		return
	}

	id, sub, _ := strings.Cut(rest, "/")
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid report ID", err.Error())
		return
	}

	switch sub {
	case "":
		if r.Method != http.MethodGet {
			response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
			return
		}
		getReportByID(w, r, objID)
	case "status":
		if r.Method != http.MethodPut {
			response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
			return
		}
		updateReportStatus(w, r, objID)
	case "deadline":
		if r.Method != http.MethodPut {
			response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
			return
		}
		updateReportDeadline(w, r, objID)
	case "comments":
		commentsHandler(w, r, objID)
	default:
		response.NotFound(w, "Not found")
	}
}

func listReports(w http.ResponseWriter, r *http.Request) {
	filter, err := buildReportFilter(r.URL.Query())
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.Collection("reports").Find(ctx, filter, opts)
	if err != nil {
		response.Internal(w, "Failed to fetch reports", err)
		return
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		response.Internal(w, "Failed to decode reports", err)
		return
	}

	response.Success(w, http.StatusOK, "Reports fetched successfully", reports)
}

func getReportByID(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var report models.Report
	err := db.Collection("reports").FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(w, "Report not found")
		} else {
			response.Internal(w, "Failed to fetch report", err)
		}
		return
	}

	response.Success(w, http.StatusOK, "Report fetched successfully", report)
}

func updateReportStatus(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if !alerts.ValidStatus(input.Status) {
		response.Error(w, http.StatusBadRequest, "Invalid status", "")
		return
	}

	applyReportUpdate(w, r, id, buildStatusUpdate(input.Status, time.Now().UTC()))
}

func updateReportDeadline(w http.ResponseWriter, r *http.Request, id primitive.ObjectID) {
	// Keys absent from the body are untouched; an explicit null clears.
	var input struct {
		Deadline      json.RawMessage `json:"deadline"`
		FinalDeadline json.RawMessage `json:"final_deadline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if input.Deadline == nil && input.FinalDeadline == nil {
		response.Error(w, http.StatusBadRequest, "No deadline field provided", "")
		return
	}

	set := bson.M{}
	unset := bson.M{}
	for field, raw := range map[string]json.RawMessage{
		"deadline":       input.Deadline,
		"final_deadline": input.FinalDeadline,
	} {
		if raw == nil {
			continue
		}
		when, clear, err := parseDeadlineValue(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid "+field, err.Error())
			return
		}
		if clear {
			unset[field] = ""
		} else {
			set[field] = when
		}
	}

	applyReportUpdate(w, r, id, buildDeadlineUpdate(set, unset))
}

// applyReportUpdate runs the mutation, re-reads the committed row for the
// response, and hands it to the broadcaster. A failed re-read downgrades
// to a logged skip: the caller already got its answer from the write.
func applyReportUpdate(w http.ResponseWriter, r *http.Request, id primitive.ObjectID, update bson.M) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := db.Collection("reports").UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		response.Internal(w, "Failed to update report", err)
		return
	}
	if result.MatchedCount == 0 {
		response.NotFound(w, "Report not found")
		return
	}

	report, err := reloadReport(ctx, id)
	if err != nil {
		// The write landed; connected clients will catch up on their
		// next full fetch.
		logBroadcastSkip(r, id, err)
		response.Success(w, http.StatusOK, "Report updated", nil)
		return
	}

	go publishReportEvent(models.EventReportUpdated, *report)
	response.Success(w, http.StatusOK, "Report updated", report)
}

func commentsHandler(w http.ResponseWriter, r *http.Request, reportID primitive.ObjectID) {
	switch r.Method {
	case http.MethodGet:
		listComments(w, r, reportID)
	case http.MethodPost:
		addComment(w, r, reportID)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

func listComments(w http.ResponseWriter, r *http.Request, reportID primitive.ObjectID) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := db.Collection("comments").Find(ctx, bson.M{"report_id": reportID}, opts)
	if err != nil {
		response.Internal(w, "Failed to fetch comments", err)
		return
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		response.Internal(w, "Failed to decode comments", err)
		return
	}

	response.Success(w, http.StatusOK, "Comments fetched successfully", comments)
}

func addComment(w http.ResponseWriter, r *http.Request, reportID primitive.ObjectID) {
	var input struct {
		UserName    string `json:"userName"`
		CommentText string `json:"commentText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if strings.TrimSpace(input.UserName) == "" || strings.TrimSpace(input.CommentText) == "" {
		response.Error(w, http.StatusBadRequest, "Username and comment text are required", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// No foreign keys in the store; check the parent ourselves.
	if err := db.Collection("reports").FindOne(ctx, bson.M{"_id": reportID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			response.NotFound(w, "Report not found")
		} else {
			response.Internal(w, "Failed to fetch report", err)
		}
		return
	}

	comment := models.Comment{
		ID:          primitive.NewObjectID(),
		ReportID:    reportID,
		UserName:    input.UserName,
		CommentText: input.CommentText,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := db.Collection("comments").InsertOne(ctx, comment); err != nil {
		response.Internal(w, "Failed to save comment", err)
		return
	}

	response.Success(w, http.StatusCreated, "Comment added successfully", comment)
}

func actionableAlertsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Membership per the actionable predicate: open status plus a set
	// deadline. $ne null also excludes rows where the field was cleared.
	filter := bson.M{
		"status":   bson.M{"$in": []string{alerts.StatusPending, alerts.StatusInProgress}},
		"deadline": bson.M{"$ne": nil},
	}
	opts := options.Find().SetSort(bson.D{{Key: "deadline", Value: 1}})

	cursor, err := db.Collection("reports").Find(ctx, filter, opts)
	if err != nil {
		response.Internal(w, "Failed to fetch actionable reports", err)
		return
	}
	defer cursor.Close(ctx)

	reports := []models.Report{}
	if err := cursor.All(ctx, &reports); err != nil {
		response.Internal(w, "Failed to decode actionable reports", err)
		return
	}

	response.Success(w, http.StatusOK, "Actionable reports fetched successfully", reports)
}

func reloadReport(ctx context.Context, id primitive.ObjectID) (*models.Report, error) {
	var report models.Report
	if err := db.Collection("reports").FindOne(ctx, bson.M{"_id": id}).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}
