package main

import (
	"log"
	"net/http"

	"civicsync/pkg/middleware"
	"civicsync/pkg/queue"
	"civicsync/services/report-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// publishReportEvent fans the freshly re-read row out through the reports
// exchange. Best-effort: a publish failure is logged and the mutation's
// caller is unaffected.
func publishReportEvent(eventType string, report models.Report) {
	key := queue.KeyReportUpdated
	if eventType == models.EventNewReport {
		key = queue.KeyReportCreated
	}

	event := models.ReportEvent{Type: eventType, Report: report}
	if err := queue.PublishEvent(amqpChannel, key, event); err != nil {
		log.Printf("[WARN] Report %s saved but failed to publish %s event: %v",
			report.ID.Hex(), eventType, err)
		return
	}
	log.Printf("[INFO] Published %s for report %s (version %d)", eventType, report.ID.Hex(), report.Version)
}

// logBroadcastSkip records the one silent failure mode the broadcaster
// has: the post-write re-read failed, so this mutation is never announced.
func logBroadcastSkip(r *http.Request, id primitive.ObjectID, err error) {
	middleware.LogError(middleware.GetTraceID(r),
		"post-write re-read failed, broadcast skipped for report "+id.Hex(), err)
}
