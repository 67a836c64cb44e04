package main

import (
	"time"

	"civicsync/pkg/alerts"

	"go.mongodb.org/mongo-driver/bson"
)

// buildStatusUpdate assembles the mutation document for a status change.
// Moving into Resolved stamps resolved_at; any other status clears it.
// Every mutation bumps the report version.
func buildStatusUpdate(status string, now time.Time) bson.M {
	update := bson.M{"$inc": bson.M{"version": 1}}
	set := bson.M{"status": status}
	if status == alerts.StatusResolved {
		set["resolved_at"] = now
	} else {
		update["$unset"] = bson.M{"resolved_at": ""}
	}
	update["$set"] = set
	return update
}

// buildDeadlineUpdate assembles the mutation document for a deadline
// change from the already-parsed set/clear maps. Every mutation bumps the
// report version.
func buildDeadlineUpdate(set, unset bson.M) bson.M {
	update := bson.M{"$inc": bson.M{"version": 1}}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
