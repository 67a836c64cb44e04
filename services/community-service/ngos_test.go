package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestRegisterFailureStatus(t *testing.T) {
	duplicate := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: "E11000 duplicate key error collection: civicsync.ngos index: reg_number_1"},
		},
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate key", duplicate, http.StatusConflict},
		{"wrapped duplicate key", fmt.Errorf("insert: %w", duplicate), http.StatusConflict},
		{"other write error", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121}}}, http.StatusInternalServerError},
		{"plain error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := registerFailureStatus(tt.err)
			if status != tt.want {
				t.Errorf("registerFailureStatus() = %d, want %d", status, tt.want)
			}
			if msg == "" {
				t.Error("registerFailureStatus() returned an empty message")
			}
		})
	}
}
