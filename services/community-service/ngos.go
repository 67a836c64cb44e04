package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"civicsync/pkg/response"
	"civicsync/services/community-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ngosHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		listNGOs(w, r)
	case http.MethodPost:
		registerNGO(w, r)
	default:
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	}
}

func listNGOs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := db.Collection("ngos").Find(ctx, bson.M{}, opts)
	if err != nil {
		response.Internal(w, "Failed to fetch NGOs", err)
		return
	}
	defer cursor.Close(ctx)

	ngos := []models.NGO{}
	if err := cursor.All(ctx, &ngos); err != nil {
		response.Internal(w, "Failed to decode NGOs", err)
		return
	}

	response.Success(w, http.StatusOK, "NGOs fetched successfully", ngos)
}

func registerNGO(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name          string `json:"name"`
		RegNumber     string `json:"regNumber"`
		PresidentName string `json:"presidentName"`
		SecretaryName string `json:"secretaryName"`
		Focus         string `json:"focus"`
		Address       string `json:"address"`
		Email         string `json:"email"`
		Phone         string `json:"phone"`
		Website       string `json:"website"`
		Description   string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	required := []string{
		input.Name, input.RegNumber, input.PresidentName, input.SecretaryName,
		input.Focus, input.Address, input.Email, input.Description,
	}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			response.Error(w, http.StatusBadRequest, "Please fill out all required fields.", "")
			return
		}
	}

	ngo := models.NGO{
		ID:            primitive.NewObjectID(),
		Name:          input.Name,
		RegNumber:     input.RegNumber,
		PresidentName: input.PresidentName,
		SecretaryName: input.SecretaryName,
		FocusArea:     input.Focus,
		Address:       input.Address,
		Email:         input.Email,
		Phone:         input.Phone,
		Website:       input.Website,
		Description:   input.Description,
		CreatedAt:     time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.Collection("ngos").InsertOne(ctx, ngo); err != nil {
		status, msg := registerFailureStatus(err)
		if status == http.StatusConflict {
			response.Error(w, status, msg, "")
		} else {
			response.Internal(w, msg, err)
		}
		return
	}

	response.Success(w, http.StatusCreated, "NGO registered successfully! Your application is pending review.", ngo)
}

// registerFailureStatus maps an NGO insert failure to its API status. The
// unique indexes on reg_number and email turn a duplicate registration
// into a conflict the citizen can act on; anything else is ours.
func registerFailureStatus(err error) (int, string) {
	if mongo.IsDuplicateKeyError(err) {
		return http.StatusConflict, "An NGO with this registration number or email already exists."
	}
	return http.StatusInternalServerError, "Failed to register NGO"
}
