package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"go-liquorstore/models"
)

// ConsumptionController handles the alcohol-consumption statistics table
type ConsumptionController struct {
	Collection *mongo.Collection
	Log        *zap.SugaredLogger
}

// NewConsumptionController creates a new ConsumptionController
func NewConsumptionController(db *mongo.Database, log *zap.SugaredLogger) *ConsumptionController {
	return &ConsumptionController{
		Collection: db.Collection("alcoholconsumptions"),
		Log:        log,
	}
}

type consumptionRequest struct {
	Gender        string   `json:"Gender"`
	Count         *float64 `json:"Count"`
	Countries     string   `json:"Countries"`
	CountriesCode string   `json:"CountriesCode"`
	Date          string   `json:"Date"`
}

// parseConsumptionDate accepts full timestamps and plain dates, which is what
// the dataset mixes.
func parseConsumptionDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// GetAll retrieves all consumption rows
func (cc *ConsumptionController) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, bson.M{})
	if err != nil {
		cc.Log.Errorw("fetching consumption data", "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching consumption data")
		return
	}
	defer cursor.Close(ctx)

	rows := []models.AlcoholConsumption{}
	if err := cursor.All(ctx, &rows); err != nil {
		cc.Log.Errorw("reading consumption data", "error", err)
		writeError(w, http.StatusInternalServerError, "Error reading consumption data")
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// GetByCountry retrieves consumption rows for one country
func (cc *ConsumptionController) GetByCountry(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := cc.Collection.Find(ctx, bson.M{"Countries": params["country"]})
	if err != nil {
		cc.Log.Errorw("fetching consumption data", "country", params["country"], "error", err)
		writeError(w, http.StatusInternalServerError, "Error fetching consumption data")
		return
	}
	defer cursor.Close(ctx)

	rows := []models.AlcoholConsumption{}
	if err := cursor.All(ctx, &rows); err != nil {
		cc.Log.Errorw("reading consumption data", "error", err)
		writeError(w, http.StatusInternalServerError, "Error reading consumption data")
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// Create adds a new consumption row
func (cc *ConsumptionController) Create(w http.ResponseWriter, r *http.Request) {
	var req consumptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Count == nil {
		writeError(w, http.StatusBadRequest, "Count is required")
		return
	}
	date, err := parseConsumptionDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row := models.AlcoholConsumption{
		Gender:        req.Gender,
		Count:         *req.Count,
		Countries:     req.Countries,
		CountriesCode: req.CountriesCode,
		Date:          date,
	}
	if err := row.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.InsertOne(ctx, row)
	if err != nil {
		cc.Log.Errorw("creating consumption row", "error", err)
		writeError(w, http.StatusInternalServerError, "Error creating consumption data")
		return
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		row.ID = id
	}

	writeJSON(w, http.StatusCreated, row)
}

// Update applies a partial update to a consumption row and returns the
// updated document.
func (cc *ConsumptionController) Update(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{}
	for _, field := range []string{"Gender", "Count", "Countries", "CountriesCode"} {
		if v, ok := body[field]; ok {
			set[field] = v
		}
	}
	if v, ok := body["Date"]; ok {
		s, ok := v.(string)
		if !ok {
			writeError(w, http.StatusBadRequest, "Date must be a string")
			return
		}
		date, err := parseConsumptionDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		set["Date"] = date
	}
	if len(set) == 0 {
		writeError(w, http.StatusBadRequest, "No updatable fields supplied")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var updated models.AlcoholConsumption
	err = cc.Collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		writeError(w, http.StatusNotFound, "Consumption data not found")
		return
	}
	if err != nil {
		cc.Log.Errorw("updating consumption row", "id", id.Hex(), "error", err)
		writeError(w, http.StatusInternalServerError, "Error updating consumption data")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a consumption row
func (cc *ConsumptionController) Delete(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		cc.Log.Errorw("deleting consumption row", "id", id.Hex(), "error", err)
		writeError(w, http.StatusInternalServerError, "Error deleting consumption data")
		return
	}
	if result.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "Consumption data not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted consumption data"})
}
