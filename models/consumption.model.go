package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlcoholConsumption is one row of the per-country consumption statistics
// table. The capitalized field keys match the existing dataset.
type AlcoholConsumption struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Gender        string             `bson:"Gender" json:"Gender"`
	Count         float64            `bson:"Count" json:"Count"`
	Countries     string             `bson:"Countries" json:"Countries"`
	CountriesCode string             `bson:"CountriesCode" json:"CountriesCode"`
	Date          time.Time          `bson:"Date" json:"Date"`
}

// Validate checks the fields required to store a consumption row.
func (a *AlcoholConsumption) Validate() error {
	if a.Gender == "" {
		return errors.New("Gender is required")
	}
	if a.Countries == "" {
		return errors.New("Countries is required")
	}
	if a.CountriesCode == "" {
		return errors.New("CountriesCode is required")
	}
	if a.Date.IsZero() {
		return errors.New("Date is required")
	}
	return nil
}
