package oikotie

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"oikotie-scraper/models"
)

// rawCard mirrors the provider's card shape, limited to the canonical
// attribute set. Pointer fields distinguish absent from zero.
type rawCard struct {
	ID                *int64        `json:"id"`
	URL               string        `json:"url"`
	Description       string        `json:"description"`
	Rooms             int           `json:"rooms"`
	RoomConfiguration *string       `json:"roomConfiguration"`
	Price             int           `json:"price"`
	Published         string        `json:"published"`
	Size              float64       `json:"size"`
	Address           string        `json:"address"`
	District          string        `json:"district"`
	City              string        `json:"city"`
	Country           string        `json:"country"`
	Year              int           `json:"year"`
	BuildingType      *string       `json:"buildingType"`
	Visits            int           `json:"visits"`
	VisitsWeekly      int           `json:"visits_weekly"`
	PriceChanged      string        `json:"priceChanged"`
	BuildingData      *buildingData `json:"buildingData"`
	Brand             *brandData    `json:"brand"`
	Coordinates       *coordinates  `json:"coordinates"`
}

type buildingData struct {
	Year         *int    `json:"year"`
	BuildingType *string `json:"buildingType"`
}

type brandData struct {
	Name *string `json:"name"`
}

type coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// buildEntry normalizes one raw provider card into the canonical
// record. buildingData sub-fields win over their top-level namesakes.
func buildEntry(raw json.RawMessage) (models.HouseEntry, error) {
	var card rawCard
	if err := json.Unmarshal(raw, &card); err != nil {
		return models.HouseEntry{}, fmt.Errorf("%w: decode card: %v", ErrParse, err)
	}
	if card.ID == nil {
		return models.HouseEntry{}, fmt.Errorf("%w: card has no id", ErrValidation)
	}

	entry := models.HouseEntry{
		ID:                *card.ID,
		URL:               card.URL,
		Description:       strings.ReplaceAll(card.Description, "\n", ""),
		Rooms:             card.Rooms,
		RoomConfiguration: card.RoomConfiguration,
		Price:             card.Price,
		Size:              card.Size,
		Address:           card.Address,
		District:          card.District,
		City:              card.City,
		Country:           card.Country,
		Year:              card.Year,
		BuildingType:      card.BuildingType,
		Visits:            card.Visits,
		VisitsWeekly:      card.VisitsWeekly,
	}

	if bd := card.BuildingData; bd != nil {
		if bd.Year != nil {
			entry.Year = *bd.Year
		}
		if bd.BuildingType != nil {
			entry.BuildingType = bd.BuildingType
		}
	}
	if card.Brand != nil {
		entry.BrandName = card.Brand.Name
	}
	if card.Coordinates != nil {
		lon, lat := card.Coordinates.Longitude, card.Coordinates.Latitude
		entry.Longitude = &lon
		entry.Latitude = &lat
	}

	published, err := parseTimestamp(card.Published)
	if err != nil {
		return models.HouseEntry{}, fmt.Errorf("card %d published: %w", *card.ID, err)
	}
	entry.Published = published

	priceChanged, err := parseTimestamp(card.PriceChanged)
	if err != nil {
		return models.HouseEntry{}, fmt.Errorf("card %d priceChanged: %w", *card.ID, err)
	}
	entry.PriceChanged = priceChanged

	return entry, nil
}

// parseTimestamp parses the provider's fixed date-time format. Empty
// input normalizes to nil, not a zero time.
func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(models.TimeLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: timestamp %q: %v", ErrParse, s, err)
	}
	return &t, nil
}
