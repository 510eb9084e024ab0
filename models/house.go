package models

import "time"

// TimeLayout is the provider's fixed timestamp format, used both when
// parsing API responses and when projecting records into sheet rows.
const TimeLayout = "2006-01-02T15:04:05Z"

// HouseEntry is the canonical, flattened representation of one listing.
// It is constructed once per raw provider card and never mutated.
// ID is the deduplication key for downstream sinks.
type HouseEntry struct {
	ID                int64
	URL               string
	Description       string
	Rooms             int
	RoomConfiguration *string
	Price             int
	Published         *time.Time
	Size              float64
	Address           string
	District          string
	City              string
	Country           string
	Year              int
	BuildingType      *string
	Longitude         *float64
	Latitude          *float64
	BrandName         *string
	PriceChanged      *time.Time
	Visits            int
	VisitsWeekly      int
}

// Fields returns the canonical attribute names in row order. The sheet
// header and Row() must stay in sync with this list.
func Fields() []string {
	return []string{
		"id", "url", "description", "rooms", "room_configuration",
		"price", "published", "size", "address", "district", "city",
		"country", "year", "building_type", "longitude", "latitude",
		"brand_name", "price_changed", "visits", "visits_weekly",
	}
}

// Row projects the entry into a flat sheet row. Nullable fields render
// as empty cells, timestamps through the provider layout.
func (e HouseEntry) Row() []interface{} {
	return []interface{}{
		e.ID,
		e.URL,
		e.Description,
		e.Rooms,
		strOrEmpty(e.RoomConfiguration),
		e.Price,
		timeOrEmpty(e.Published),
		e.Size,
		e.Address,
		e.District,
		e.City,
		e.Country,
		e.Year,
		strOrEmpty(e.BuildingType),
		floatOrEmpty(e.Longitude),
		floatOrEmpty(e.Latitude),
		strOrEmpty(e.BrandName),
		timeOrEmpty(e.PriceChanged),
		e.Visits,
		e.VisitsWeekly,
	}
}

func strOrEmpty(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrEmpty(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}

func timeOrEmpty(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}
