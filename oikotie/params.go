package oikotie

import (
	"fmt"
	"net/url"
	"strconv"
)

// DefaultLimit is the page size used when a query does not set one.
const DefaultLimit = 50

// Query is the logical search specification. Locations are free-text
// names; everything else maps onto provider filter parameters. Zero
// values mean "filter not set" and are omitted from the encoded form.
type Query struct {
	Locations  []string
	HouseTypes []string
	RoomCounts []int
	PriceMin   int
	PriceMax   int
	SizeMin    int
	SizeMax    int
	Limit      int
}

// houseTypeCodes maps each provider category to its internal numeric
// building-type codes. The category set is closed.
var houseTypeCodes = map[string][]int{
	"kerrostalo":  {1, 256},
	"rivitalo":    {2},
	"paritalo":    {64},
	"omakotitalo": {4, 8, 32, 128},
}

// expandHouseTypes flattens the requested categories into one code
// list, preserving category order. Unknown names fail before any
// network call is made.
func expandHouseTypes(categories []string) ([]int, error) {
	var codes []int
	for _, cat := range categories {
		expansion, ok := houseTypeCodes[cat]
		if !ok {
			return nil, fmt.Errorf("%w: unknown house type %q", ErrInvalidFilter, cat)
		}
		codes = append(codes, expansion...)
	}
	return codes, nil
}

// buildParams encodes a query and its resolved locations into the
// provider's flat parameter form. The four fixed parameters (limit,
// cardType, offset, sortBy) are always present; optional filters are
// omitted when unset. Multi-valued filters repeat the key per value in
// input order.
func buildParams(q Query, locations []Location) (url.Values, error) {
	codes, err := expandHouseTypes(q.HouseTypes)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("cardType", "101")
	params.Set("offset", "0")
	params.Set("sortBy", "published_sort_desc")

	if len(locations) > 0 {
		params.Set("locations", EncodeLocations(locations))
	}
	for _, code := range codes {
		params.Add("buildingType[]", strconv.Itoa(code))
	}
	for _, n := range q.RoomCounts {
		params.Add("roomCount[]", strconv.Itoa(n))
	}
	if q.PriceMin > 0 {
		params.Set("price[min]", strconv.Itoa(q.PriceMin))
	}
	if q.PriceMax > 0 {
		params.Set("price[max]", strconv.Itoa(q.PriceMax))
	}
	if q.SizeMin > 0 {
		params.Set("size[min]", strconv.Itoa(q.SizeMin))
	}
	if q.SizeMax > 0 {
		params.Set("size[max]", strconv.Itoa(q.SizeMax))
	}

	return params, nil
}
