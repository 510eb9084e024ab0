package oikotie

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildParamsFixedOnly(t *testing.T) {
	params, err := buildParams(Query{}, nil)
	if err != nil {
		t.Fatalf("buildParams() error = %v", err)
	}

	want := map[string]string{
		"limit":    "50",
		"cardType": "101",
		"offset":   "0",
		"sortBy":   "published_sort_desc",
	}
	if len(params) != len(want) {
		t.Errorf("expected only the %d fixed params, got %d: %v", len(want), len(params), params)
	}
	for key, value := range want {
		if got := params.Get(key); got != value {
			t.Errorf("param %s = %q, want %q", key, got, value)
		}
	}
}

func TestExpandHouseTypes(t *testing.T) {
	tests := []struct {
		name    string
		input   []string
		want    []int
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"kerrostalo", []string{"kerrostalo"}, []int{1, 256}, false},
		{"rivitalo", []string{"rivitalo"}, []int{2}, false},
		{"paritalo", []string{"paritalo"}, []int{64}, false},
		{"omakotitalo", []string{"omakotitalo"}, []int{4, 8, 32, 128}, false},
		{"order preserved", []string{"omakotitalo", "kerrostalo"}, []int{4, 8, 32, 128, 1, 256}, false},
		{"flattened", []string{"kerrostalo", "rivitalo"}, []int{1, 256, 2}, false},
		{"unknown", []string{"igloo"}, nil, true},
		{"unknown among known", []string{"kerrostalo", "igloo"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandHouseTypes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expandHouseTypes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFilter) {
					t.Errorf("error = %v, want ErrInvalidFilter", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expandHouseTypes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandHouseTypesDeterministic(t *testing.T) {
	input := []string{"omakotitalo", "kerrostalo", "rivitalo"}
	first, err := expandHouseTypes(input)
	if err != nil {
		t.Fatalf("expandHouseTypes() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := expandHouseTypes(input)
		if err != nil {
			t.Fatalf("expandHouseTypes() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("expansion not deterministic: %v vs %v", first, again)
		}
	}
}

func TestBuildParamsMultiValued(t *testing.T) {
	q := Query{
		HouseTypes: []string{"kerrostalo", "rivitalo"},
		RoomCounts: []int{2, 3, 4},
	}
	params, err := buildParams(q, nil)
	if err != nil {
		t.Fatalf("buildParams() error = %v", err)
	}

	if got, want := params["buildingType[]"], []string{"1", "256", "2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("buildingType[] = %v, want %v", got, want)
	}
	if got, want := params["roomCount[]"], []string{"2", "3", "4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("roomCount[] = %v, want %v", got, want)
	}
}

func TestBuildParamsRanges(t *testing.T) {
	q := Query{PriceMin: 100000, PriceMax: 300000, SizeMin: 40, SizeMax: 90, Limit: 25}
	params, err := buildParams(q, nil)
	if err != nil {
		t.Fatalf("buildParams() error = %v", err)
	}

	want := map[string]string{
		"price[min]": "100000",
		"price[max]": "300000",
		"size[min]":  "40",
		"size[max]":  "90",
		"limit":      "25",
	}
	for key, value := range want {
		if got := params.Get(key); got != value {
			t.Errorf("param %s = %q, want %q", key, got, value)
		}
	}
}

func TestBuildParamsOmitsUnsetFilters(t *testing.T) {
	q := Query{PriceMax: 200000}
	params, err := buildParams(q, nil)
	if err != nil {
		t.Fatalf("buildParams() error = %v", err)
	}

	for _, absent := range []string{"price[min]", "size[min]", "size[max]", "buildingType[]", "roomCount[]", "locations"} {
		if _, ok := params[absent]; ok {
			t.Errorf("param %s should be omitted when unset", absent)
		}
	}
	if got := params.Get("price[max]"); got != "200000" {
		t.Errorf("price[max] = %q, want 200000", got)
	}
}

func TestBuildParamsLocations(t *testing.T) {
	locs := []Location{
		{CardID: 1652, CardType: 4, Name: "Keskusta, Helsinki"},
		{CardID: 99, CardType: 5, Name: "Kamppi"},
	}
	params, err := buildParams(Query{}, locs)
	if err != nil {
		t.Fatalf("buildParams() error = %v", err)
	}

	want := `[[1652,4,"Keskusta,+Helsinki"],[99,5,"Kamppi"]]`
	if got := params.Get("locations"); got != want {
		t.Errorf("locations = %q, want %q", got, want)
	}
}
