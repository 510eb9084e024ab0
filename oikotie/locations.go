package oikotie

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Location is one resolved match from the provider's location search:
// the internal card id, its type discriminator, and the display name
// it was resolved from.
type Location struct {
	CardID   int
	CardType int
	Name     string
}

type locationMatch struct {
	Card struct {
		CardID   int `json:"cardId"`
		CardType int `json:"cardType"`
	} `json:"card"`
}

// ResolveLocations looks up each free-text name against the provider
// and returns every match, in input order. A name with no matches
// contributes nothing. Lookup failures propagate without retry.
func (s *Session) ResolveLocations(ctx context.Context, names []string) ([]Location, error) {
	var resolved []Location
	for _, name := range names {
		lookupURL := fmt.Sprintf("%s/api/3.0/location?query=%s", s.baseURL, url.QueryEscape(name))

		var matches []locationMatch
		if err := s.getJSON(ctx, lookupURL, &matches); err != nil {
			return nil, fmt.Errorf("resolve location %q: %w", name, err)
		}
		if len(matches) == 0 {
			s.log.Warn("location yielded no matches", "name", name)
			continue
		}
		for _, m := range matches {
			resolved = append(resolved, Location{
				CardID:   m.Card.CardID,
				CardType: m.Card.CardType,
				Name:     name,
			})
		}
	}
	return resolved, nil
}

// EncodeLocations serializes resolved locations into the provider's
// composite token: [[id,type,"Name+escaped"],...] with spaces in the
// display name replaced by '+'.
func EncodeLocations(locations []Location) string {
	parts := make([]string, 0, len(locations))
	for _, loc := range locations {
		escaped := strings.ReplaceAll(loc.Name, " ", "+")
		parts = append(parts, fmt.Sprintf(`[%d,%d,"%s"]`, loc.CardID, loc.CardType, escaped))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
