package oikotie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"oikotie-scraper/models"
)

type cardsResponse struct {
	Cards []json.RawMessage `json:"cards"`
	Found int               `json:"found"`
}

// Search validates the query, resolves its locations and returns a
// lazy result stream. Filter validation happens before any network
// call; the first page is not fetched until Next.
func (s *Session) Search(ctx context.Context, q Query) (*Results, error) {
	if _, err := expandHouseTypes(q.HouseTypes); err != nil {
		return nil, err
	}

	locations, err := s.ResolveLocations(ctx, q.Locations)
	if err != nil {
		return nil, err
	}

	params, err := buildParams(q, locations)
	if err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	return &Results{s: s, ctx: ctx, params: params, limit: limit}, nil
}

// Results is a forward-only, single-pass stream of canonical records
// in the provider's descending-publish-date order. Usage follows the
// sql.Rows shape:
//
//	res, err := session.Search(ctx, q)
//	for res.Next() {
//		entry := res.Entry()
//		...
//	}
//	if err := res.Err(); err != nil {
//		...
//	}
//
// Abandoning iteration simply stops further page fetches. The stream
// is not restartable.
type Results struct {
	s      *Session
	ctx    context.Context
	params url.Values
	limit  int

	offset  int
	found   int
	pages   int
	cards   []json.RawMessage
	idx     int
	cur     models.HouseEntry
	started bool
	done    bool
	err     error
}

// Next advances to the next record, fetching pages as needed. It
// returns false when the stream is exhausted or a failure occurred;
// check Err to tell the two apart.
func (r *Results) Next() bool {
	if r.done || r.err != nil {
		return false
	}
	if !r.started {
		r.started = true
		if !r.fetch(0) {
			return false
		}
	}
	for {
		if r.idx < len(r.cards) {
			entry, err := buildEntry(r.cards[r.idx])
			r.idx++
			if err != nil {
				r.fail(err)
				return false
			}
			r.cur = entry
			return true
		}

		// Page drained. found is whatever the latest page reported; if
		// the provider's total moved mid-pagination a boundary page may
		// be skipped or repeated. Best effort, not corrected.
		if r.offset+r.limit >= r.found {
			r.done = true
			return false
		}
		if !r.fetch(r.offset + r.limit) {
			return false
		}
	}
}

// Entry returns the record produced by the last successful Next.
func (r *Results) Entry() models.HouseEntry {
	return r.cur
}

// Err returns the failure that terminated the stream, if any.
func (r *Results) Err() error {
	return r.err
}

// Found reports the provider's total match count as of the most
// recently fetched page. Zero before the first fetch.
func (r *Results) Found() int {
	return r.found
}

// Pages reports how many page requests have been issued.
func (r *Results) Pages() int {
	return r.pages
}

func (r *Results) fetch(offset int) bool {
	r.params.Set("offset", strconv.Itoa(offset))
	pageURL := r.s.baseURL + "/api/cards?" + r.params.Encode()

	var resp cardsResponse
	if err := r.s.getJSON(r.ctx, pageURL, &resp); err != nil {
		r.fail(fmt.Errorf("fetch page at offset %d: %w", offset, err))
		return false
	}

	r.offset = offset
	r.found = resp.Found
	r.cards = resp.Cards
	r.idx = 0
	r.pages++
	r.s.log.Debug("page fetched", "offset", offset, "cards", len(resp.Cards), "found", resp.Found)
	return true
}

func (r *Results) fail(err error) {
	r.err = err
	r.done = true
}
