package domain

import (
	"encoding/json"
	"fmt"
)

// ArtworkRecord is one object from the art catalog, decoded as-is.
type ArtworkRecord struct {
	ObjectID          int    `json:"objectID"`
	PrimaryImage      string `json:"primaryImage"`
	PrimaryImageSmall string `json:"primaryImageSmall"`
	Title             string `json:"title"`
	Culture           string `json:"culture"`
	Period            string `json:"period"`
	Dynasty           string `json:"dynasty"`
	Reign             string `json:"reign"`
	ArtistDisplayName string `json:"artistDisplayName"`
	ArtistDisplayBio  string `json:"artistDisplayBio"`
	ObjectDate        string `json:"objectDate"`
	Dimensions        string `json:"dimensions"`
	City              string `json:"city"`
	Country           string `json:"country"`
	ObjectURL         string `json:"objectURL"`
}

// DiaryEntry is the unit of persistence: one mood phrase and the art chosen for it.
type DiaryEntry struct {
	Key        string        `json:"-"`
	TimeStamp  string        `json:"timeStamp"`
	DailyArt   ArtworkRecord `json:"dailyArt"`
	DailyQuery string        `json:"dailyQuery"`
}

// StoredEntry is a decoded entry together with the calendar day of its timestamp.
type StoredEntry struct {
	DiaryEntry
	Day CalendarDay `json:"day"`
}

// SearchResult mirrors the catalog search response.
type SearchResult struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// storedPayload rejects documents missing required fields.
type storedPayload struct {
	TimeStamp  *string        `json:"timeStamp"`
	DailyArt   *ArtworkRecord `json:"dailyArt"`
	DailyQuery *string        `json:"dailyQuery"`
}

// EncodeEntry renders the store payload for an entry.
func EncodeEntry(entry *DiaryEntry) ([]byte, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("marshal entry: %w", err)
	}
	return data, nil
}

// DecodeEntry parses a stored document. The key is attached by the caller.
func DecodeEntry(key string, data []byte) (*StoredEntry, error) {
	var p storedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &DecodeError{Op: "decode_entry", Err: err}
	}
	if p.TimeStamp == nil {
		return nil, &DecodeError{Op: "decode_entry", Err: fmt.Errorf("missing timeStamp")}
	}
	if p.DailyArt == nil {
		return nil, &DecodeError{Op: "decode_entry", Err: fmt.Errorf("missing dailyArt")}
	}
	if p.DailyQuery == nil {
		return nil, &DecodeError{Op: "decode_entry", Err: fmt.Errorf("missing dailyQuery")}
	}

	day, err := ParseCalendarDay(*p.TimeStamp)
	if err != nil {
		return nil, &DecodeError{Op: "decode_entry", Err: err}
	}

	return &StoredEntry{
		DiaryEntry: DiaryEntry{
			Key:        key,
			TimeStamp:  *p.TimeStamp,
			DailyArt:   *p.DailyArt,
			DailyQuery: *p.DailyQuery,
		},
		Day: day,
	}, nil
}
