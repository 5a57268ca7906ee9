package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArt() ArtworkRecord {
	return ArtworkRecord{
		ObjectID:          436535,
		PrimaryImage:      "https://images.metmuseum.org/CRDImages/ep/original/DT1567.jpg",
		PrimaryImageSmall: "https://images.metmuseum.org/CRDImages/ep/web-large/DT1567.jpg",
		Title:             "Wheat Field with Cypresses",
		ArtistDisplayName: "Vincent van Gogh",
		ArtistDisplayBio:  "Dutch, Zundert 1853–1890 Auvers-sur-Oise",
		ObjectDate:        "1889",
		Dimensions:        "28 7/8 × 36 3/4 in. (73.2 × 93.4 cm)",
		Country:           "Netherlands",
		ObjectURL:         "https://www.metmuseum.org/art/collection/search/436535",
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, time.March, 10, 14, 5, 33, 0, time.UTC)
	assert.Equal(t, "3/10/2024, 2:05:33 PM", FormatTimestamp(ts, time.UTC))
}

func TestParseCalendarDay(t *testing.T) {
	tests := []struct {
		name    string
		ts      string
		want    CalendarDay
		wantErr bool
	}{
		{name: "standard", ts: "3/10/2024, 2:05:33 PM", want: CalendarDay{Year: 2024, Month: 3, Day: 10}},
		{name: "date only", ts: "12/31/1999", want: CalendarDay{Year: 1999, Month: 12, Day: 31}},
		{name: "narrow space meridiem", ts: "3/9/2024, 9:00:00\u202fAM", want: CalendarDay{Year: 2024, Month: 3, Day: 9}},
		{name: "empty", ts: "", wantErr: true},
		{name: "iso", ts: "2024-03-10T14:05:33Z", wantErr: true},
		{name: "month out of range", ts: "13/1/2024, 1:00:00 AM", wantErr: true},
		{name: "not numeric", ts: "March/10/2024, 1:00:00 AM", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCalendarDay(tt.ts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSecondOfDay(t *testing.T) {
	assert.Equal(t, 14*3600+5*60+33, SecondOfDay("3/10/2024, 2:05:33 PM"))
	assert.Equal(t, 9*3600, SecondOfDay("3/10/2024, 9:00:00\u202fAM"))
	assert.Equal(t, -1, SecondOfDay("3/10/2024"))
	assert.Equal(t, -1, SecondOfDay("3/10/2024, noon"))
}

func TestCalendarDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instant := time.Date(2024, time.March, 11, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, CalendarDay{Year: 2024, Month: 3, Day: 10}, DayOf(instant, ny))
	assert.Equal(t, CalendarDay{Year: 2024, Month: 3, Day: 11}, DayOf(instant, time.UTC))

	d := CalendarDay{Year: 2024, Month: 3, Day: 10}
	assert.Equal(t, "3/10/2024", d.String())
	assert.True(t, CalendarDay{Year: 2024, Month: 3, Day: 9}.Before(d))
	assert.True(t, CalendarDay{Year: 2023, Month: 12, Day: 31}.Before(d))
	assert.False(t, d.Before(d))
}

func TestEntryRoundTrip(t *testing.T) {
	entry := &DiaryEntry{
		Key:        "ignored-by-payload",
		TimeStamp:  "3/10/2024, 2:05:33 PM",
		DailyArt:   sampleArt(),
		DailyQuery: "quiet and hopeful",
	}

	data, err := EncodeEntry(entry)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "ignored-by-payload")
	assert.Contains(t, string(data), `"timeStamp"`)
	assert.Contains(t, string(data), `"dailyArt"`)
	assert.Contains(t, string(data), `"dailyQuery"`)

	stored, err := DecodeEntry("k1", data)
	require.NoError(t, err)
	assert.Equal(t, "k1", stored.Key)
	assert.Equal(t, entry.DailyArt, stored.DailyArt)
	assert.Equal(t, entry.DailyQuery, stored.DailyQuery)
	assert.Equal(t, CalendarDay{Year: 2024, Month: 3, Day: 10}, stored.Day)
}

func TestDecodeEntry_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"timeStamp":`,
		"missing art":       `{"timeStamp":"3/10/2024, 1:00:00 PM","dailyQuery":"x"}`,
		"missing timestamp": `{"dailyArt":{"objectID":1},"dailyQuery":"x"}`,
		"missing query":     `{"timeStamp":"3/10/2024, 1:00:00 PM","dailyArt":{"objectID":1}}`,
		"bad date":          `{"timeStamp":"yesterday","dailyArt":{"objectID":1},"dailyQuery":"x"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeEntry("k", []byte(payload))
			var decodeErr *DecodeError
			assert.True(t, errors.As(err, &decodeErr), "expected DecodeError, got %v", err)
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	base := errors.New("connection refused")

	netErr := &NetworkError{Op: "search", Err: base}
	assert.ErrorIs(t, netErr, base)
	assert.Equal(t, "search: connection refused", netErr.Error())

	statusErr := &NetworkError{Op: "object", StatusCode: 404, Err: errors.New("not found")}
	assert.Equal(t, "object: status 404: not found", statusErr.Error())

	storeErr := &StoreError{Op: "append", Err: ErrEntryKeyExists}
	assert.ErrorIs(t, storeErr, ErrEntryKeyExists)
}
