package wall

import (
	"testing"

	"github.com/imageanchor/artaday-backend/config"
	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(key, img string, d int) domain.StoredEntry {
	return domain.StoredEntry{
		DiaryEntry: domain.DiaryEntry{
			Key:        key,
			TimeStamp:  "3/" + string(rune('0'+d)) + "/2024, 9:00:00 AM",
			DailyArt:   domain.ArtworkRecord{ObjectID: d, Title: "T" + key, PrimaryImageSmall: img},
			DailyQuery: "query " + key,
		},
		Day: domain.CalendarDay{Year: 2024, Month: 3, Day: d},
	}
}

func TestBuilder_Grid(t *testing.T) {
	b := NewBuilder(config.WallConfig{ReferenceImage: "IMG_9692.png", PhysicalWidth: 0.2524, TileSize: 0.070})

	var entries []domain.StoredEntry
	for i := 1; i <= 5; i++ {
		entries = append(entries, entry(string(rune('a'+i-1)), "https://img/small.jpg", i))
	}

	layout := b.Build(entries)
	assert.Equal(t, "IMG_9692.png", layout.Anchor.ReferenceImage)
	assert.InDelta(t, 0.2524, layout.Anchor.PhysicalWidth, 1e-9)
	require.Len(t, layout.Tiles, 5)

	want := [][2]float64{
		{-0.05, 0.05},
		{0.02, 0.05},
		{0.09, 0.05},
		{-0.05, -0.02},
		{0.02, -0.02},
	}
	for i, tile := range layout.Tiles {
		assert.Equal(t, i, tile.Index)
		assert.InDelta(t, want[i][0], tile.X, 1e-9, "x of tile %d", i)
		assert.InDelta(t, want[i][1], tile.Z, 1e-9, "z of tile %d", i)
		assert.InDelta(t, 0.070, tile.Size, 1e-9)
	}
	assert.Equal(t, "3/1/2024", layout.Tiles[0].Label)
	assert.Equal(t, "query a", layout.Tiles[0].Query)
	assert.Equal(t, "https://img/small.jpg", layout.Tiles[0].ImageURL)
}

func TestBuilder_SkipsEntriesWithoutImage(t *testing.T) {
	b := NewBuilder(config.WallConfig{})

	layout := b.Build([]domain.StoredEntry{
		entry("a", "https://img/a.jpg", 1),
		entry("b", "", 2),
		entry("c", "https://img/c.jpg", 3),
	})

	require.Len(t, layout.Tiles, 2)
	assert.Equal(t, "a", layout.Tiles[0].Key)
	assert.Equal(t, "c", layout.Tiles[1].Key)
	assert.Equal(t, 1, layout.Tiles[1].Index)
	assert.InDelta(t, 0.02, layout.Tiles[1].X, 1e-9)
}

func TestBuilder_EmptyDiary(t *testing.T) {
	layout := NewBuilder(config.WallConfig{TileSize: 0.1}).Build(nil)
	assert.NotNil(t, layout.Tiles)
	assert.Empty(t, layout.Tiles)
}
