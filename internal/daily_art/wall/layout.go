package wall

import (
	"github.com/imageanchor/artaday-backend/config"
	"github.com/imageanchor/artaday-backend/internal/daily_art/domain"
)

// Grid geometry relative to the image anchor, in meters.
const (
	Columns = 3
	OriginX = -0.05
	OriginZ = 0.05
)

// Anchor describes the printed image the AR client tracks.
type Anchor struct {
	ReferenceImage string  `json:"reference_image"`
	PhysicalWidth  float64 `json:"physical_width"`
}

// Tile is one framed artwork on the wall.
type Tile struct {
	Index    int     `json:"index"`
	Key      string  `json:"key"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Size     float64 `json:"size"`
	Label    string  `json:"label"`
	ImageURL string  `json:"image_url"`
	Title    string  `json:"title,omitempty"`
	Query    string  `json:"query"`
}

// Layout is everything the client needs to place the diary wall.
type Layout struct {
	Anchor Anchor `json:"anchor"`
	Tiles  []Tile `json:"tiles"`
}

// Builder lays entries out in rows of three, newest rows furthest from the viewer.
type Builder struct {
	anchor   Anchor
	tileSize float64
}

func NewBuilder(cfg config.WallConfig) *Builder {
	size := cfg.TileSize
	if size <= 0 {
		size = 0.070
	}
	return &Builder{
		anchor: Anchor{
			ReferenceImage: cfg.ReferenceImage,
			PhysicalWidth:  cfg.PhysicalWidth,
		},
		tileSize: size,
	}
}

// Build places entries in the given order. Entries without a small image are skipped
// and do not take a slot.
func (b *Builder) Build(entries []domain.StoredEntry) Layout {
	tiles := make([]Tile, 0, len(entries))
	for _, e := range entries {
		if e.DailyArt.PrimaryImageSmall == "" {
			continue
		}
		i := len(tiles)
		x, z := b.Position(i)
		tiles = append(tiles, Tile{
			Index:    i,
			Key:      e.Key,
			X:        x,
			Z:        z,
			Size:     b.tileSize,
			Label:    e.Day.String(),
			ImageURL: e.DailyArt.PrimaryImageSmall,
			Title:    e.DailyArt.Title,
			Query:    e.DailyQuery,
		})
	}
	return Layout{Anchor: b.anchor, Tiles: tiles}
}

// Position returns the anchor-relative x and z of slot i.
func (b *Builder) Position(i int) (float64, float64) {
	x := b.tileSize*float64(i%Columns) + OriginX
	z := -b.tileSize*float64(i/Columns) + OriginZ
	return x, z
}
