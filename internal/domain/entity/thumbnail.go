package entity

import "time"

// Thumbnail is a cached raster snapshot of a tab's rendered content.
type Thumbnail struct {
	PNG        []byte
	Width      int
	Height     int
	CapturedAt time.Time
}

// IsEmpty reports whether the thumbnail holds no image data.
func (t *Thumbnail) IsEmpty() bool {
	return t == nil || len(t.PNG) == 0
}
