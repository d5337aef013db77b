package memory

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/bnema/spaced/internal/application/port"
	"github.com/bnema/spaced/internal/domain/entity"
)

// Snapshot renders a flat placeholder whose color is derived from the URL,
// so different pages produce different thumbnails.
func (e *Engine) Snapshot(ctx context.Context) (entity.Thumbnail, error) {
	if err := ctx.Err(); err != nil {
		return entity.Thumbnail{}, err
	}
	if e.Destroyed() {
		return entity.Thumbnail{}, port.ErrEngineDestroyed
	}
	if e.opts.SnapshotErr != nil {
		return entity.Thumbnail{}, e.opts.SnapshotErr
	}

	rawURL := e.URL()
	w, h := e.opts.SnapshotWidth, e.opts.SnapshotHeight
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := colorFor(rawURL)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return entity.Thumbnail{}, fmt.Errorf("encode snapshot: %w", err)
	}
	return entity.Thumbnail{
		PNG:        buf.Bytes(),
		Width:      w,
		Height:     h,
		CapturedAt: time.Now(),
	}, nil
}

func colorFor(rawURL string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(rawURL))
	sum := h.Sum32()
	return color.RGBA{R: uint8(sum >> 16), G: uint8(sum >> 8), B: uint8(sum), A: 0xff}
}
