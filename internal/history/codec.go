package history

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/example/pixelpad/internal/raster"
)

// entry is a snapshot as held by the store.
type entry struct {
	width, height int
	raw           raster.Snapshot
	packed        []byte
}

// Codec converts snapshots to and from their stored form.
type Codec interface {
	encode(raster.Snapshot) (entry, error)
	decode(entry) (raster.Snapshot, error)
	// Name identifies the codec in logs.
	Name() string
}

// RawCodec stores snapshots unchanged.
type RawCodec struct{}

// Name implements Codec.
func (RawCodec) Name() string { return "raw" }

func (RawCodec) encode(s raster.Snapshot) (entry, error) {
	return entry{width: s.Width(), height: s.Height(), raw: s}, nil
}

func (RawCodec) decode(e entry) (raster.Snapshot, error) { return e.raw, nil }

// ZstdCodec stores snapshots as zstd frames. Painted canvases are dominated
// by flat colour runs so frames are usually a small fraction of W*H*4.
type ZstdCodec struct{}

var (
	zstdOnce sync.Once
	zstdEnc  *zstd.Encoder
	zstdDec  *zstd.Decoder
	zstdErr  error
)

func zstdInit() error {
	zstdOnce.Do(func() {
		zstdEnc, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if zstdErr != nil {
			return
		}
		zstdDec, zstdErr = zstd.NewReader(nil)
	})
	return zstdErr
}

// Name implements Codec.
func (ZstdCodec) Name() string { return "zstd" }

func (ZstdCodec) encode(s raster.Snapshot) (entry, error) {
	if err := zstdInit(); err != nil {
		return entry{}, fmt.Errorf("zstd init: %w", err)
	}
	return entry{
		width:  s.Width(),
		height: s.Height(),
		packed: zstdEnc.EncodeAll(s.Bytes(), nil),
	}, nil
}

func (ZstdCodec) decode(e entry) (raster.Snapshot, error) {
	if err := zstdInit(); err != nil {
		return raster.Snapshot{}, fmt.Errorf("zstd init: %w", err)
	}
	pix, err := zstdDec.DecodeAll(e.packed, make([]byte, 0, e.width*e.height*4))
	if err != nil {
		return raster.Snapshot{}, fmt.Errorf("zstd decode: %w", err)
	}
	return raster.NewSnapshot(e.width, e.height, pix)
}

func (e entry) size() int {
	if e.packed != nil {
		return len(e.packed)
	}
	return e.raw.Size()
}
