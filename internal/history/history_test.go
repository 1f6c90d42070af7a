package history

import (
	"image/color"
	"testing"

	"github.com/example/pixelpad/internal/raster"
)

// snap returns a 4x4 snapshot whose pixels all hold value v in the red
// channel, making every snapshot in a test distinguishable.
func snap(t *testing.T, v uint8) raster.Snapshot {
	t.Helper()
	b, err := raster.New(4, 4)
	if err != nil {
		t.Fatal(err)
	}
	b.FillAll(color.RGBA{R: v, A: 255})
	return b.Snapshot()
}

func codecs() map[string]Codec {
	return map[string]Codec{"raw": RawCodec{}, "zstd": ZstdCodec{}}
}

func newStore(t *testing.T, initial raster.Snapshot, opts ...Option) *Store {
	t.Helper()
	s, err := New(initial, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func mustCommit(t *testing.T, s *Store, sn raster.Snapshot) {
	t.Helper()
	if err := s.Commit(sn); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestNewHoldsOnlyInitial(t *testing.T) {
	s := newStore(t, snap(t, 0))
	if s.UndoLen() != 1 || s.RedoLen() != 0 {
		t.Fatalf("lens = %d/%d, want 1/0", s.UndoLen(), s.RedoLen())
	}
	if s.Capacity() != DefaultCapacity {
		t.Fatalf("capacity = %d, want %d", s.Capacity(), DefaultCapacity)
	}
	if _, ok := s.Undo(); ok {
		t.Fatal("undo past the initial snapshot succeeded")
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("redo on empty redo stack succeeded")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	for name, c := range codecs() {
		t.Run(name, func(t *testing.T) {
			prev := snap(t, 1)
			next := snap(t, 2)
			s := newStore(t, snap(t, 0), WithCodec(c))
			mustCommit(t, s, prev)
			mustCommit(t, s, next)

			got, ok := s.Undo()
			if !ok {
				t.Fatal("undo reported no-op")
			}
			if !got.Equal(prev) {
				t.Fatal("undo did not return the state before the last commit")
			}
			got, ok = s.Redo()
			if !ok {
				t.Fatal("redo reported no-op")
			}
			if !got.Equal(next) {
				t.Fatal("redo did not return the undone state")
			}
			if !s.Current().Equal(next) {
				t.Fatal("current is not the redone state")
			}
		})
	}
}

func TestCommitAfterUndoClearsRedo(t *testing.T) {
	s := newStore(t, snap(t, 0))
	mustCommit(t, s, snap(t, 1))
	mustCommit(t, s, snap(t, 2))
	s.Undo()
	s.Undo()
	if s.RedoLen() != 2 {
		t.Fatalf("redo len = %d, want 2", s.RedoLen())
	}
	mustCommit(t, s, snap(t, 9))
	if s.CanRedo() {
		t.Fatal("redo state survived a commit")
	}
	if _, ok := s.Redo(); ok {
		t.Fatal("redo after commit was not a no-op")
	}
}

func TestCapacityKeepsInitial(t *testing.T) {
	for name, c := range codecs() {
		t.Run(name, func(t *testing.T) {
			initial := snap(t, 0)
			s := newStore(t, initial, WithCapacity(6), WithCodec(c))
			for i := 1; i <= 20; i++ {
				mustCommit(t, s, snap(t, uint8(i)))
				if s.UndoLen() > 6 {
					t.Fatalf("after %d commits undo len = %d", i, s.UndoLen())
				}
				if !s.Initial().Equal(initial) {
					t.Fatalf("after %d commits index 0 is not the initial snapshot", i)
				}
			}
			entries := s.Entries()
			if len(entries) != 6 {
				t.Fatalf("undo len = %d, want 6", len(entries))
			}
			// The most recent five commits survive in order.
			for i, e := range entries[1:] {
				if !e.Equal(snap(t, uint8(16+i))) {
					t.Fatalf("entry %d is not commit %d", i+1, 16+i)
				}
			}
		})
	}
}

func TestSevenCommitsOnCapacitySix(t *testing.T) {
	initial := snap(t, 0)
	s := newStore(t, initial, WithCapacity(6))
	for i := 1; i <= 7; i++ {
		mustCommit(t, s, snap(t, uint8(i)))
	}
	if s.UndoLen() != 6 {
		t.Fatalf("undo len = %d, want 6", s.UndoLen())
	}
	if !s.Entries()[0].Equal(initial) {
		t.Fatal("first snapshot was evicted")
	}
	// Undo all the way down reaches the initial snapshot and stops.
	var last raster.Snapshot
	n := 0
	for {
		got, ok := s.Undo()
		if !ok {
			break
		}
		last = got
		n++
	}
	if n != 5 {
		t.Fatalf("undid %d steps, want 5", n)
	}
	if !last.Equal(initial) {
		t.Fatal("undo floor is not the initial snapshot")
	}
}

func TestCapacityClamp(t *testing.T) {
	s := newStore(t, snap(t, 0), WithCapacity(0))
	if s.Capacity() != 2 {
		t.Fatalf("capacity = %d, want 2", s.Capacity())
	}
	mustCommit(t, s, snap(t, 1))
	mustCommit(t, s, snap(t, 2))
	if s.UndoLen() != 2 {
		t.Fatalf("undo len = %d, want 2", s.UndoLen())
	}
	got, ok := s.Undo()
	if !ok || !got.Equal(snap(t, 0)) {
		t.Fatal("undo did not land on the initial snapshot")
	}
}

func TestZstdEntriesAreSmaller(t *testing.T) {
	b, err := raster.New(256, 256)
	if err != nil {
		t.Fatal(err)
	}
	b.FillAll(color.RGBA{255, 255, 255, 255})
	raw := newStore(t, b.Snapshot())
	packed := newStore(t, b.Snapshot(), WithCodec(ZstdCodec{}))
	if packed.Bytes() >= raw.Bytes() {
		t.Fatalf("zstd entry %d bytes, raw %d", packed.Bytes(), raw.Bytes())
	}
	if !packed.Initial().Equal(raw.Initial()) {
		t.Fatal("zstd round trip changed pixels")
	}
}
