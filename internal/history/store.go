package history

import (
	"fmt"

	"github.com/example/pixelpad/internal/raster"
)

// DefaultCapacity holds the initial snapshot plus five edits.
const DefaultCapacity = 6

// minCapacity keeps room for the initial snapshot and one edit.
const minCapacity = 2

// Store is a bounded undo/redo history of buffer snapshots. It is not safe
// for concurrent use.
type Store struct {
	undoStack []entry
	redoStack []entry

	capacity int
	codec    Codec
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity bounds the undo stack. Values below 2 are raised to 2.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n < minCapacity {
			n = minCapacity
		}
		s.capacity = n
	}
}

// WithCodec selects how entries are held in memory.
func WithCodec(c Codec) Option {
	return func(s *Store) {
		if c != nil {
			s.codec = c
		}
	}
}

// New creates a store whose undo stack holds only initial.
func New(initial raster.Snapshot, opts ...Option) (*Store, error) {
	s := &Store{capacity: DefaultCapacity, codec: RawCodec{}}
	for _, o := range opts {
		o(s)
	}
	e, err := s.codec.encode(initial)
	if err != nil {
		return nil, fmt.Errorf("history init: %w", err)
	}
	s.undoStack = []entry{e}
	return s, nil
}

// Commit pushes snap as the newest state and discards any redo state. When
// the undo stack overflows, the oldest entries after the initial one are
// evicted.
func (s *Store) Commit(snap raster.Snapshot) error {
	e, err := s.codec.encode(snap)
	if err != nil {
		return fmt.Errorf("history commit: %w", err)
	}
	s.undoStack = append(s.undoStack, e)
	s.redoStack = nil

	if excess := len(s.undoStack) - s.capacity; excess > 0 {
		// Keep index 0; drop entries 1..excess.
		copy(s.undoStack[1:], s.undoStack[1+excess:])
		for i := len(s.undoStack) - excess; i < len(s.undoStack); i++ {
			s.undoStack[i] = entry{}
		}
		s.undoStack = s.undoStack[:len(s.undoStack)-excess]
	}
	return nil
}

// Undo moves the newest state onto the redo stack and returns the state that
// is now current. It reports false when only the initial snapshot remains.
func (s *Store) Undo() (raster.Snapshot, bool) {
	if len(s.undoStack) <= 1 {
		return raster.Snapshot{}, false
	}
	top := s.undoStack[len(s.undoStack)-1]
	s.undoStack[len(s.undoStack)-1] = entry{}
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.redoStack = append(s.redoStack, top)
	return s.mustDecode(s.undoStack[len(s.undoStack)-1]), true
}

// Redo moves the most recently undone state back onto the undo stack and
// returns it. It reports false when nothing has been undone.
func (s *Store) Redo() (raster.Snapshot, bool) {
	if len(s.redoStack) == 0 {
		return raster.Snapshot{}, false
	}
	e := s.redoStack[len(s.redoStack)-1]
	s.redoStack[len(s.redoStack)-1] = entry{}
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.undoStack = append(s.undoStack, e)
	return s.mustDecode(e), true
}

// Current returns the most recently committed state.
func (s *Store) Current() raster.Snapshot {
	return s.mustDecode(s.undoStack[len(s.undoStack)-1])
}

// Initial returns the floor of the history.
func (s *Store) Initial() raster.Snapshot {
	return s.mustDecode(s.undoStack[0])
}

// Entries returns the undo stack, oldest first.
func (s *Store) Entries() []raster.Snapshot {
	out := make([]raster.Snapshot, len(s.undoStack))
	for i, e := range s.undoStack {
		out[i] = s.mustDecode(e)
	}
	return out
}

// CanUndo reports whether Undo would succeed.
func (s *Store) CanUndo() bool { return len(s.undoStack) > 1 }

// CanRedo reports whether Redo would succeed.
func (s *Store) CanRedo() bool { return len(s.redoStack) > 0 }

// UndoLen returns the undo stack length, including the initial snapshot.
func (s *Store) UndoLen() int { return len(s.undoStack) }

// RedoLen returns the redo stack length.
func (s *Store) RedoLen() int { return len(s.redoStack) }

// Capacity returns the undo stack bound.
func (s *Store) Capacity() int { return s.capacity }

// Codec returns the entry codec in use.
func (s *Store) Codec() Codec { return s.codec }

// Bytes reports the memory held by entries of both stacks.
func (s *Store) Bytes() int {
	n := 0
	for _, e := range s.undoStack {
		n += e.size()
	}
	for _, e := range s.redoStack {
		n += e.size()
	}
	return n
}

// mustDecode panics when a stored entry cannot be decoded. Entries are only
// produced by the store's own codec, so a failure means memory corruption.
func (s *Store) mustDecode(e entry) raster.Snapshot {
	snap, err := s.codec.decode(e)
	if err != nil {
		panic(fmt.Errorf("history: corrupt %s entry: %w", s.codec.Name(), err))
	}
	return snap
}
