// Package history provides bounded undo/redo over full-buffer snapshots.
//
// The store keeps two stacks. The undo stack always holds at least one entry,
// the initial snapshot, and its top is the most recently committed state. The
// redo stack is only filled by Undo and is discarded by every Commit.
//
// # Capacity
//
// The undo stack never exceeds its capacity. When a commit overflows it, the
// second-oldest entry is evicted so the initial snapshot stays reachable as the
// floor of the history:
//
//	store, err := history.New(buf.Snapshot(), history.WithCapacity(6))
//	if err != nil {
//		return err
//	}
//	if err := store.Commit(buf.Snapshot()); err != nil {
//		return err
//	}
//	if prev, ok := store.Undo(); ok {
//		buf.Restore(prev)
//	}
//
// # Compression
//
// WithCodec(ZstdCodec{}) keeps entries zstd-compressed in memory. Undo and
// Redo still return plain snapshots.
package history
