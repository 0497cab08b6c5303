// Copyright © 2024 Galvanized Logic Inc.

package world

// ids.go assigns stable, generation-counted handles to structs, objects
// and fragments, generalizing the engine's original single eID allocator
// (entity.go) into one reusable handleTable used three times over (once
// per dense array kept by World in objects.go/structs.go/fragment.go).

import "log/slog"

// Divide each handle into a dense-array index and an edition used to
// detect stale references after a slot is reused, same split as the
// original eID (entity.go), widened for the bigger capacities spec.md
// sets for structs/objects/fragments.
const (
	idBits     = 18                  // index: max 262143 live slots.
	edBits     = 14                  // edition: max 16384 reuses before wraparound.
	maxIndex   = (1 << idBits) - 1   // mask and max live index.
	maxEdition = (1 << edBits) - 1   // mask and max edition count.
	maxFreeLen = 1 << (edBits - 1)   // start recycling once free reaches half the edition range.
)

// StructId, ObjectId and FragId are distinct handle types so the
// compiler catches a struct id accidentally used where an object id is
// expected, even though all three share the same bit layout.
type (
	StructId uint32
	ObjectId uint32
	FragId   uint32
)

// NilStruct, NilObject and NilFrag are the always-invalid zero handles.
const (
	NilStruct StructId = 0
	NilObject ObjectId = 0
	NilFrag   FragId   = 0
)

func handleIndex(h uint32) uint32    { return h & maxIndex }
func handleEdition(h uint32) uint32  { return (h >> idBits) & maxEdition }
func makeHandle(index, edition uint32) uint32 {
	return (index & maxIndex) | (edition&maxEdition)<<idBits
}

// handleTable hands out generation-counted dense-array indices: create
// returns a fresh handle, erase invalidates it and queues the slot for
// reuse, and valid reports whether a previously returned handle still
// refers to the slot it was issued for. The caller owns the parallel
// dense slices the handle indexes into.
type handleTable struct {
	editions []uint16 // edition currently live at each slot, 1-based index.
	free     []uint32 // 1-based slot indices ready for reuse.
	kind     string   // "struct", "object" or "fragment", for log context.
	cap      int      // capacity ceiling (MaxStructs, MaxObjects, MaxFrags).
}

func newHandleTable(kind string, capacity int) *handleTable {
	return &handleTable{kind: kind, cap: capacity}
}

// create allocates a new slot and returns its handle, or 0 if the table
// has exhausted its capacity. The returned handle's index (handleIndex)
// is 1-based; callers subtract 1 to reach the backing dense slice.
func (t *handleTable) create() uint32 {
	var idx uint32
	if len(t.free) > maxFreeLen {
		idx = t.free[0]
		t.free = append(t.free[:0], t.free[1:]...)
	} else {
		t.editions = append(t.editions, 0)
		idx = uint32(len(t.editions))
		if int(idx) > t.cap {
			t.editions = t.editions[:len(t.editions)-1]
			if len(t.free) == 0 {
				slog.Warn("handle table exhausted", "kind", t.kind, "capacity", t.cap)
				return 0
			}
			idx = t.free[0]
			t.free = append(t.free[:0], t.free[1:]...)
		}
	}
	return makeHandle(idx, uint32(t.editions[idx-1]))
}

// valid reports whether handle h still refers to a live slot.
func (t *handleTable) valid(h uint32) bool {
	idx := handleIndex(h)
	if idx == 0 || idx > uint32(len(t.editions)) {
		return false
	}
	return uint32(t.editions[idx-1]) == handleEdition(h)
}

// erase invalidates handle h's slot and queues it for reuse. Callers
// must remove the corresponding dense-slice entry (typically via
// swap-delete) before or after calling erase.
func (t *handleTable) erase(h uint32) {
	idx := handleIndex(h)
	if idx == 0 || idx > uint32(len(t.editions)) {
		return
	}
	t.editions[idx-1]++
	if t.editions[idx-1] > maxEdition {
		t.editions[idx-1] = 0
	}
	t.free = append(t.free, idx)
}
