package opentui

// MaxPoolID is the largest pool id the 24-bit GraphemeId encoding can hold.
const MaxPoolID uint32 = 0x00FF_FFFF

// DefaultSoftLimit is the advisory pool size used when none is configured.
const DefaultSoftLimit = 1_000_000

// HighUtilizationThreshold is the utilization percentage considered "high".
const HighUtilizationThreshold = 80

// CompactionFragmentationThreshold is the minimum free/total ratio at which
// compaction becomes worthwhile.
const CompactionFragmentationThreshold = 0.5

// CompactionMinSlots is the minimum pool size below which compaction isn't
// worth its own overhead even at high fragmentation.
const CompactionMinSlots = 1000

// CompactionResult reports how a GraphemePool.Compact call remapped ids.
// Callers must walk any GraphemeId they're holding and apply Remap before
// using the pool again.
type CompactionResult struct {
	OldToNew   map[uint32]uint32
	SlotsFreed int
	BytesSaved int
}

// HasRemappings reports whether the result holds any id mappings. It is
// false when Compact found nothing to compact; otherwise every live id has an
// entry, including ids that kept their value.
func (r CompactionResult) HasRemappings() bool {
	return len(r.OldToNew) > 0
}

// Remap returns the new id for oldID, or (0, false) if it wasn't remapped.
func (r CompactionResult) Remap(oldID uint32) (uint32, bool) {
	newID, ok := r.OldToNew[oldID]
	return newID, ok
}

// PoolStats summarizes GraphemePool utilization.
type PoolStats struct {
	TotalSlots         int
	ActiveSlots        int
	FreeSlots          int
	SoftLimit          int
	UtilizationPercent int
}

// IsAboveThreshold reports whether utilization meets or exceeds threshold.
func (s PoolStats) IsAboveThreshold(threshold int) bool {
	return s.UtilizationPercent >= threshold
}

type poolSlot struct {
	bytes    string
	refcount uint32
	width    uint8
}

func (s poolSlot) isFree() bool {
	return s.refcount == 0
}

// GraphemePool is a refcounted interner for multi-codepoint grapheme
// clusters (emoji ZWJ sequences, combining characters) that don't fit in a
// single rune. Slot 0 is reserved as the invalid/placeholder id so a
// zero-valued GraphemeId never aliases real content.
//
// GraphemePool is not safe for concurrent use; callers needing concurrent
// access should hold their own mutex around it.
type GraphemePool struct {
	slots     []poolSlot
	freeList  []uint32
	index     map[string]uint32
	softLimit int
}

// NewGraphemePool creates an empty pool with the default soft limit.
func NewGraphemePool() *GraphemePool {
	return &GraphemePool{
		slots:     []poolSlot{{}},
		index:     make(map[string]uint32),
		softLimit: DefaultSoftLimit,
	}
}

// NewGraphemePoolWithCapacity pre-sizes the pool's internal storage.
func NewGraphemePoolWithCapacity(capacity int) *GraphemePool {
	slots := make([]poolSlot, 1, capacity+1)
	return &GraphemePool{
		slots:     slots,
		index:     make(map[string]uint32, capacity),
		softLimit: DefaultSoftLimit,
	}
}

// NewGraphemePoolWithSoftLimit creates a pool with a custom advisory limit.
func NewGraphemePoolWithSoftLimit(softLimit int) *GraphemePool {
	return &GraphemePool{
		slots:     []poolSlot{{}},
		index:     make(map[string]uint32),
		softLimit: softLimit,
	}
}

// SetSoftLimit updates the pool's advisory soft limit.
func (p *GraphemePool) SetSoftLimit(limit int) {
	p.softLimit = limit
}

// SoftLimit returns the pool's configured soft limit.
func (p *GraphemePool) SoftLimit() int {
	return p.softLimit
}

// Alloc stores grapheme as a new slot and returns a fresh GraphemeId with
// refcount 1. Unlike Intern, this never deduplicates — repeated graphemes
// get their own slot each time.
func (p *GraphemePool) Alloc(grapheme string) GraphemeId {
	width := GraphemeClusterWidth(grapheme)
	if width > 127 {
		width = 127
	}
	widthU8 := uint8(width)
	slot := poolSlot{bytes: grapheme, refcount: 1, width: widthU8}

	var poolID uint32
	if n := len(p.freeList); n > 0 {
		poolID = p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.slots[poolID] = slot
	} else {
		poolID = uint32(len(p.slots))
		if poolID > MaxPoolID {
			panic("opentui: GraphemePool exceeded 16M entry limit")
		}
		p.slots = append(p.slots, slot)
	}

	p.index[grapheme] = poolID
	return NewGraphemeID(poolID, widthU8)
}

// Intern returns the existing id for grapheme if already allocated (bumping
// its refcount), or allocates a new slot otherwise.
func (p *GraphemePool) Intern(grapheme string) GraphemeId {
	if poolID, ok := p.index[grapheme]; ok {
		if slot := p.slots[poolID]; !slot.isFree() {
			p.increfByPoolID(poolID)
			return NewGraphemeID(poolID, slot.width)
		}
		delete(p.index, grapheme)
	}
	return p.Alloc(grapheme)
}

// Incref increments id's reference count. A no-op for invalid or freed ids.
func (p *GraphemePool) Incref(id GraphemeId) {
	p.increfByPoolID(id.PoolID())
}

func (p *GraphemePool) increfByPoolID(poolID uint32) {
	if int(poolID) >= len(p.slots) {
		return
	}
	if p.slots[poolID].refcount > 0 {
		p.slots[poolID].refcount++
	}
}

// Decref decrements id's reference count, returning true if references
// remain and false if the slot was just freed (or was already invalid).
func (p *GraphemePool) Decref(id GraphemeId) bool {
	return p.decrefByPoolID(id.PoolID())
}

func (p *GraphemePool) decrefByPoolID(poolID uint32) bool {
	if int(poolID) >= len(p.slots) {
		return false
	}
	slot := &p.slots[poolID]
	if slot.refcount == 0 {
		return false
	}
	slot.refcount--
	if slot.refcount == 0 {
		delete(p.index, slot.bytes)
		slot.bytes = ""
		p.freeList = append(p.freeList, poolID)
		return false
	}
	return true
}

// Get returns the grapheme string for id, or ("", false) if invalid/freed.
func (p *GraphemePool) Get(id GraphemeId) (string, bool) {
	return p.GetByPoolID(id.PoolID())
}

// GetByPoolID looks up a grapheme directly by its pool slot index.
func (p *GraphemePool) GetByPoolID(poolID uint32) (string, bool) {
	if int(poolID) >= len(p.slots) {
		return "", false
	}
	slot := p.slots[poolID]
	if slot.isFree() {
		return "", false
	}
	return slot.bytes, true
}

// Refcount returns id's current reference count, or 0 if invalid.
func (p *GraphemePool) Refcount(id GraphemeId) uint32 {
	if int(id.PoolID()) >= len(p.slots) {
		return 0
	}
	return p.slots[id.PoolID()].refcount
}

// IsValid reports whether id refers to a currently-allocated slot.
func (p *GraphemePool) IsValid(id GraphemeId) bool {
	poolID := id.PoolID()
	return int(poolID) < len(p.slots) && !p.slots[poolID].isFree()
}

// ActiveCount returns the number of non-freed graphemes in the pool.
func (p *GraphemePool) ActiveCount() int {
	n := 0
	for _, s := range p.slots[1:] {
		if !s.isFree() {
			n++
		}
	}
	return n
}

// TotalSlots returns the number of allocated slots, freed or not, excluding
// the reserved slot 0.
func (p *GraphemePool) TotalSlots() int {
	return len(p.slots) - 1
}

// FreeCount returns the number of slots available for reuse.
func (p *GraphemePool) FreeCount() int {
	return len(p.freeList)
}

// IsFull reports whether the pool has exhausted the 24-bit id space with no
// free slots left to reuse.
func (p *GraphemePool) IsFull() bool {
	return len(p.freeList) == 0 && len(p.slots) > int(MaxPoolID)
}

// CapacityRemaining estimates how many more allocations the pool can take
// before exhausting the 24-bit id space, counting both free slots and
// never-yet-allocated ids.
func (p *GraphemePool) CapacityRemaining() int {
	freeSlots := len(p.freeList)
	allocatable := int(MaxPoolID) + 1 - len(p.slots)
	if allocatable < 0 {
		allocatable = 0
	}
	return freeSlots + allocatable
}

// Clear resets the pool to its initial empty state.
func (p *GraphemePool) Clear() {
	p.slots = p.slots[:1]
	p.freeList = p.freeList[:0]
	p.index = make(map[string]uint32)
}

// Stats returns a utilization snapshot.
func (p *GraphemePool) Stats() PoolStats {
	total := p.TotalSlots()
	free := p.FreeCount()
	active := total - free

	utilization := 0
	if p.softLimit > 0 {
		utilization = active * 100 / p.softLimit
	}

	return PoolStats{
		TotalSlots:         total,
		ActiveSlots:        active,
		FreeSlots:          free,
		SoftLimit:          p.softLimit,
		UtilizationPercent: utilization,
	}
}

// UtilizationPercent returns active slots as a percentage of the soft
// limit; can exceed 100 if the pool has grown past it via Alloc.
func (p *GraphemePool) UtilizationPercent() int {
	return p.Stats().UtilizationPercent
}

// IsHighUtilization reports whether utilization is at or above
// HighUtilizationThreshold.
func (p *GraphemePool) IsHighUtilization() bool {
	return p.UtilizationPercent() >= HighUtilizationThreshold
}

// IsAboveUtilization reports whether utilization is at or above threshold.
func (p *GraphemePool) IsAboveUtilization(threshold int) bool {
	return p.UtilizationPercent() >= threshold
}

// FragmentationRatio returns free slots as a fraction of total slots, in
// [0, 1]. High values suggest Compact would be worthwhile.
func (p *GraphemePool) FragmentationRatio() float32 {
	total := p.TotalSlots()
	if total == 0 {
		return 0
	}
	return float32(p.FreeCount()) / float32(total)
}

// ShouldCompact reports whether fragmentation and pool size both cross the
// thresholds where compaction overhead pays for itself.
func (p *GraphemePool) ShouldCompact() bool {
	ratio := p.FragmentationRatio()
	size := p.TotalSlots()
	return ratio > CompactionFragmentationThreshold && size > CompactionMinSlots
}

// CloneBatch increments reference counts for every pool id in ids. Invalid
// ids are silently skipped. Used when copying cell regions between buffers.
func (p *GraphemePool) CloneBatch(ids []uint32) {
	for _, id := range ids {
		p.increfByPoolID(id)
	}
}

// FreeBatch decrements reference counts for every pool id in ids, returning
// how many were actually freed (refcount reached zero).
func (p *GraphemePool) FreeBatch(ids []uint32) int {
	freed := 0
	for _, id := range ids {
		wasValid := int(id) < len(p.slots) && p.slots[id].refcount > 0
		if wasValid && !p.decrefByPoolID(id) {
			freed++
		}
	}
	return freed
}

// AllocBatch allocates each grapheme in graphemes as its own slot, in order.
func (p *GraphemePool) AllocBatch(graphemes []string) []GraphemeId {
	result := make([]GraphemeId, len(graphemes))
	for i, g := range graphemes {
		result[i] = p.Alloc(g)
	}
	return result
}

// TryAlloc behaves like Alloc but returns false instead of growing past the
// soft limit when no free slot can be reused.
func (p *GraphemePool) TryAlloc(grapheme string) (GraphemeId, bool) {
	active := p.ActiveCount()
	if len(p.freeList) == 0 && active >= p.softLimit {
		return GraphemeId(0), false
	}
	return p.Alloc(grapheme), true
}

// TryIntern behaves like Intern, but respects the soft limit for new
// allocations; interning an existing grapheme always succeeds.
func (p *GraphemePool) TryIntern(grapheme string) (GraphemeId, bool) {
	if poolID, ok := p.index[grapheme]; ok {
		if slot := p.slots[poolID]; !slot.isFree() {
			p.increfByPoolID(poolID)
			return NewGraphemeID(poolID, slot.width), true
		}
		delete(p.index, grapheme)
	}
	return p.TryAlloc(grapheme)
}

// IterActive calls fn for every active (non-freed) entry in the pool,
// skipping the reserved slot 0.
func (p *GraphemePool) IterActive(fn func(poolID uint32, grapheme string)) {
	for i, s := range p.slots {
		if i == 0 || s.isFree() {
			continue
		}
		fn(uint32(i), s.bytes)
	}
}

// Compact defragments the pool, discarding freed slots and assigning active
// entries new contiguous ids. Every GraphemeId a caller holds must be
// remapped via the returned CompactionResult afterward.
func (p *GraphemePool) Compact() CompactionResult {
	if len(p.freeList) == 0 {
		return CompactionResult{}
	}

	slotsFreed := len(p.freeList)

	activeCount := p.ActiveCount()
	heapSum := 0
	for _, s := range p.slots[1:] {
		if !s.isFree() {
			heapSum += len(s.bytes)
		}
	}
	avgHeap := 0
	if activeCount > 0 {
		avgHeap = heapSum / activeCount
	}
	bytesSaved := slotsFreed * (4 + 4 + 1 + avgHeap)

	newSlots := make([]poolSlot, 1, activeCount+1)
	oldToNew := make(map[uint32]uint32, activeCount)
	newIndex := make(map[string]uint32, activeCount)

	for oldID := 1; oldID < len(p.slots); oldID++ {
		slot := p.slots[oldID]
		if slot.isFree() {
			continue
		}
		newID := uint32(len(newSlots))
		oldToNew[uint32(oldID)] = newID
		newIndex[slot.bytes] = newID
		newSlots = append(newSlots, slot)
	}

	p.slots = newSlots
	p.freeList = p.freeList[:0]
	p.index = newIndex

	return CompactionResult{OldToNew: oldToNew, SlotsFreed: slotsFreed, BytesSaved: bytesSaved}
}
