package opentui

// LinkPool interns hyperlink URLs behind small integer ids so a Cell's
// TextAttributes can carry a link without embedding a string. Id 0 is
// reserved to mean "no link"; ids are 1-indexed and freed slots are reused
// LIFO, mirroring GraphemePool's free-list discipline.
type LinkPool struct {
	urls      []*string
	refCounts []uint32
	freeList  []uint32
}

// NewLinkPool returns an empty link pool.
func NewLinkPool() *LinkPool {
	return &LinkPool{}
}

// Alloc interns url and returns its non-zero link id.
func (p *LinkPool) Alloc(url string) uint32 {
	if n := len(p.freeList); n > 0 {
		id := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		idx := id - 1
		u := url
		p.urls[idx] = &u
		p.refCounts[idx] = 1
		return id
	}

	u := url
	p.urls = append(p.urls, &u)
	p.refCounts = append(p.refCounts, 1)
	return uint32(len(p.urls))
}

// Get returns the URL for id, or "" and false if id is 0, out of range, or freed.
func (p *LinkPool) Get(id uint32) (string, bool) {
	if id == 0 {
		return "", false
	}
	idx := id - 1
	if idx >= uint32(len(p.urls)) || p.urls[idx] == nil {
		return "", false
	}
	return *p.urls[idx], true
}

// Incref increments the reference count for id. A no-op for id 0 or an
// out-of-range id.
func (p *LinkPool) Incref(id uint32) {
	if id == 0 {
		return
	}
	idx := id - 1
	if idx >= uint32(len(p.refCounts)) {
		return
	}
	if p.refCounts[idx] < ^uint32(0) {
		p.refCounts[idx]++
	}
}

// Decref decrements the reference count for id, freeing the slot back onto
// the free list once it reaches zero. A no-op for id 0, an out-of-range id,
// or a slot already at zero.
func (p *LinkPool) Decref(id uint32) {
	if id == 0 {
		return
	}
	idx := id - 1
	if idx >= uint32(len(p.refCounts)) {
		return
	}
	if p.refCounts[idx] == 0 {
		return
	}
	p.refCounts[idx]--
	if p.refCounts[idx] == 0 {
		p.urls[idx] = nil
		p.freeList = append(p.freeList, id)
	}
}

// Clear removes all links. IDs restart from 1 on the next Alloc.
func (p *LinkPool) Clear() {
	p.urls = nil
	p.refCounts = nil
	p.freeList = nil
}

// Len returns the number of allocated slots, including freed ones.
func (p *LinkPool) Len() int {
	return len(p.urls)
}

// IsEmpty reports whether the pool has never allocated a slot.
func (p *LinkPool) IsEmpty() bool {
	return len(p.urls) == 0
}
