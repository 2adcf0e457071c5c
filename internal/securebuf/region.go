package securebuf

// region is the backing memory of a Buffer. mem is kept exactly as returned
// by the allocator since munmap needs the original slice.
type region struct {
	mem    []byte
	mapped bool
	locked bool
}

func heapRegion(n int) region {
	return region{mem: make([]byte, n)}
}
