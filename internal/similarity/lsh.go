package similarity

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// LSHOptions configures the bands-and-rows MinHash pre-filter (spec.md
// §4.4). All hash seeds are deterministic functions of their index so LSH
// candidate shortlists are reproducible across runs (spec.md §5).
type LSHOptions struct {
	NumBands    int
	RowsPerBand int
	ShingleSize int
}

// DefaultLSHOptions matches spec.md §6 defaults (num_bands=25,
// rows_per_band=4).
func DefaultLSHOptions() LSHOptions {
	return LSHOptions{NumBands: 25, RowsPerBand: 4, ShingleSize: 3}
}

func (o LSHOptions) numHashes() int { return o.NumBands * o.RowsPerBand }

// Shingles returns overlapping k-grams of the structural tag sequence,
// joined by "\x1f" so distinct tags can't collide across a boundary.
func Shingles(tags []string, k int) []string {
	if k <= 0 {
		k = 1
	}
	if len(tags) < k {
		if len(tags) == 0 {
			return nil
		}
		return []string{strings.Join(tags, "\x1f")}
	}
	out := make([]string, 0, len(tags)-k+1)
	for i := 0; i+k <= len(tags); i++ {
		out = append(out, strings.Join(tags[i:i+k], "\x1f"))
	}
	return out
}

// hashSeed derives a deterministic (multiplier, offset) pair for hash
// function i, used for the linear-congruential MinHash permutation.
func hashSeed(i int) (uint64, uint64) {
	base := fnvHash("clonecraft-lsh-seed-" + strconv.Itoa(i))
	a := base*2 + 1 // keep odd so it's coprime-friendly
	b := fnvHash("clonecraft-lsh-offset-" + strconv.Itoa(i))
	return a, b
}

func fnvHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Signature computes a MinHash signature of length opts.numHashes() over
// the shingles of tags.
func Signature(tags []string, opts LSHOptions) []uint64 {
	shingles := Shingles(tags, opts.ShingleSize)
	n := opts.numHashes()
	sig := make([]uint64, n)
	for i := range sig {
		sig[i] = ^uint64(0)
	}
	if len(shingles) == 0 {
		return sig
	}
	base := make([]uint64, len(shingles))
	for i, s := range shingles {
		base[i] = fnvHash(s)
	}
	for i := 0; i < n; i++ {
		a, b := hashSeed(i)
		min := ^uint64(0)
		for _, h := range base {
			v := a*h + b
			if v < min {
				min = v
			}
		}
		sig[i] = min
	}
	return sig
}

// Index buckets signatures by band so CandidatesFor can shortlist without
// pairwise comparison of every sequence. Disabling LSH (bypassing Index and
// comparing exhaustively) must not change any cluster's membership beyond
// recall loss (spec.md §4.4) — it is a pre-filter, never an arbiter.
type Index struct {
	opts    LSHOptions
	buckets []map[uint64][]int // one bucket map per band
}

// NewIndex builds an empty LSH index.
func NewIndex(opts LSHOptions) *Index {
	buckets := make([]map[uint64][]int, opts.NumBands)
	for i := range buckets {
		buckets[i] = map[uint64][]int{}
	}
	return &Index{opts: opts, buckets: buckets}
}

// Add inserts id's signature into every band bucket.
func (idx *Index) Add(id int, sig []uint64) {
	for band := 0; band < idx.opts.NumBands; band++ {
		key := bandKey(sig, band, idx.opts.RowsPerBand)
		idx.buckets[band][key] = append(idx.buckets[band][key], id)
	}
}

// CandidatesFor returns the (deduplicated) set of ids sharing at least one
// band bucket with sig, excluding self when self >= 0.
func (idx *Index) CandidatesFor(sig []uint64, self int) []int {
	seen := map[int]bool{}
	var out []int
	for band := 0; band < idx.opts.NumBands; band++ {
		key := bandKey(sig, band, idx.opts.RowsPerBand)
		for _, id := range idx.buckets[band][key] {
			if id == self || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func bandKey(sig []uint64, band, rows int) uint64 {
	start := band * rows
	end := start + rows
	if end > len(sig) {
		end = len(sig)
	}
	h := fnv.New64a()
	for i := start; i < end; i++ {
		var buf [8]byte
		v := sig[i]
		for j := 0; j < 8; j++ {
			buf[j] = byte(v >> (8 * j))
		}
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
