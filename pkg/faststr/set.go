package faststr

import "github.com/cespare/xxhash/v2"

// Hash returns the xxhash of the content. Equal values hash equal, and the
// result matches xxhash.Sum64 over the same bytes.
func (s *Str) Hash() uint64 {
	var d xxhash.Digest
	d.Reset()
	_, _ = d.Write(s.prefix[:s.inlineLen()])
	_, _ = d.Write(s.suffix[:s.suffixLen()])
	return d.Sum64()
}

// Set is a hash set of Str values. It owns the values added to it and is not
// safe for concurrent use.
type Set struct {
	buckets map[uint64][]Str
	size    int
}

func NewSet(capacity int) *Set {
	return &Set{buckets: make(map[uint64][]Str, capacity)}
}

// Add moves v into the set and reports whether it was new. A duplicate is
// released, so v must not be used by the caller after Add either way.
func (s *Set) Add(v Str) bool {
	h := v.Hash()
	for i := range s.buckets[h] {
		if s.buckets[h][i].Equal(&v) {
			v.Release()
			return false
		}
	}
	s.buckets[h] = append(s.buckets[h], v)
	s.size++
	return true
}

// AddString adds a copy of t when it is not already present.
func (s *Set) AddString(t string) (bool, error) {
	if s.ContainsString(t) {
		return false, nil
	}
	v, err := FromString(t)
	if err != nil {
		return false, err
	}
	h := v.Hash()
	s.buckets[h] = append(s.buckets[h], v)
	s.size++
	return true, nil
}

func (s *Set) Contains(v *Str) bool {
	bucket := s.buckets[v.Hash()]
	for i := range bucket {
		if bucket[i].Equal(v) {
			return true
		}
	}
	return false
}

func (s *Set) ContainsString(t string) bool {
	bucket := s.buckets[xxhash.Sum64String(t)]
	for i := range bucket {
		if bucket[i].EqualString(t) {
			return true
		}
	}
	return false
}

func (s *Set) Len() int {
	return s.size
}

// Range calls fn for every member until fn returns false. fn must not
// release or retain the values it is given.
func (s *Set) Range(fn func(v *Str) bool) {
	for h := range s.buckets {
		bucket := s.buckets[h]
		for i := range bucket {
			if !fn(&bucket[i]) {
				return
			}
		}
	}
}

// Release frees every member and empties the set.
func (s *Set) Release() {
	for h, bucket := range s.buckets {
		for i := range bucket {
			bucket[i].Release()
		}
		delete(s.buckets, h)
	}
	s.size = 0
}
