// Package faststr implements Str, a string value tuned for equality and
// prefix tests. The first PrefixLen bytes live inline in the value and the
// rest live in a heap buffer owned by the value, so most mismatches are
// decided without touching the heap.
//
// A Str owns its heap buffer. Assigning a Str to another variable moves it:
// only one of the two may be used and released afterwards. Use Clone for an
// independent copy and Release to hand the buffer back to the allocator.
package faststr

import (
	"bytes"
	"fmt"
	"math"
	"unsafe"
)

const (
	// PrefixLen is the number of leading bytes stored inline.
	PrefixLen = 10
	// MaxLength is the largest content length a Str can hold.
	MaxLength = math.MaxUint32
	// MaxExtraCapacity is the largest slack Reserve can provide.
	MaxExtraCapacity = math.MaxUint16
)

// Str is a prefix-cached byte string. The zero value is the empty string.
//
// Inline bytes beyond the content length are always zero, and suffix holds
// max(0, length-PrefixLen)+extra bytes.
type Str struct {
	length uint32
	extra  uint16
	prefix [PrefixLen]byte
	suffix []byte
}

// New copies b into a new Str.
func New(b []byte) (Str, error) {
	return FromString(unsafe.String(unsafe.SliceData(b), len(b)))
}

// FromString copies s into a new Str.
func FromString(s string) (Str, error) {
	if err := checkLength(uint64(len(s))); err != nil {
		return Str{}, err
	}

	var out Str
	out.length = uint32(len(s))
	copy(out.prefix[:], s)

	if len(s) > PrefixLen {
		buf, err := allocator.Alloc(len(s) - PrefixLen)
		if err != nil {
			return Str{}, fmt.Errorf("%w: %d byte suffix: %w", ErrAllocationFailure, len(s)-PrefixLen, err)
		}
		copy(buf, s[PrefixLen:])
		out.suffix = buf
	}
	return out, nil
}

// MustFromString is like FromString but panics on error.
func MustFromString(s string) Str {
	out, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return out
}

func checkLength(n uint64) error {
	if n > MaxLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrOversizeInput, n, uint64(MaxLength))
	}
	return nil
}

func (s *Str) Len() int {
	return int(s.length)
}

func (s *Str) IsEmpty() bool {
	return s.length == 0
}

// Cap returns the content length plus the reserved heap slack. Unused inline
// bytes are not counted.
func (s *Str) Cap() int {
	return int(s.length) + int(s.extra)
}

// Spare returns Cap() - Len().
func (s *Str) Spare() int {
	return int(s.extra)
}

func (s *Str) inlineLen() int {
	return min(int(s.length), PrefixLen)
}

func (s *Str) suffixLen() int {
	if s.length <= PrefixLen {
		return 0
	}
	return int(s.length) - PrefixLen
}

// Equal reports whether s and o hold the same bytes.
func (s *Str) Equal(o *Str) bool {
	if s.length != o.length {
		return false
	}
	// Zero padding makes whole-array comparison equivalent to comparing the
	// first min(length, PrefixLen) bytes.
	if s.prefix != o.prefix {
		return false
	}
	n := s.suffixLen()
	if n == 0 {
		return true
	}
	return bytes.Equal(s.suffix[:n], o.suffix[:n])
}

// EqualString reports whether s holds exactly the bytes of t.
func (s *Str) EqualString(t string) bool {
	if uint64(len(t)) != uint64(s.length) {
		return false
	}
	k := s.inlineLen()
	if string(s.prefix[:k]) != t[:k] {
		return false
	}
	n := s.suffixLen()
	return n == 0 || string(s.suffix[:n]) == t[PrefixLen:]
}

// Compare orders s and o lexicographically by bytes, returning -1, 0 or +1.
func (s *Str) Compare(o *Str) int {
	k := min(s.inlineLen(), o.inlineLen())
	if c := bytes.Compare(s.prefix[:k], o.prefix[:k]); c != 0 {
		return c
	}
	if s.length <= PrefixLen || o.length <= PrefixLen {
		switch {
		case s.length < o.length:
			return -1
		case s.length > o.length:
			return 1
		default:
			return 0
		}
	}
	return bytes.Compare(s.suffix[:s.suffixLen()], o.suffix[:o.suffixLen()])
}

// HasPrefix reports whether p is a prefix of s.
func (s *Str) HasPrefix(p *Str) bool {
	if p.length > s.length {
		return false
	}
	k := p.inlineLen()
	if !bytes.Equal(s.prefix[:k], p.prefix[:k]) {
		return false
	}
	if p.length <= PrefixLen {
		return true
	}
	n := p.suffixLen()
	return bytes.Equal(s.suffix[:n], p.suffix[:n])
}

// HasPrefixBytes reports whether b is a prefix of s.
func (s *Str) HasPrefixBytes(b []byte) bool {
	return s.HasPrefixString(unsafe.String(unsafe.SliceData(b), len(b)))
}

// HasPrefixString reports whether t is a prefix of s.
func (s *Str) HasPrefixString(t string) bool {
	if uint64(len(t)) > uint64(s.length) {
		return false
	}
	k := min(len(t), PrefixLen)
	if string(s.prefix[:k]) != t[:k] {
		return false
	}
	if len(t) <= PrefixLen {
		return true
	}
	return string(s.suffix[:len(t)-PrefixLen]) == t[PrefixLen:]
}

// At returns the byte at index i.
func (s *Str) At(i int) (byte, error) {
	if i < 0 || i >= int(s.length) {
		return 0, fmt.Errorf("%w: index %d, length %d", ErrOutOfBounds, i, s.length)
	}
	if i < PrefixLen {
		return s.prefix[i], nil
	}
	return s.suffix[i-PrefixLen], nil
}

// Reserve makes sure at least n bytes of slack exist beyond the content.
// When the current slack is too small the heap buffer is replaced by a new
// one holding the existing suffix plus n bytes; the old buffer is freed after
// the copy. On error s is left unchanged.
//
// A short string (Len() <= PrefixLen) gets a buffer that holds only slack.
func (s *Str) Reserve(n int) error {
	if n < 0 || n > MaxExtraCapacity {
		return fmt.Errorf("%w: requested %d, max %d", ErrCapacityOverflow, n, MaxExtraCapacity)
	}
	if int(s.extra) >= n {
		return nil
	}

	used := s.suffixLen()
	buf, err := allocator.Alloc(used + n)
	if err != nil {
		return fmt.Errorf("%w: reserve %d bytes: %w", ErrAllocationFailure, used+n, err)
	}
	copy(buf, s.suffix[:used])

	old := s.suffix
	s.suffix = buf
	s.extra = uint16(n)
	if old != nil {
		allocator.Free(old)
	}
	return nil
}

// Clone returns an independent copy of s with its own heap buffer. Slack is
// not carried over.
func (s *Str) Clone() (Str, error) {
	out := Str{length: s.length, prefix: s.prefix}
	if used := s.suffixLen(); used > 0 {
		buf, err := allocator.Alloc(used)
		if err != nil {
			return Str{}, fmt.Errorf("%w: clone %d bytes: %w", ErrAllocationFailure, used, err)
		}
		copy(buf, s.suffix[:used])
		out.suffix = buf
	}
	return out, nil
}

// Release returns the heap buffer to the allocator and resets s to the empty
// string. Releasing an empty or already released Str is a no-op.
func (s *Str) Release() {
	if s.suffix != nil {
		allocator.Free(s.suffix)
	}
	*s = Str{}
}
