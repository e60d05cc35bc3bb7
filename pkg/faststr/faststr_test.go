package faststr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/faststr/pkg/memory"
)

const (
	longStr  = "this is a longer string that will primarly be in the suffix"
	longStr2 = "let me tell you a story when unsafe went very wrong..."
)

// useTracked installs a tracking allocator for the duration of the test and
// checks that no buffer was freed twice or with the wrong size.
func useTracked(t *testing.T, budget int64) *memory.Tracked {
	t.Helper()
	a := memory.NewTracked(memory.Heap{}, budget, nil)
	restore := SetAllocator(a)
	t.Cleanup(func() {
		restore()
		require.Zero(t, a.Stats().Faults, "allocator faults")
	})
	return a
}

func randomString(n int) string {
	var sb strings.Builder
	for sb.Len() < n {
		sb.WriteString(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return sb.String()[:n]
}

func TestFromString(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		a := useTracked(t, 0)
		s, err := FromString("")
		require.NoError(t, err)

		require.Equal(t, uint32(0), s.length)
		require.True(t, s.IsEmpty())
		require.Zero(t, s.extra)
		require.Equal(t, [PrefixLen]byte{}, s.prefix)
		require.Nil(t, s.suffix)
		require.Zero(t, a.Stats().Allocs)

		var zero Str
		require.True(t, zero.Equal(&s))
	})

	t.Run("No Suffix", func(t *testing.T) {
		a := useTracked(t, 0)
		s, err := FromString("abc")
		require.NoError(t, err)

		require.Equal(t, 3, s.Len())
		require.False(t, s.IsEmpty())
		require.Zero(t, s.extra)
		var expected [PrefixLen]byte
		copy(expected[:], "abc")
		require.Equal(t, expected, s.prefix)
		require.Nil(t, s.suffix)
		require.Zero(t, a.Stats().Allocs)
	})

	t.Run("With Suffix", func(t *testing.T) {
		a := useTracked(t, 0)
		s, err := FromString(longStr)
		require.NoError(t, err)

		require.Equal(t, len(longStr), s.Len())
		require.Zero(t, s.extra)
		require.Equal(t, longStr[:PrefixLen], string(s.prefix[:]))
		require.Equal(t, longStr[PrefixLen:], string(s.suffix))
		require.Equal(t, longStr, s.String())

		stats := a.Stats()
		require.Equal(t, uint64(1), stats.Allocs)
		require.Equal(t, int64(len(longStr)-PrefixLen), stats.LiveBytes)

		s.Release()
		require.Zero(t, a.Stats().LiveBytes)
		require.Equal(t, uint64(1), a.Stats().Frees)
	})

	t.Run("Prefix Boundary", func(t *testing.T) {
		a := useTracked(t, 0)

		exact := MustFromString("0123456789")
		require.Nil(t, exact.suffix)
		require.Zero(t, a.Stats().Allocs)

		over := MustFromString("0123456789X")
		require.Len(t, over.suffix, 1)
		require.Equal(t, uint64(1), a.Stats().Allocs)
		over.Release()
	})

	t.Run("From Bytes", func(t *testing.T) {
		useTracked(t, 0)
		b := []byte(longStr2)
		s, err := New(b)
		require.NoError(t, err)
		b[0] = 'X'
		require.Equal(t, longStr2, s.String())
		s.Release()

		empty, err := New(nil)
		require.NoError(t, err)
		require.True(t, empty.IsEmpty())
	})

	t.Run("Oversize", func(t *testing.T) {
		require.NoError(t, checkLength(MaxLength))
		require.ErrorIs(t, checkLength(uint64(MaxLength)+1), ErrOversizeInput)
	})

	t.Run("Allocation Failure", func(t *testing.T) {
		useTracked(t, 8)
		_, err := FromString(longStr)
		require.ErrorIs(t, err, ErrAllocationFailure)
		require.ErrorIs(t, err, memory.ErrBudgetExceeded)

		require.Panics(t, func() { MustFromString(longStr) })
	})

	t.Run("Random Content", func(t *testing.T) {
		useTracked(t, 0)
		for n := 0; n < 80; n++ {
			text := randomString(n)
			s := MustFromString(text)
			require.Equal(t, n, s.Len())
			require.Equal(t, text, s.String())
			require.True(t, s.Equal(&s))
			require.True(t, s.EqualString(text))
			s.Release()
		}
	})
}

func TestAt(t *testing.T) {
	useTracked(t, 0)

	short := MustFromString("test")
	b, err := short.At(2)
	require.NoError(t, err)
	require.Equal(t, byte('s'), b)

	long := MustFromString(longStr)
	defer long.Release()
	for i := 0; i < len(longStr); i++ {
		b, err := long.At(i)
		require.NoError(t, err)
		require.Equal(t, longStr[i], b, "index %d", i)
	}

	_, err = long.At(len(longStr))
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = short.At(4)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = short.At(-1)
	require.ErrorIs(t, err, ErrOutOfBounds)

	var empty Str
	_, err = empty.At(0)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestEqual(t *testing.T) {
	useTracked(t, 0)

	t.Run("No Suffix", func(t *testing.T) {
		a := MustFromString("abc")
		b := MustFromString("dbc")

		require.True(t, a.Equal(&a))
		require.True(t, b.Equal(&b))
		require.False(t, a.Equal(&b))
		require.False(t, b.Equal(&a))
	})

	t.Run("With Suffix", func(t *testing.T) {
		a := MustFromString(longStr)
		b := MustFromString(longStr2)
		defer a.Release()
		defer b.Release()

		require.True(t, a.Equal(&a))
		require.True(t, b.Equal(&b))
		require.False(t, a.Equal(&b))
	})

	t.Run("Shared Prefix Differs In Suffix", func(t *testing.T) {
		a := MustFromString("0123456789-alpha")
		b := MustFromString("0123456789-omega")
		defer a.Release()
		defer b.Release()

		require.Equal(t, a.Len(), b.Len())
		require.Equal(t, a.prefix, b.prefix)
		require.False(t, a.Equal(&b))
		require.False(t, b.Equal(&a))
	})

	t.Run("Independent Buffers", func(t *testing.T) {
		a := MustFromString(longStr)
		b := MustFromString(longStr)
		defer a.Release()
		defer b.Release()

		require.NotSame(t, &a.suffix[0], &b.suffix[0])
		require.True(t, a.Equal(&b))
		require.True(t, b.Equal(&a))
	})

	t.Run("Lengths Differ", func(t *testing.T) {
		a := MustFromString("ab")
		b := MustFromString("ab\x00")
		require.False(t, a.Equal(&b))

		var empty Str
		require.False(t, empty.Equal(&a))
		require.True(t, empty.Equal(&Str{}))
	})

	t.Run("Against String", func(t *testing.T) {
		a := MustFromString(longStr)
		defer a.Release()

		require.True(t, a.EqualString(longStr))
		require.False(t, a.EqualString(longStr[:len(longStr)-1]+"!"))
		require.False(t, a.EqualString(longStr[:PrefixLen]))
		require.True(t, (&Str{}).EqualString(""))
	})
}

func TestCompare(t *testing.T) {
	useTracked(t, 0)

	texts := []string{"", "a", "ab", "ab\x00", "abc", "0123456789", "0123456789a", "0123456789b", longStr, longStr2, "zz"}
	values := make([]Str, len(texts))
	for i, text := range texts {
		values[i] = MustFromString(text)
	}
	defer ReleaseAll(values)

	for i := range texts {
		for j := range texts {
			require.Equal(t, strings.Compare(texts[i], texts[j]), values[i].Compare(&values[j]),
				"%q vs %q", texts[i], texts[j])
		}
	}
}

func TestHasPrefix(t *testing.T) {
	useTracked(t, 0)

	t.Run("Against Str", func(t *testing.T) {
		a := MustFromString(longStr)
		b := MustFromString(longStr2)
		aShort := MustFromString(longStr[:PrefixLen])
		bShort := MustFromString(longStr2[:PrefixLen])
		aShorter := MustFromString(longStr[:PrefixLen-2])
		defer a.Release()
		defer b.Release()

		require.True(t, a.HasPrefix(&a))
		require.True(t, b.HasPrefix(&b))
		require.False(t, a.HasPrefix(&b))
		require.False(t, b.HasPrefix(&a))

		require.True(t, a.HasPrefix(&aShort))
		require.True(t, b.HasPrefix(&bShort))
		require.True(t, aShort.HasPrefix(&aShort))
		require.True(t, bShort.HasPrefix(&bShort))
		require.False(t, a.HasPrefix(&bShort))
		require.False(t, b.HasPrefix(&aShort))

		require.True(t, a.HasPrefix(&aShorter))
		require.True(t, aShort.HasPrefix(&aShorter))
		require.True(t, aShorter.HasPrefix(&aShorter))
		require.False(t, aShorter.HasPrefix(&a))
	})

	t.Run("Every Prefix", func(t *testing.T) {
		subject := MustFromString(longStr)
		defer subject.Release()

		for n := 0; n <= len(longStr); n++ {
			p := MustFromString(longStr[:n])
			require.True(t, subject.HasPrefix(&p), "length %d", n)
			require.True(t, subject.HasPrefixString(longStr[:n]), "length %d", n)
			require.True(t, subject.HasPrefixBytes([]byte(longStr[:n])), "length %d", n)
			p.Release()
		}
	})

	t.Run("Same Length Not Prefix", func(t *testing.T) {
		subject := MustFromString(longStr)
		defer subject.Release()

		for _, n := range []int{1, PrefixLen, PrefixLen + 1, len(longStr)} {
			text := longStr[:n-1] + "#"
			p := MustFromString(text)
			require.False(t, subject.HasPrefix(&p), "length %d", n)
			require.False(t, subject.HasPrefixString(text), "length %d", n)
			p.Release()
		}
	})

	t.Run("Longer Candidate", func(t *testing.T) {
		short := MustFromString("abc")
		long := MustFromString("abcd")
		require.False(t, short.HasPrefix(&long))
		require.False(t, short.HasPrefixString("abcd"))
		require.False(t, short.HasPrefixString(longStr))
	})

	t.Run("Empty", func(t *testing.T) {
		var empty Str
		a := MustFromString(longStr)
		defer a.Release()

		require.True(t, empty.IsEmpty())
		require.True(t, empty.HasPrefix(&empty))
		require.True(t, a.HasPrefix(&empty))
		require.True(t, a.HasPrefixString(""))
		require.True(t, a.HasPrefixBytes(nil))
		require.False(t, empty.HasPrefix(&a))
		require.False(t, empty.HasPrefixString("x"))
	})
}

func TestReserve(t *testing.T) {
	t.Run("Grows Long String", func(t *testing.T) {
		a := useTracked(t, 0)
		s := MustFromString(longStr)
		original := MustFromString(longStr)

		require.NoError(t, s.Reserve(16))
		require.GreaterOrEqual(t, s.Cap()-s.Len(), 16)
		require.Equal(t, 16, s.Spare())
		require.Equal(t, longStr, s.String())
		require.True(t, s.Equal(&original))
		require.Len(t, s.suffix, len(longStr)-PrefixLen+16)

		stats := a.Stats()
		require.Equal(t, uint64(3), stats.Allocs)
		require.Equal(t, uint64(1), stats.Frees)

		require.NoError(t, s.Reserve(8))
		require.Equal(t, uint64(3), a.Stats().Allocs)

		require.NoError(t, s.Reserve(32))
		stats = a.Stats()
		require.Equal(t, uint64(4), stats.Allocs)
		require.Equal(t, uint64(2), stats.Frees)
		require.Equal(t, 32, s.Spare())
		require.True(t, s.HasPrefix(&original))

		s.Release()
		original.Release()
		require.Zero(t, a.Stats().LiveBytes)
		require.Zero(t, a.Stats().LiveBufs)
	})

	t.Run("Short String", func(t *testing.T) {
		a := useTracked(t, 0)
		s := MustFromString("abc")
		require.Equal(t, 3, s.Cap())

		require.NoError(t, s.Reserve(5))
		require.Equal(t, 8, s.Cap())
		require.Len(t, s.suffix, 5)
		require.Equal(t, "abc", s.String())
		require.True(t, s.EqualString("abc"))

		require.NoError(t, s.Reserve(9))
		require.Equal(t, 12, s.Cap())
		require.Equal(t, uint64(2), a.Stats().Allocs)
		require.Equal(t, uint64(1), a.Stats().Frees)

		s.Release()
		require.Zero(t, a.Stats().LiveBytes)
	})

	t.Run("Zero Request", func(t *testing.T) {
		a := useTracked(t, 0)
		s := MustFromString("abc")
		require.NoError(t, s.Reserve(0))
		require.Zero(t, a.Stats().Allocs)
	})

	t.Run("Overflow", func(t *testing.T) {
		useTracked(t, 0)
		s := MustFromString(longStr)
		defer s.Release()

		require.ErrorIs(t, s.Reserve(MaxExtraCapacity+1), ErrCapacityOverflow)
		require.ErrorIs(t, s.Reserve(-1), ErrCapacityOverflow)
		require.NoError(t, s.Reserve(MaxExtraCapacity))
		require.Equal(t, MaxExtraCapacity, s.Spare())
	})

	t.Run("Allocation Failure Leaves Value Intact", func(t *testing.T) {
		a := useTracked(t, 120)
		s := MustFromString(longStr)
		require.NoError(t, s.Reserve(4))
		before := a.Stats()

		err := s.Reserve(64)
		require.ErrorIs(t, err, ErrAllocationFailure)
		require.Equal(t, longStr, s.String())
		require.Equal(t, 4, s.Spare())
		require.Len(t, s.suffix, len(longStr)-PrefixLen+4)

		after := a.Stats()
		require.Equal(t, before.LiveBytes, after.LiveBytes)
		require.Equal(t, before.Frees, after.Frees)

		s.Release()
		require.Zero(t, a.Stats().LiveBytes)
	})
}

func TestCloneRelease(t *testing.T) {
	a := useTracked(t, 0)

	s := MustFromString(longStr)
	require.NoError(t, s.Reserve(10))

	c, err := s.Clone()
	require.NoError(t, err)
	require.True(t, c.Equal(&s))
	require.Zero(t, c.Spare())
	require.NotSame(t, &s.suffix[0], &c.suffix[0])

	s.Release()
	require.True(t, s.IsEmpty())
	require.Nil(t, s.suffix)
	require.Equal(t, longStr, c.String())

	s.Release()
	c.Release()
	require.Zero(t, a.Stats().LiveBufs)

	short := MustFromString("abc")
	sc, err := short.Clone()
	require.NoError(t, err)
	require.True(t, sc.Equal(&short))
	require.Nil(t, sc.suffix)

	useTracked(t, 4)
	big := MustFromString("0123456789abc")
	_, err = big.Clone()
	require.ErrorIs(t, err, ErrAllocationFailure)
	big.Release()
}

func TestRender(t *testing.T) {
	useTracked(t, 0)

	t.Run("String", func(t *testing.T) {
		for _, text := range []string{"", "a", "ab", "abc", "0123456789", longStr} {
			s := MustFromString(text)
			require.Equal(t, text, s.String())
			require.Equal(t, text, fmt.Sprint(s))
			require.Equal(t, text, fmt.Sprintf("%s", &s))
			s.Release()
		}
	})

	t.Run("Debug", func(t *testing.T) {
		short := MustFromString("abc")
		require.Equal(t, `"abc" (len=3, cap=3, inline=10, heap=0)`, short.Debug())
		require.Equal(t, short.Debug(), fmt.Sprintf("%#v", short))

		long := MustFromString("hello, world")
		defer long.Release()
		require.Equal(t, `"hello, world" (len=12, cap=12, inline=10, heap=2)`, long.Debug())

		require.NoError(t, long.Reserve(6))
		require.Equal(t, `"hello, world" (len=12, cap=18, inline=10, heap=8)`, long.GoString())
	})

	t.Run("Bytes", func(t *testing.T) {
		s := MustFromString(longStr)
		defer s.Release()

		b := s.Bytes()
		require.Equal(t, []byte(longStr), b)
		b[0] = 'X'
		require.Equal(t, longStr, s.String())

		require.Equal(t, "> "+longStr, string(s.AppendTo([]byte("> "))))
	})
}
