package faststr

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// String returns the content as a Go string. The bytes are not validated as
// UTF-8; callers that need text guarantees must construct from valid text.
func (s Str) String() string {
	var sb strings.Builder
	sb.Grow(int(s.length))
	sb.Write(s.prefix[:s.inlineLen()])
	sb.Write(s.suffix[:s.suffixLen()])
	return sb.String()
}

// GoString reports the content together with its storage layout, e.g.
//
//	"hello, world" (len=12, cap=12, inline=10, heap=2)
func (s Str) GoString() string {
	return fmt.Sprintf("%q (len=%d, cap=%d, inline=%d, heap=%d)",
		s.String(), s.Len(), s.Cap(), PrefixLen, len(s.suffix))
}

// Debug is GoString for callers holding a pointer.
func (s *Str) Debug() string {
	return s.GoString()
}

// AppendTo appends the content of s to dst.
func (s *Str) AppendTo(dst []byte) []byte {
	dst = append(dst, s.prefix[:s.inlineLen()]...)
	return append(dst, s.suffix[:s.suffixLen()]...)
}

// Bytes returns a fresh copy of the content.
func (s *Str) Bytes() []byte {
	return s.AppendTo(make([]byte, 0, s.Len()))
}

func (s Str) MarshalText() ([]byte, error) {
	return s.Bytes(), nil
}

// UnmarshalText replaces the content of s, releasing the previous buffer.
func (s *Str) UnmarshalText(text []byte) error {
	built, err := New(text)
	if err != nil {
		return err
	}
	s.Release()
	*s = built
	return nil
}

func (s Str) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a JSON string into s, releasing the previous buffer.
func (s *Str) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	built, err := FromString(text)
	if err != nil {
		return err
	}
	s.Release()
	*s = built
	return nil
}
