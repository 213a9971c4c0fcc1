// Package record implements the Read data model and interval algebra:
// named byte strings carrying labeled, attributed sub-intervals that
// stay consistent under cuts, sets, intersections and unions.
package record

import (
	"github.com/shenwei356/antiseq/ikey"
)

// Kind distinguishes the semantic channel of a named string: a
// sequence payload or a record name/header.
type Kind uint8

const (
	KindSeq Kind = iota
	KindName
)

func (k Kind) String() string {
	if k == KindName {
		return "name"
	}
	return "seq"
}

// StrType identifies one named string slot on a Read: a sequence or
// name channel for a given mate index (0 is the primary read, 1..N
// are additional mates for paired/multi-mate input).
type StrType struct {
	Kind Kind
	Mate int
}

// Seq returns the StrType for the sequence channel of mate m.
func Seq(m int) StrType { return StrType{Kind: KindSeq, Mate: m} }

// Name returns the StrType for the name channel of mate m.
func Name(m int) StrType { return StrType{Kind: KindName, Mate: m} }

func (t StrType) String() string {
	if t.Mate == 0 {
		return t.Kind.String() + "1"
	}
	return t.Kind.String() + itoa(t.Mate+1)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// WildcardLabel is the always-present label spanning an entire string.
var WildcardLabel = ikey.MustNew("*")

// AttrKind tags the dynamic type carried by an AttrValue.
type AttrKind uint8

const (
	AttrBool AttrKind = iota
	AttrInt
	AttrFloat
	AttrBytes
)

// AttrValue is a typed datum attached to a Mapping.
type AttrValue struct {
	Kind  AttrKind
	B     bool
	I     int64
	F     float64
	Bytes []byte
}

func BoolAttr(b bool) AttrValue         { return AttrValue{Kind: AttrBool, B: b} }
func IntAttr(i int64) AttrValue         { return AttrValue{Kind: AttrInt, I: i} }
func FloatAttr(f float64) AttrValue     { return AttrValue{Kind: AttrFloat, F: f} }
func BytesAttr(b []byte) AttrValue      { return AttrValue{Kind: AttrBytes, Bytes: b} }

// Mapping is a half-open interval [Start, Start+Len) into a parent
// string, tagged with a label and arbitrary attributes.
type Mapping struct {
	Label ikey.Name
	Start int
	Len   int
	Attrs map[ikey.Name]AttrValue
}

// End returns the exclusive end offset of the mapping.
func (m Mapping) End() int { return m.Start + m.Len }

func (m *Mapping) attr(name ikey.Name) (AttrValue, bool) {
	if m.Attrs == nil {
		return AttrValue{}, false
	}
	v, ok := m.Attrs[name]
	return v, ok
}

func (m *Mapping) setAttr(name ikey.Name, v AttrValue) {
	if m.Attrs == nil {
		m.Attrs = make(map[ikey.Name]AttrValue, 1)
	}
	m.Attrs[name] = v
}

func (m Mapping) clone() Mapping {
	c := m
	if m.Attrs != nil {
		c.Attrs = make(map[ikey.Name]AttrValue, len(m.Attrs))
		for k, v := range m.Attrs {
			if v.Kind == AttrBytes && v.Bytes != nil {
				b := make([]byte, len(v.Bytes))
				copy(b, v.Bytes)
				v.Bytes = b
			}
			c.Attrs[k] = v
		}
	}
	return c
}

// StrMappings holds one named string (and optional parallel quality),
// its origin, and the ordered set of labeled intervals over it.
type StrMappings struct {
	Bytes    []byte
	Qual     []byte // nil when absent
	Origin   string
	Index    int
	Mappings []Mapping
}

// NewStrMappings builds a StrMappings whose `*` mapping spans the
// whole string, per the invariant in the data model.
func NewStrMappings(b, qual []byte, origin string, index int) *StrMappings {
	return &StrMappings{
		Bytes:  b,
		Qual:   qual,
		Origin: origin,
		Index:  index,
		Mappings: []Mapping{
			{Label: WildcardLabel, Start: 0, Len: len(b)},
		},
	}
}

func (sm *StrMappings) find(label ikey.Name) (int, bool) {
	for i := range sm.Mappings {
		if sm.Mappings[i].Label.Equal(label) {
			return i, true
		}
	}
	return -1, false
}

func (sm *StrMappings) clone() *StrMappings {
	c := &StrMappings{
		Origin: sm.Origin,
		Index:  sm.Index,
	}
	c.Bytes = append([]byte(nil), sm.Bytes...)
	if sm.Qual != nil {
		c.Qual = append([]byte(nil), sm.Qual...)
	}
	c.Mappings = make([]Mapping, len(sm.Mappings))
	for i, m := range sm.Mappings {
		c.Mappings[i] = m.clone()
	}
	return c
}
