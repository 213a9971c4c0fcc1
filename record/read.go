package record

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/shenwei356/antiseq/ikey"
)

// unknownQual is the sentinel quality byte used when a quality value
// must be synthesized (missing quality string, padded region).
const unknownQual = 'I'

// Read is a mapping from string-type tag to StrMappings, owned
// exclusively by whichever worker is currently executing an op on it.
type Read struct {
	Strs map[StrType]*StrMappings
}

// NewRead builds an empty Read.
func NewRead() *Read {
	return &Read{Strs: make(map[StrType]*StrMappings)}
}

// Set installs a StrMappings for the given channel, replacing any
// previous value.
func (r *Read) SetStr(t StrType, sm *StrMappings) {
	r.Strs[t] = sm
}

// Has reports whether channel t is present on the read.
func (r *Read) Has(t StrType) bool {
	_, ok := r.Strs[t]
	return ok
}

func (r *Read) strMappings(t StrType) (*StrMappings, error) {
	sm, ok := r.Strs[t]
	if !ok {
		return nil, notInRead(t, "<str>")
	}
	return sm, nil
}

// Clone deep-copies the Read. Fork clones by value; there is no
// cross-read aliasing after Clone returns.
func (r *Read) Clone() *Read {
	c := NewRead()
	for t, sm := range r.Strs {
		c.Strs[t] = sm.clone()
	}
	return c
}

// Substring borrows the byte slice for the given label on channel t.
func (r *Read) Substring(t StrType, label ikey.Name) ([]byte, error) {
	sm, err := r.strMappings(t)
	if err != nil {
		return nil, err
	}
	i, ok := sm.find(label)
	if !ok {
		return nil, notInRead(t, label.String())
	}
	m := sm.Mappings[i]
	return sm.Bytes[m.Start:m.End()], nil
}

// SubstringQual borrows the parallel quality slice for label, if any
// quality string is present on the channel.
func (r *Read) SubstringQual(t StrType, label ikey.Name) ([]byte, bool, error) {
	sm, err := r.strMappings(t)
	if err != nil {
		return nil, false, err
	}
	if sm.Qual == nil {
		return nil, false, nil
	}
	i, ok := sm.find(label)
	if !ok {
		return nil, false, notInRead(t, label.String())
	}
	m := sm.Mappings[i]
	return sm.Qual[m.Start:m.End()], true, nil
}

// Mapping looks up a copy of the named Mapping.
func (r *Read) Mapping(t StrType, label ikey.Name) (Mapping, error) {
	sm, err := r.strMappings(t)
	if err != nil {
		return Mapping{}, err
	}
	i, ok := sm.find(label)
	if !ok {
		return Mapping{}, notInRead(t, label.String())
	}
	return sm.Mappings[i], nil
}

// MappingMut returns a pointer to the named Mapping for in-place
// attribute mutation. Mutating it invalidates no other mapping.
func (r *Read) MappingMut(t StrType, label ikey.Name) (*Mapping, error) {
	sm, err := r.strMappings(t)
	if err != nil {
		return nil, err
	}
	i, ok := sm.find(label)
	if !ok {
		return nil, notInRead(t, label.String())
	}
	return &sm.Mappings[i], nil
}

func (sm *StrMappings) appendMapping(label ikey.Name, start, length int) {
	if i, ok := sm.find(label); ok {
		sm.Mappings[i].Start = start
		sm.Mappings[i].Len = length
		sm.Mappings[i].Attrs = nil
		return
	}
	sm.Mappings = append(sm.Mappings, Mapping{Label: label, Start: start, Len: length})
}

// Cut splits src at idx (signed; negative counts from the right,
// clamped into [0,len] with an OutOfBounds error if invalid). src
// itself persists unchanged; the new left/right mappings are appended
// when their names are non-empty.
func (r *Read) Cut(t StrType, src, newLeft, newRight ikey.Name, idx int) error {
	sm, err := r.strMappings(t)
	if err != nil {
		return err
	}
	i, ok := sm.find(src)
	if !ok {
		return notInRead(t, src.String())
	}
	m := sm.Mappings[i]
	eff := idx
	if eff < 0 {
		eff = m.Len + eff
	}
	if eff < 0 || eff > m.Len {
		return outOfBounds(idx, m.Len)
	}
	if !newLeft.IsEmpty() {
		sm.appendMapping(newLeft, m.Start, eff)
	}
	if !newRight.IsEmpty() {
		sm.appendMapping(newRight, m.Start+eff, m.Len-eff)
	}
	return nil
}

// Intersect appends the overlap of a and b as `new`, if any.
func (r *Read) Intersect(t StrType, a, b, newLabel ikey.Name) error {
	sm, err := r.strMappings(t)
	if err != nil {
		return err
	}
	ia, ok := sm.find(a)
	if !ok {
		return notInRead(t, a.String())
	}
	ib, ok := sm.find(b)
	if !ok {
		return notInRead(t, b.String())
	}
	ma, mb := sm.Mappings[ia], sm.Mappings[ib]
	s := max(ma.Start, mb.Start)
	e := min(ma.End(), mb.End())
	if s >= e {
		return nil
	}
	sm.appendMapping(newLabel, s, e-s)
	return nil
}

// Union appends the convex hull of a and b as `new`.
func (r *Read) Union(t StrType, a, b, newLabel ikey.Name) error {
	sm, err := r.strMappings(t)
	if err != nil {
		return err
	}
	ia, ok := sm.find(a)
	if !ok {
		return notInRead(t, a.String())
	}
	ib, ok := sm.find(b)
	if !ok {
		return notInRead(t, b.String())
	}
	ma, mb := sm.Mappings[ia], sm.Mappings[ib]
	s := min(ma.Start, mb.Start)
	e := max(ma.End(), mb.End())
	sm.appendMapping(newLabel, s, e-s)
	return nil
}

// rebalance applies the spec's delta-propagation rule: purely-before
// mappings unchanged, purely-after shift by delta, mappings containing
// [p,p+oldLen) extend by delta, other overlaps clamp to their
// surviving prefix or suffix. A mapping wholly inside the modified
// region (and not equal to it) has no surviving bytes on either side
// to clamp to; that case is not one of the documented four and is
// reported as ErrOutOfBounds rather than silently zero-lengthed.
func rebalance(sm *StrMappings, p, oldLen, delta int) error {
	newLen := oldLen + delta
	regionEnd := p + oldLen
	for i := range sm.Mappings {
		m := &sm.Mappings[i]
		s, e := m.Start, m.End()
		switch {
		case e <= p:
			// purely before: unchanged
		case s >= regionEnd:
			m.Start += delta
		case s <= p && e >= regionEnd:
			// contains the region (or exactly equals it)
			m.Len += delta
		case s >= p && e <= regionEnd:
			// wholly inside the replaced region: no surviving prefix or
			// suffix to clamp to
			return errors.Wrapf(ErrOutOfBounds, "mapping %s[%d,%d) wholly inside modified region [%d,%d)", m.Label, s, e, p, regionEnd)
		case s < p && e > p && e < regionEnd:
			// overlaps the start of the region: clamp to prefix
			m.Len = p - s
		default:
			// s > p && s < regionEnd && e >= regionEnd: clamp to suffix
			suffixLen := e - regionEnd
			m.Start = p + newLen
			m.Len = suffixLen
		}
	}
	return nil
}

// Set replaces the byte range spanned by label with newBytes and
// rebalances every interval by delta = len(newBytes)-len(old). When
// quality is present, newQual is spliced in identically or the
// unknown-quality sentinel is synthesized for the new region.
func (r *Read) Set(t StrType, label ikey.Name, newBytes, newQual []byte) error {
	sm, err := r.strMappings(t)
	if err != nil {
		return err
	}
	i, ok := sm.find(label)
	if !ok {
		return notInRead(t, label.String())
	}
	m := sm.Mappings[i]
	p, oldLen := m.Start, m.Len
	delta := len(newBytes) - oldLen

	buf := make([]byte, 0, len(sm.Bytes)+delta)
	buf = append(buf, sm.Bytes[:p]...)
	buf = append(buf, newBytes...)
	buf = append(buf, sm.Bytes[p+oldLen:]...)
	sm.Bytes = buf

	if sm.Qual != nil {
		q := newQual
		if q == nil {
			q = bytes.Repeat([]byte{unknownQual}, len(newBytes))
		}
		qbuf := make([]byte, 0, len(sm.Qual)+delta)
		qbuf = append(qbuf, sm.Qual[:p]...)
		qbuf = append(qbuf, q...)
		qbuf = append(qbuf, sm.Qual[p+oldLen:]...)
		sm.Qual = qbuf
	}

	return rebalance(sm, p, oldLen, delta)
}

// Trim logically removes the byte regions covered by labels and
// rebalances remaining intervals. Overlapping ranges among the given
// labels are coalesced before deletion; order of removal is
// right-to-left on start offset so earlier offsets stay valid.
func (r *Read) Trim(t StrType, labels []ikey.Name) error {
	sm, err := r.strMappings(t)
	if err != nil {
		return err
	}
	type span struct{ s, e int }
	spans := make([]span, 0, len(labels))
	trimSet := make(map[ikey.Name]bool, len(labels))
	for _, label := range labels {
		i, ok := sm.find(label)
		if !ok {
			return notInRead(t, label.String())
		}
		m := sm.Mappings[i]
		spans = append(spans, span{m.Start, m.End()})
		trimSet[label] = true
	}
	// sort ascending by start (small N, insertion sort keeps this dependency-free)
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j-1].s > spans[j].s; j-- {
			spans[j-1], spans[j] = spans[j], spans[j-1]
		}
	}
	// coalesce overlapping/adjacent spans
	merged := spans[:0]
	for _, sp := range spans {
		if len(merged) > 0 && sp.s <= merged[len(merged)-1].e {
			if sp.e > merged[len(merged)-1].e {
				merged[len(merged)-1].e = sp.e
			}
			continue
		}
		merged = append(merged, sp)
	}
	// drop the trimmed mappings themselves before rebalancing survivors:
	// a trimmed label's own span is, by construction, wholly inside (or
	// equal to) the region being deleted, which rebalance would
	// otherwise reject as the undocumented fifth case.
	kept := sm.Mappings[:0]
	for _, m := range sm.Mappings {
		if trimSet[m.Label] {
			continue
		}
		kept = append(kept, m)
	}
	sm.Mappings = kept

	// delete right-to-left so earlier offsets remain valid
	for i := len(merged) - 1; i >= 0; i-- {
		sp := merged[i]
		sm.Bytes = append(sm.Bytes[:sp.s], sm.Bytes[sp.e:]...)
		if sm.Qual != nil {
			sm.Qual = append(sm.Qual[:sp.s], sm.Qual[sp.e:]...)
		}
		if err := rebalance(sm, sp.s, sp.e-sp.s, -(sp.e - sp.s)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveInternal drops all mappings whose label begins with `_`.
func (r *Read) RemoveInternal() {
	for _, sm := range r.Strs {
		kept := sm.Mappings[:0]
		for _, m := range sm.Mappings {
			b := m.Label.Bytes()
			if len(b) > 0 && b[0] == '_' {
				continue
			}
			kept = append(kept, m)
		}
		sm.Mappings = kept
	}
}

func hamming(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			d++
		}
	}
	d += len(a) - n
	if len(b) > n {
		d += len(b) - n
	}
	return d
}

// Filter looks the label's substring up in allowlist within Hamming
// distance maxMismatch, and records the match (or false) onto attr.
func (r *Read) Filter(t StrType, label, attr ikey.Name, allowlist []string, maxMismatch int) error {
	s, err := r.Substring(t, label)
	if err != nil {
		return err
	}
	mm, err := r.MappingMut(t, label)
	if err != nil {
		return err
	}
	for _, cand := range allowlist {
		cb := []byte(cand)
		if len(cb) != len(s) {
			continue
		}
		if hamming(s, cb) <= maxMismatch {
			mm.setAttr(attr, BytesAttr(cb))
			return nil
		}
	}
	mm.setAttr(attr, BoolAttr(false))
	return nil
}

// Map is Filter's associative-value counterpart: it matches against
// the keys of kv and records the mapped value (or false).
func (r *Read) Map(t StrType, label, attr ikey.Name, kv map[string]string, maxMismatch int) error {
	s, err := r.Substring(t, label)
	if err != nil {
		return err
	}
	mm, err := r.MappingMut(t, label)
	if err != nil {
		return err
	}
	for key, val := range kv {
		kb := []byte(key)
		if len(kb) != len(s) {
			continue
		}
		if hamming(s, kb) <= maxMismatch {
			mm.setAttr(attr, BytesAttr([]byte(val)))
			return nil
		}
	}
	mm.setAttr(attr, BoolAttr(false))
	return nil
}

// ToFastq returns the (name, bytes, qual) triple for mate mateIndex,
// synthesizing a uniform quality string when none is present.
func (r *Read) ToFastq(mateIndex int) (name, seq, qual []byte, err error) {
	nsm, err := r.strMappings(Name(mateIndex))
	if err != nil {
		return nil, nil, nil, err
	}
	ssm, err := r.strMappings(Seq(mateIndex))
	if err != nil {
		return nil, nil, nil, err
	}
	name = append([]byte(nil), nsm.Bytes...)
	seq = append([]byte(nil), ssm.Bytes...)
	if ssm.Qual != nil {
		qual = append([]byte(nil), ssm.Qual...)
	} else {
		qual = bytes.Repeat([]byte{unknownQual}, len(seq))
	}
	return name, seq, qual, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
