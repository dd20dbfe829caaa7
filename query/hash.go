package query

import (
	"encoding/binary"
	"strconv"

	"github.com/dchest/siphash"
)

// hashK0/hashK1 are fixed siphash keys for the lifetime of a process —
// identical in spirit to plan/input.go's HashSplit constants in the
// teacher, which likewise hash a serialized byte buffer with a fixed
// k0/k1 pair.
const (
	hashK0 = 0x6d696e6465786572
	hashK1 = 0x6d696e646578657a
)

// Key returns a stable, structural cache key for q, suitable for use
// as an EstimateCache map key (§3, §9: "hashing and equality of Query
// must be structural and stable across runs"). Two Query values built
// from equivalent filter/sort/limit/projection data always produce
// the same Key, regardless of how they were constructed.
func (q Query) Key() string {
	buf := q.canonicalBytes()
	lo, hi := siphash.Hash128(hashK0, hashK1, buf)
	var out [16]byte
	binary.LittleEndian.PutUint64(out[:8], lo)
	binary.LittleEndian.PutUint64(out[8:], hi)
	return string(out[:])
}

// Equals reports structural equality: same filter fields in the same
// order with equal predicates, same sort, limit, and projection.
func (q Query) Equals(o Query) bool {
	if len(q.filter) != len(o.filter) || q.limit != o.limit || len(q.sort) != len(o.sort) {
		return false
	}
	for i := range q.filter {
		if q.filter[i].Field != o.filter[i].Field || !q.filter[i].Pred.Equals(o.filter[i].Pred) {
			return false
		}
	}
	for i := range q.sort {
		if q.sort[i] != o.sort[i] {
			return false
		}
	}
	if len(q.projection) != len(o.projection) {
		return false
	}
	for f := range q.projection {
		if _, ok := o.projection[f]; !ok {
			return false
		}
	}
	return true
}

// canonicalBytes serializes q into a deterministic byte sequence for
// hashing. Field order within the filter is preserved (it is part of
// Fields()); sort order is preserved; projection fields are sorted
// since projection is declared a set in §3.
func (q Query) canonicalBytes() []byte {
	var buf []byte
	for _, e := range q.filter {
		buf = append(buf, 'F')
		buf = append(buf, e.Field...)
		buf = append(buf, 0)
		buf = appendPredicate(buf, e.Pred)
	}
	buf = append(buf, 'S')
	for _, f := range q.sort {
		buf = append(buf, f...)
		buf = append(buf, 0)
	}
	buf = append(buf, 'L')
	buf = strconv.AppendInt(buf, int64(q.limit), 10)
	buf = append(buf, 'P')
	for _, f := range sortedKeys(q.projection) {
		buf = append(buf, f...)
		buf = append(buf, 0)
	}
	return buf
}

func appendPredicate(buf []byte, p Predicate) []byte {
	switch v := p.(type) {
	case Equality:
		buf = append(buf, 'E')
		return appendValue(buf, v.Value)
	case In:
		buf = append(buf, 'I')
		buf = strconv.AppendInt(buf, int64(len(v.Values)), 10)
		for _, val := range v.Values {
			buf = appendValue(buf, val)
		}
		return buf
	case Range:
		buf = append(buf, 'R')
		buf = appendOptValue(buf, v.Lo)
		buf = appendBool(buf, v.LoIncl)
		buf = appendOptValue(buf, v.Hi)
		buf = appendBool(buf, v.HiIncl)
		return buf
	case Conjunction:
		buf = append(buf, 'C')
		buf = strconv.AppendInt(buf, int64(len(v.Preds)), 10)
		for _, sub := range v.Preds {
			buf = appendPredicate(buf, sub)
		}
		return buf
	case exists:
		return append(buf, 'X')
	default:
		panic("query: unreachable predicate kind")
	}
}

func appendOptValue(buf []byte, v *Value) []byte {
	if v == nil {
		return append(buf, '0')
	}
	buf = append(buf, '1')
	return appendValue(buf, *v)
}

func appendBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, '1')
	}
	return append(buf, '0')
}

func appendValue(buf []byte, v Value) []byte {
	buf = append(buf, byte(v.Kind))
	switch v.Kind {
	case KindBool:
		return appendBool(buf, v.Bool)
	case KindNumber:
		return strconv.AppendFloat(buf, v.Num, 'g', -1, 64)
	case KindString:
		buf = append(buf, v.Str...)
		return append(buf, 0)
	case KindTime:
		return strconv.AppendInt(buf, v.Time.UnixNano(), 10)
	default:
		panic("query: unreachable value kind")
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	// simple insertion sort; projection sets are small (a handful of
	// fields), so this avoids pulling in sort for one tiny loop.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
