package bddpred

import "fmt"

// NumAddrBits and NumSlashBits are the two 32-wide variable families
// §4.B fixes: p0..p31 (address bits, msb = p0) and s0..s31 (one-hot
// slash-length bits).
const (
	NumAddrBits  = 32
	NumSlashBits = 32
)

func addrVar(i int) string  { return fmt.Sprintf("p%d", i) }
func slashVar(i int) string { return fmt.Sprintf("s%d", i) }

// CommunityVar names the BDD variable for a named community (§4.B:
// "community variables c<name>").
func CommunityVar(name string) string { return "c" + name }

// addrBits packs addr's 32 bits into a BitSet, msb first (bit 0 is the
// network's most significant bit), the same indexing get_binary_string in
// the teacher's ip_addresses.go produces by formatting each octet as %08b
// and slicing the resulting string left-to-right. Every fixedLengthPredicate
// call tests against this BitSet rather than shifting addr directly.
func addrBits(addr uint32) BitSet {
	var bits BitSet
	for i := 0; i < 32; i++ {
		if (addr>>uint(31-i))&1 == 1 {
			bits.Set(uint(i))
		}
	}
	return bits
}

// oneHot builds the BitSet with exactly bit k set, the one-hot vector
// slashOneHot asserts over the s-family variables.
func oneHot(k int) BitSet {
	var bits BitSet
	bits.Set(uint(k))
	return bits
}

// Prefix is a single CIDR-style a.b.c.d/k predicate, k in [0,32].
type Prefix struct {
	Addr uint32
	Len  int
}

// fixedLengthPredicate builds the conjunction of the address-bit
// constraints for the first k bits (free beyond k) AND'd with the
// one-hot assertion that the slash length is exactly k.
func fixedLengthPredicate(e *Engine, addr uint32, k int) Index {
	bits := addrBits(addr)
	pred := True
	for i := 0; i < k; i++ {
		v := e.Var(addrVar(i))
		if !bits.Test(uint(i)) {
			v = e.Not(v)
		}
		pred = e.And(pred, v)
	}
	return e.And(pred, slashOneHot(e, k))
}

// slashOneHot builds the predicate "the slash-length variable block
// encodes exactly k", asserting s_k and negating every other s_i — the
// literal reading of "one-hot encoded" in §4.B, tested bit by bit against
// oneHot(k) instead of comparing the loop index to k directly.
func slashOneHot(e *Engine, k int) Index {
	one := oneHot(k)
	pred := True
	for i := 0; i < NumSlashBits; i++ {
		v := e.Var(slashVar(i))
		if !one.Test(uint(i)) {
			v = e.Not(v)
		}
		pred = e.And(pred, v)
	}
	return pred
}

// FromPrefix builds the predicate for a single exact prefix, with no
// range: "for i < k, bit pᵢ is constrained to the i-th bit of the
// address; for i ≥ k, bit is free" (§4.B).
func FromPrefix(e *Engine, p Prefix) Index {
	return fixedLengthPredicate(e, p.Addr, p.Len)
}

// FromRange builds the predicate for a ranged slash /lo..hi: "disjoins
// intBits(j) for j in [lo..hi], where intBits(j) constrains the
// slash-bit block to the binary of j" (§4.B) — here intBits(j) is
// slashOneHot(j) combined with the address bits fixed up to length j,
// since the one-hot convention already declared for the s-family makes
// "binary of j" and "one-hot of j" the same representation.
func FromRange(e *Engine, addr uint32, lo, hi int) Index {
	pred := False
	for j := lo; j <= hi; j++ {
		pred = e.Or(pred, fixedLengthPredicate(e, addr, j))
	}
	return pred
}

// ToPrefixes decodes a predicate's satisfying assignments back into a
// minimal list of Prefix ranges. Each BDD cube that pins every address
// bit up to some length k and pins the slash-length block to k becomes
// one concrete prefix; cubes that leave slash bits unconstrained are
// expanded over every k consistent with the pinned address bits.
func ToPrefixes(e *Engine, f Index) []Prefix {
	var out []Prefix
	for _, cube := range e.IterPath(f) {
		lengths := slashLengthsOf(cube)
		for _, k := range lengths {
			addr, ok := addrOf(cube, k)
			if !ok {
				continue
			}
			out = append(out, Prefix{Addr: addr, Len: k})
		}
	}
	return dedupePrefixes(out)
}

// slashLengthsOf returns every slash length consistent with a cube's
// s-variable assignments: the one pinned-true s_k if any is fixed, or
// every length whose s_k isn't pinned false, otherwise.
func slashLengthsOf(cube Assignment) []int {
	for i := 0; i < NumSlashBits; i++ {
		if v, ok := cube[slashVar(i)]; ok && v {
			return []int{i}
		}
	}
	var out []int
	for i := 0; i < NumSlashBits; i++ {
		if v, ok := cube[slashVar(i)]; !ok || v {
			out = append(out, i)
		}
	}
	return out
}

// addrOf reconstructs the address implied by a cube for a given slash
// length: bits pinned in the cube are used as-is, unpinned bits
// (don't-cares) default to 0 so the returned Prefix is the canonical
// network address of the range the cube describes.
func addrOf(cube Assignment, k int) (uint32, bool) {
	var addr uint32
	for i := 0; i < k; i++ {
		v, ok := cube[addrVar(i)]
		if ok && v {
			addr |= 1 << uint(31-i)
		}
		_ = ok
	}
	return addr, true
}

func dedupePrefixes(in []Prefix) []Prefix {
	seen := make(map[Prefix]struct{}, len(in))
	var out []Prefix
	for _, p := range in {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
