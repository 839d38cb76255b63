// Package ipcalc converts registry inetnum ranges ("start - end") into
// minimal sets of CIDR blocks.
package ipcalc

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"net/netip"
	"strings"
)

// InvalidRangeError means a value that looked like an IP range could
// not be converted. Conversion failures are per-value and never fatal
// to a run.
type InvalidRangeError struct {
	Range  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid IP range %q: %s", e.Range, e.Reason)
}

// RangeToCIDRs converts a "start - end" range into the minimal set of
// CIDR blocks that exactly covers it: repeatedly the largest
// power-of-two-aligned block starting at the current position that
// still fits in the remainder. Blocks come out in ascending address
// order. A single-address range yields one /32 (or /128) block.
func RangeToCIDRs(rangeText string) ([]netip.Prefix, error) {
	startStr, endStr, ok := splitRange(rangeText)
	if !ok {
		return nil, &InvalidRangeError{Range: rangeText, Reason: "not a start - end range"}
	}
	start, err := netip.ParseAddr(startStr)
	if err != nil {
		return nil, &InvalidRangeError{Range: rangeText, Reason: "start is not an IP address"}
	}
	end, err := netip.ParseAddr(endStr)
	if err != nil {
		return nil, &InvalidRangeError{Range: rangeText, Reason: "end is not an IP address"}
	}
	if start.Is4() != end.Is4() {
		return nil, &InvalidRangeError{Range: rangeText, Reason: "mixed address families"}
	}
	if end.Less(start) {
		return nil, &InvalidRangeError{Range: rangeText, Reason: "start exceeds end"}
	}
	if start.Is4() {
		return coverV4(start, end), nil
	}
	return coverV6(start, end), nil
}

// ConvertValue rewrites one projected field value into its CIDR cover,
// blocks joined by sep. Values that do not look like an IP range at
// all pass through unchanged with no error; values that start like a
// range but fail to convert pass through with the error so the caller
// can log it.
func ConvertValue(value, sep string) (string, error) {
	startStr, _, ok := splitRange(value)
	if !ok {
		return value, nil
	}
	if _, err := netip.ParseAddr(startStr); err != nil {
		return value, nil
	}
	prefixes, err := RangeToCIDRs(value)
	if err != nil {
		return value, err
	}
	parts := make([]string, len(prefixes))
	for i, p := range prefixes {
		parts[i] = p.String()
	}
	return strings.Join(parts, sep), nil
}

func splitRange(s string) (string, string, bool) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return "", "", false
	}
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if start == "" || end == "" {
		return "", "", false
	}
	return start, end, true
}

func coverV4(start, end netip.Addr) []netip.Prefix {
	sb, eb := start.As4(), end.As4()
	s := binary.BigEndian.Uint32(sb[:])
	e := binary.BigEndian.Uint32(eb[:])

	var out []netip.Prefix
	for {
		// Largest block aligned at s, capped by what still fits
		// before e.
		n := uint(bits.TrailingZeros32(s))
		span := uint64(e) - uint64(s) + 1
		if fit := uint(bits.Len64(span)) - 1; fit < n {
			n = fit
		}

		var addr [4]byte
		binary.BigEndian.PutUint32(addr[:], s)
		out = append(out, netip.PrefixFrom(netip.AddrFrom4(addr), 32-int(n)))

		next := uint64(s) + 1<<n
		if next > uint64(e) {
			return out
		}
		s = uint32(next)
	}
}

func coverV6(start, end netip.Addr) []netip.Prefix {
	s := u128From16(start.As16())
	e := u128From16(end.As16())

	var out []netip.Prefix
	for {
		span, overflow := e.sub(s).inc()
		if overflow {
			// Only possible for ::/0 .. ffff:...:ffff.
			return []netip.Prefix{netip.PrefixFrom(netip.IPv6Unspecified(), 0)}
		}
		n := s.trailingZeros()
		if fit := span.bitLen() - 1; fit < n {
			n = fit
		}

		out = append(out, netip.PrefixFrom(netip.AddrFrom16(s.as16()), 128-n))

		next, carry := s.addPow2(n)
		if carry || e.less(next) {
			return out
		}
		s = next
	}
}

// uint128 is a 128-bit unsigned integer in two big-endian words, just
// enough arithmetic for the IPv6 block walk.
type uint128 struct {
	hi, lo uint64
}

func u128From16(b [16]byte) uint128 {
	return uint128{
		hi: binary.BigEndian.Uint64(b[:8]),
		lo: binary.BigEndian.Uint64(b[8:]),
	}
}

func (u uint128) as16() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], u.hi)
	binary.BigEndian.PutUint64(b[8:], u.lo)
	return b
}

func (u uint128) less(v uint128) bool {
	if u.hi != v.hi {
		return u.hi < v.hi
	}
	return u.lo < v.lo
}

func (u uint128) sub(v uint128) uint128 {
	lo, borrow := bits.Sub64(u.lo, v.lo, 0)
	hi, _ := bits.Sub64(u.hi, v.hi, borrow)
	return uint128{hi: hi, lo: lo}
}

// inc adds one, reporting wraparound.
func (u uint128) inc() (uint128, bool) {
	lo, carry := bits.Add64(u.lo, 1, 0)
	hi, carry := bits.Add64(u.hi, 0, carry)
	return uint128{hi: hi, lo: lo}, carry != 0
}

// addPow2 adds 2^n, reporting wraparound.
func (u uint128) addPow2(n int) (uint128, bool) {
	var v uint128
	if n < 64 {
		v.lo = 1 << n
	} else {
		v.hi = 1 << (n - 64)
	}
	lo, carry := bits.Add64(u.lo, v.lo, 0)
	hi, carry := bits.Add64(u.hi, v.hi, carry)
	return uint128{hi: hi, lo: lo}, carry != 0
}

func (u uint128) trailingZeros() int {
	if u.lo != 0 {
		return bits.TrailingZeros64(u.lo)
	}
	if u.hi != 0 {
		return 64 + bits.TrailingZeros64(u.hi)
	}
	return 128
}

func (u uint128) bitLen() int {
	if u.hi != 0 {
		return 64 + bits.Len64(u.hi)
	}
	return bits.Len64(u.lo)
}
