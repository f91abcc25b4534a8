// Package random contains randomization utilities for tests.
package random

import (
	"math/rand"
	"time"
)

var src = rand.New(rand.NewSource(time.Now().UnixNano()))

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// String returns a random string of the given length.
func String(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[src.Intn(len(alphabet))]
	}
	return string(b)
}

// Strings returns n distinct random strings.
func Strings(n int) []string {
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		s := String(8 + src.Intn(8))
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Int returns a random integer in [lo, hi).
func Int(lo, hi int) int {
	return lo + src.Intn(hi-lo)
}
