package utils

import "hash/fnv"

// HashStringToUint64 is a stable FNV-1a hash used wherever output must be
// deterministic for a given input.
func HashStringToUint64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Bucket maps s onto [0, n). n <= 0 yields 0.
func Bucket(s string, n int) int {
	if n <= 0 {
		return 0
	}
	return int(HashStringToUint64(s) % uint64(n))
}
