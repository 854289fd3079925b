// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Implements the maps package.

// Package maps provides a bunch of functions to work with maps
// This is originally intended to remove repeated code such as merging
// diagnostic contexts and listing names in a stable order
package maps

import (
	"cmp"
	"maps"
	"slices"
)

// Merge takes two maps a and b and return the merged result.
// If overwrite is true then b will overwrite values in a on conflicting keys
func Merge[K comparable, T any](a, b map[K]T, overwrite bool) map[K]T {
	result := make(map[K]T, len(a)+len(b))
	maps.Copy(result, a)
	for k, v := range b {
		if _, ok := result[k]; ok && !overwrite {
			continue
		}
		result[k] = v
	}
	return result
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, T any](m map[K]T) []K {
	return slices.Sorted(maps.Keys(m))
}
