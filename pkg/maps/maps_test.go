// Copyright 2026 Outreach Corporation. All Rights Reserved.

// Description: Tests for the maps package.

package maps

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestMergeNoOverwrite(t *testing.T) {
	a := map[string]string{
		"project": "plant",
		"client":  "a1b2c3",
	}
	b := map[string]string{
		"client": "ffffff",
		"module": "ils",
	}
	r := Merge(a, b, false)
	assert.Equal(t, "plant", r["project"])
	assert.Equal(t, "a1b2c3", r["client"])
	assert.Equal(t, "ils", r["module"])
}

func TestMergeWithOverwrite(t *testing.T) {
	a := map[string]bool{
		"a": true,
		"b": false,
	}
	b := map[string]bool{
		"b": true,
		"c": false,
	}
	r := Merge(a, b, true)
	assert.Equal(t, true, r["a"])
	assert.Equal(t, true, r["b"])
	assert.Equal(t, false, r["c"])
}

func TestMergeNil(t *testing.T) {
	r := Merge[string, string](nil, map[string]string{"k": "v"}, true)
	assert.DeepEqual(t, r, map[string]string{"k": "v"})
}

func TestSortedKeys(t *testing.T) {
	assert.DeepEqual(t, SortedKeys(map[string]int{"worker-2": 2, "main": 0, "worker-1": 1}),
		[]string{"main", "worker-1", "worker-2"})
	assert.Equal(t, len(SortedKeys(map[string]int(nil))), 0)
}
