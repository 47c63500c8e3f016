package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"one": 1}
	b := map[string]int{"two": 2, "three": 3}

	all := maps.Collect(IterSeq2Concat(maps.All(a), maps.All(b)))
	assert.Equal(map[string]int{"one": 1, "two": 2, "three": 3}, all)

	var count int
	for range IterSeq2Concat(maps.All(a), maps.All(b)) {
		count++
		break
	}
	assert.Equal(1, count)
}

func TestIterSeq2Sorted(t *testing.T) {
	assert := assert.New(t)

	a := map[string]int{"b": 1, "a": 2}
	b := map[string]int{"c": 3, "a": 4}

	var keys []string
	var values []int
	for key, value := range IterSeq2Sorted(IterSeq2Concat(maps.All(a), maps.All(b))) {
		keys = append(keys, key)
		values = append(values, value)
	}
	assert.Equal([]string{"a", "b", "c"}, keys)
	assert.Equal([]int{4, 1, 3}, values)

	assert.True(slices.IsSorted(keys))
}
