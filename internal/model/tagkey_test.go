package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTagKey_Variants tests the two constructors and their accessors.
func TestTagKey_Variants(t *testing.T) {
	tag := TagID("coffee")
	assert.False(t, tag.IsGroup())
	assert.Equal(t, "coffee", tag.Name())
	assert.Equal(t, "coffee", tag.String())

	group := GroupKey("FOOD")
	assert.True(t, group.IsGroup())
	assert.Equal(t, "FOOD", group.Name())
	assert.Equal(t, "group:FOOD", group.String())
}

// TestTagKey_Comparable tests that keys work as map keys and that a tag
// id can never collide with a group of the same name.
func TestTagKey_Comparable(t *testing.T) {
	m := map[TagKey]int{
		TagID("stress"):    1,
		GroupKey("stress"): 2,
	}
	assert.Len(t, m, 2)
	assert.Equal(t, 1, m[TagID("stress")])
	assert.Equal(t, 2, m[GroupKey("stress")])
}

// TestTagKey_JSONRoundTrip tests the wire form and its parse.
func TestTagKey_JSONRoundTrip(t *testing.T) {
	for _, key := range []TagKey{TagID("coffee"), GroupKey("FOOD")} {
		data, err := json.Marshal(key)
		require.NoError(t, err)

		var back TagKey
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, key, back)
	}
}

// TestTagKey_UnmarshalGroupPrefix tests that the "group:" prefix only
// parses as a group when a name follows it.
func TestTagKey_UnmarshalGroupPrefix(t *testing.T) {
	var key TagKey
	require.NoError(t, key.UnmarshalText([]byte("group:FOOD")))
	assert.True(t, key.IsGroup())
	assert.Equal(t, "FOOD", key.Name())

	require.Error(t, key.UnmarshalText([]byte("")))
}
