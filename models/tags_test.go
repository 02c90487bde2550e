package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEncodeDecodeTags_RoundTrip(t *testing.T) {
	cases := [][]string{
		{"a", "b", "c"},
		{"c", "a", "b"},
		{"go", "go"},
		{"with space", "ünïcödé", `quote"d`, "comma,separated"},
		{""},
		{},
	}

	for _, tags := range cases {
		encoded := EncodeTags(tags)
		decoded, err := DecodeTags(&encoded)
		require.NoError(t, err)
		assert.Equal(t, tags, decoded)
	}
}

func TestEncodeTags_NilIsEmptyList(t *testing.T) {
	assert.Equal(t, "[]", EncodeTags(nil))
}

func TestDecodeTags_AbsentOrEmpty(t *testing.T) {
	for _, stored := range []*string{nil, strPtr(""), strPtr("   "), strPtr("null"), strPtr("[]")} {
		decoded, err := DecodeTags(stored)
		require.NoError(t, err)
		assert.NotNil(t, decoded)
		assert.Empty(t, decoded)
	}
}

func TestDecodeTags_Malformed(t *testing.T) {
	_, err := DecodeTags(strPtr("not json"))
	require.Error(t, err)

	_, err = DecodeTags(strPtr(`{"a":1}`))
	require.Error(t, err)
}
