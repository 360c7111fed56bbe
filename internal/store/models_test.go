package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumbers(t *testing.T) {
	assert.Equal(t, "3+12+19+27+35", FormatNumbers([]int{3, 12, 19, 27, 35}))
	assert.Equal(t, "7", FormatNumbers([]int{7}))
	assert.Equal(t, "", FormatNumbers(nil))
}

func TestParseNumbers(t *testing.T) {
	nums, err := ParseNumbers("3+12+19+27+35")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 12, 19, 27, 35}, nums)

	nums, err = ParseNumbers(" 1 + 2 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, nums)

	_, err = ParseNumbers("")
	assert.Error(t, err)

	_, err = ParseNumbers("3+x+5")
	assert.Error(t, err)
}

func TestFormatParseRoundTrip(t *testing.T) {
	original := []int{1, 8, 15, 22, 39}
	nums, err := ParseNumbers(FormatNumbers(original))
	require.NoError(t, err)
	assert.Equal(t, original, nums)
}
