package netx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestETag(t *testing.T) {
	assert.Equal(t, `"7"`, FormatETag(7))

	for in, want := range map[string]int64{`"7"`: 7, `7`: 7, `W/"3"`: 3, ` "0" `: 0} {
		got, err := ParseETag(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseETag(`"x"`)
	assert.Error(t, err)
}
