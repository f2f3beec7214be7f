package program

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureUnitsAssignLowestFree(t *testing.T) {
	var u TextureUnits
	for i := 0; i < 16; i++ {
		unit, err := u.Assign(fmt.Sprintf("s%d", i))
		require.NoError(t, err)
		assert.Equal(t, i, unit)
	}

	unit, err := u.Assign("s4")
	require.NoError(t, err)
	assert.Equal(t, 4, unit)

	_, err = u.Assign("s16")
	assert.ErrorIs(t, err, ErrTextureUnitsExhausted)
	assert.Equal(t, 16, u.Len())

	u.Release("s3")
	u.Release("missing")
	unit, err = u.Assign("s16")
	require.NoError(t, err)
	assert.Equal(t, 3, unit)

	_, ok := u.Unit("s3")
	assert.False(t, ok)
}
