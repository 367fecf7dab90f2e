package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_UsesReferenceZone(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 2024-06-01 20:30 UTC is already 2024-06-02 03:30 in Jakarta.
	c := NewFixed(time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC), jakarta)

	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Today(c))
	assert.Equal(t, 3, c.Now().Hour())
	assert.Equal(t, jakarta, c.Location())
}

func TestFixed_Set(t *testing.T) {
	c := NewFixed(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC), nil)
	c.Set(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Today(c))
	assert.Equal(t, time.UTC, c.Location())
}

func TestNewFromName(t *testing.T) {
	c, err := NewFromName("Asia/Jakarta")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", c.Location().String())
	assert.Equal(t, "Asia/Jakarta", c.Now().Location().String())

	_, err = NewFromName("Nowhere/Nothing")
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	in := time.Date(2024, 2, 29, 23, 59, 59, 999, time.FixedZone("X", 7*3600))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), DateOf(in))
}
