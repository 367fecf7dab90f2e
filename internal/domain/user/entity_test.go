package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Siti Rahma", User{FirstName: "Siti", LastName: "Rahma"}.FullName())
	assert.Equal(t, "Siti", User{FirstName: "Siti"}.FullName())
}
