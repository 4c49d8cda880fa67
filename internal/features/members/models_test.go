package members

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	withUsername := &Member{Username: "ivan", FirstName: "Иван"}
	assert.Equal(t, "@ivan", withUsername.DisplayName())

	fullName := &Member{FirstName: "Иван", LastName: "Петров"}
	assert.Equal(t, "Иван Петров", fullName.DisplayName())

	firstOnly := &Member{FirstName: "Иван"}
	assert.Equal(t, "Иван", firstOnly.DisplayName())
}
