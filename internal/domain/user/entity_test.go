package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPasswordHashesValue(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("senha-secreta"))

	// A senha nunca é armazenada em texto puro
	assert.NotEqual(t, "senha-secreta", u.Password)
	assert.True(t, strings.HasPrefix(u.Password, "$2"))
}

func TestCheckPassword(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("senha-secreta"))

	assert.True(t, u.CheckPassword("senha-secreta"))
	assert.False(t, u.CheckPassword("senha-errada"))
	assert.False(t, u.CheckPassword(""))
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	u := &User{}
	assert.False(t, u.CheckPassword("qualquer"))
}

func TestValidate(t *testing.T) {
	assert.True(t, (&User{Username: "maria", Email: "maria@example.com"}).Validate())
	assert.False(t, (&User{Username: "", Email: "maria@example.com"}).Validate())
	assert.False(t, (&User{Username: "maria", Email: "   "}).Validate())
	assert.False(t, (&User{}).Validate())
}
