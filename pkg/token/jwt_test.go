package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Address   string `json:"address"`
	ShareCode string `json:"share_code"`
}

func TestJWT(t *testing.T) {
	engine := NewEngine[sample]("secret")
	token, err := engine.Generate(time.Minute, sample{Address: "0xabc", ShareCode: "code"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, sample{Address: "0xabc", ShareCode: "code"}, obj)
}

func TestJWTNoExpiration(t *testing.T) {
	engine := NewEngine[string]("secret")
	token, err := engine.Generate(0, "abc")
	require.NoError(t, err)

	msg, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "abc", msg)
}

func TestJWTExpiration(t *testing.T) {
	engine := NewEngine[string]("secret")
	token, err := engine.Generate(time.Nanosecond, "abc")
	require.NoError(t, err)

	time.Sleep(time.Second)
	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := NewEngine[string]("secret").Generate(time.Minute, "abc")
	require.NoError(t, err)

	_, err = NewEngine[string]("other").Verify(token)
	require.Error(t, err)

	_, err = NewEngine[string]("secret").Verify("not-a-token")
	require.Error(t, err)
}
