package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(NotFound, "Not found content %s", "abc")
	require.Equal(t, "Not found content abc", err.Error())
	require.Equal(t, NotFound, err.Code)
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, DuplicateProof, CodeOf(New(DuplicateProof, "dup")))
	require.Equal(t, NothingToClaim, CodeOf(fmt.Errorf("wrapped: %w", New(NothingToClaim, "empty"))))
	require.Equal(t, Internal, CodeOf(errors.New("raw")))
	require.Equal(t, Internal, CodeOf(Unknown))

	require.True(t, errors.Is(New(AlreadyOpen, "a"), Error{Code: AlreadyOpen}))
	require.False(t, errors.Is(New(AlreadyOpen, "a"), Error{Code: NotExpired}))
}
