package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type codedError struct{ code string }

func (e *codedError) Error() string { return e.code }

func TestAsType_FindsWrappedError(t *testing.T) {
	base := &codedError{code: "CAPACITY_EXCEEDED"}
	wrapped := Wrap(Wrap(base, "reserve slot"), "create connection")

	got, ok := AsType[*codedError](wrapped)

	assert.True(t, ok)
	assert.Same(t, base, got)
	assert.Equal(t, base, Cause(wrapped))
}

func TestAsType_NoMatch(t *testing.T) {
	_, ok := AsType[*codedError](New("plain"))

	assert.False(t, ok)
}
