package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesCode(t *testing.T) {
	base := StorageError("disk full")
	wrapped := Wrap(base, "saving user data")

	assert.Equal(t, CodeStorageError, GetCode(wrapped))
	assert.Contains(t, wrapped.Error(), "saving user data")
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrapNil(t *testing.T) {
	require.Nil(t, Wrap(nil, "nothing happened"))
	require.Nil(t, WithCode(CodeStorageError, nil))
}

func TestWithCodeOnPlainError(t *testing.T) {
	err := WithCode(CodeExternalService, stderrors.New("connection refused"))

	assert.Equal(t, CodeExternalService, GetCode(err))
	assert.True(t, IsAppError(err))
}

func TestGetCodeUnknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(StorageError("timeout")))
	assert.True(t, IsTransient(ExternalServiceError("openai", stderrors.New("503"))))
	assert.True(t, IsTransient(Unavailable("booting")))

	assert.False(t, IsTransient(ValidationError("bad duration")))
	assert.False(t, IsTransient(InvalidInput("empty task")))
	assert.False(t, IsTransient(stderrors.New("plain")))
}
