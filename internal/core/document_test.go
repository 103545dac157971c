package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileFormat_Supported(t *testing.T) {
	assert.True(t, FormatV2.Supported())
	assert.True(t, FormatV3.Supported())
	assert.True(t, CurrentFormat.Supported())
	assert.False(t, FileFormat(0).Supported())
	assert.False(t, FileFormat(4).Supported())
}

func TestDocument_Accessors(t *testing.T) {
	doc := Document{
		"name":    "alex",
		"number":  1.0,
		"nested":  map[string]any{"id": "p1"},
		"typed":   Document{"id": "p2"},
		"list":    []any{"a", "b"},
		"missing": nil,
	}

	str, ok, err := doc.String("name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alex", str)

	_, ok, err = doc.String("absent")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = doc.String("missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = doc.String("number")
	assert.ErrorIs(t, err, ErrFormat)

	obj, ok, err := doc.Object("nested")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "p1", obj["id"])

	obj, ok, err = doc.Object("typed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "p2", obj["id"])

	_, _, err = doc.Object("list")
	assert.ErrorIs(t, err, ErrFormat)

	arr, ok, err := doc.Array("list")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, arr, 2)

	_, _, err = doc.Array("name")
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "name", formatErr.Field)
}

func TestOperationError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&OperationError{Kind: OpRefresh, Err: cause})

	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "refresh failed")
}

func TestOperationKind_State(t *testing.T) {
	assert.Equal(t, StateLoggingIn, OpLogin.State())
	assert.Equal(t, StateChecking, OpCheck.State())
	assert.Equal(t, StateRefreshingToken, OpRefresh.State())
	assert.Equal(t, StateLoggingOut, OpLogout.State())
	assert.Equal(t, StateIdle, OperationKind("other").State())
}
