package taskrt

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskTracedError_NilInputYieldsNilError(t *testing.T) {
	assert.Nil(t, newTaskTracedError(nil, 1, TraceInfo{}))
}

func TestNewTaskTracedError_WrapsAndUnwraps(t *testing.T) {
	inner := errors.New("underlying failure")
	trace := TraceInfo{Context: "ctx", Purpose: "purpose"}

	wrapped := newTaskTracedError(inner, 7, trace)
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, inner)
	assert.Equal(t, inner.Error(), wrapped.Error())

	id, ok := ExtractTaskID(wrapped)
	require.True(t, ok)
	assert.EqualValues(t, 7, id)

	gotTrace, ok := ExtractTrace(wrapped)
	require.True(t, ok)
	assert.Equal(t, trace, gotTrace)
}

func TestExtractTaskID_ReturnsFalseForUntaggedError(t *testing.T) {
	_, ok := ExtractTaskID(errors.New("plain"))
	assert.False(t, ok)
}

func TestTaskTracedError_FormatVerbs(t *testing.T) {
	inner := errors.New("inner")
	wrapped := newTaskTracedError(inner, 3, TraceInfo{Purpose: "fmt-test"})

	assert.Equal(t, "inner", fmt.Sprintf("%s", wrapped))
	assert.Equal(t, `"inner"`, fmt.Sprintf("%q", wrapped))
	assert.Contains(t, fmt.Sprintf("%+v", wrapped), "fmt-test")
}
