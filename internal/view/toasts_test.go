package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToastsAreBounded(t *testing.T) {
	toasts := NewToasts(2)
	toasts.Info("one")
	toasts.Success("two")
	toasts.Error("three")

	last, ok := toasts.Last()
	assert.True(t, ok)
	assert.Equal(t, ToastError, last.Kind)

	drained := toasts.Drain()
	if assert.Len(t, drained, 2) {
		assert.Equal(t, "two", drained[0].Text)
		assert.Equal(t, "three", drained[1].Text)
	}
	assert.Empty(t, toasts.Drain())

	_, ok = toasts.Last()
	assert.False(t, ok)
}

func TestToastKindString(t *testing.T) {
	assert.Equal(t, "info", ToastInfo.String())
	assert.Equal(t, "success", ToastSuccess.String())
	assert.Equal(t, "error", ToastError.String())
}

func TestDefaultToastLimit(t *testing.T) {
	assert.Equal(t, DefaultToastLimit, NewToasts(0).limit)
}
