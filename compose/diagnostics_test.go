package compose

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// causeError reports only its own message and exposes its cause via Unwrap,
// the shape RenderErrorChain is built for.
type causeError struct {
	msg   string
	cause error
}

func (e *causeError) Error() string { return e.msg }
func (e *causeError) Unwrap() error { return e.cause }

func TestRenderErrorChain(t *testing.T) {
	inner := errors.New("no composable module registered as \"missing.wgsl\"")
	mid := &causeError{msg: "line 3: cannot import \"missing.wgsl\"", cause: inner}
	outer := &causeError{msg: "failed to compose shader \"entry.wgsl\"", cause: mid}

	assert.Equal(t,
		`failed to compose shader "entry.wgsl": line 3: cannot import "missing.wgsl": no composable module registered as "missing.wgsl"`,
		RenderErrorChain(outer),
	)
}

func TestRenderErrorChainSingleLevel(t *testing.T) {
	assert.Equal(t, "flat failure", RenderErrorChain(errors.New("flat failure")))
}

func TestRenderErrorChainNil(t *testing.T) {
	assert.Empty(t, RenderErrorChain(nil))
}
