package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"gotyche/domain/core"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ConfigInvalid("SIGNIFICANCE_CONDITION must be in (0,1)")
	wrapped := Wrap(base, "failed to load battery configuration")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	var appErr *AppError
	assert.True(t, stderrors.As(wrapped, &appErr))
	assert.Contains(t, wrapped.Error(), "SIGNIFICANCE_CONDITION")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Nil(t, Wrapf(nil, "nothing %d", 1))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestGetCodeClassifiesDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unknown encoding", core.NewUnknownEncodingError("bogus"), CodeConfigInvalid},
		{"ragged columns", core.NewColumnError("SPX", core.ErrRaggedColumns), CodeInvalidInput},
		{"invalid symbol", fmt.Errorf("stream 3: %w", core.ErrInvalidSymbol), CodeInvalidInput},
		{"other", stderrors.New("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.Equal(t, tt.code, GetCode(Wrap(tt.err, "context")))
		})
	}
}

func TestWithCodeOverridesCode(t *testing.T) {
	err := WithCode(CodeNotFound, InternalError("missing sheet"))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "missing sheet", err.Error())
}

func TestUnwrapReachesDomainError(t *testing.T) {
	err := Wrapf(core.ErrEmptyDataset, "reading %s", "returns.csv")
	assert.True(t, stderrors.Is(err, core.ErrEmptyDataset))
}
