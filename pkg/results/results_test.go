package results

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationResult(t *testing.T) {
	ok := SuccessResult[string, error]("done")
	assert.True(t, ok.IsSuccess())
	assert.False(t, ok.IsFailure())
	assert.Equal(t, "done", *ok.Success)

	boom := errors.New("boom")
	failed := FailureResult[string, error](boom)
	assert.True(t, failed.IsFailure())
	assert.False(t, failed.IsSuccess())
	assert.ErrorIs(t, *failed.Failure, boom)

	var empty OperationResult[int, error]
	assert.False(t, empty.IsSuccess())
	assert.False(t, empty.IsFailure())
}
