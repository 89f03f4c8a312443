package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("loading room: %w", NotFound("Non-existent room id"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestStoreUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Store("insert responses", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrStore)
	assert.Equal(t, "insert responses: connection reset", err.Error())
}

func TestBatchMessage(t *testing.T) {
	err := Batch([]string{"first problem", "second problem"})

	assert.Equal(t, "The following errors occurred: 'first problem', 'second problem'", err.Error())
	assert.Equal(t, []string{"first problem", "second problem"}, err.Fields)
	assert.Equal(t, KindBusinessRule, err.Kind)
}
