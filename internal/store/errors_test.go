package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindOther, KindOf(errors.New("boom")))
	assert.Equal(t, KindOther, KindOf(nil))
	assert.Equal(t, KindValidation, KindOf(Invalid("Farm", errors.New("x"))))
	assert.Equal(t, KindMalformedQuery, KindOf(NotFound("Farm", "abc")))

	wrapped := fmt.Errorf("render: %w", CastFailed("Product", "_id", "zz", "ObjectId", nil))
	assert.Equal(t, KindMalformedQuery, KindOf(wrapped))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Failed("Farm", "find", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Farm find: connection reset", err.Error())
	assert.Equal(t, "Farm", err.Model)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ValidationError", KindValidation.String())
	assert.Equal(t, "CastError", KindMalformedQuery.String())
	assert.Equal(t, "Error", KindOther.String())
}
