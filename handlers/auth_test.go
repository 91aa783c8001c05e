package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"feedgram/apperror"
)

// An unknown user looks exactly like a rotated-out token (401), but a store
// failure during refresh must surface as an internal error, not as a
// credentials problem.
func TestRefreshLookupErrorClassification(t *testing.T) {
	err := refreshLookupError(mongo.ErrNoDocuments)
	assert.Equal(t, http.StatusUnauthorized, apperror.StatusOf(err))
	assert.Equal(t, "Invalid refresh token", apperror.MessageOf(err))

	driverErr := errors.New("server selection error: context deadline exceeded")
	err = refreshLookupError(driverErr)
	assert.Equal(t, http.StatusInternalServerError, apperror.StatusOf(err))
	assert.Equal(t, "Internal Server Error", apperror.MessageOf(err), "store failures must not leak details")
}
