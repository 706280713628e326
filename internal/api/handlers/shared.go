package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/damiad/net-worth-tracker/internal/apperrors"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Unknown fields are rejected.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("failed to decode request body: %w", err)
	}

	return v, nil
}

// snapshotOutcome separates a partial success from a failure. When err only
// reports that the snapshot was not recorded, the mutation stands: the
// message is returned for the response body and the remaining error is nil.
func snapshotOutcome(err error) (string, error) {
	if err != nil && errors.Is(err, apperrors.ErrSnapshotNotRecorded) {
		log.Printf("Partial success: %v", err)
		return err.Error(), nil
	}
	return "", err
}
