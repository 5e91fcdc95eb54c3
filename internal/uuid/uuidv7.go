// Package uuid generates time-ordered identifiers.
package uuid

import googleuuid "github.com/google/uuid"

// New generates a new UUIDv7 based on the current timestamp.
// UUIDv7 is time-ordered, which keeps identifiers roughly insertion-sorted
// in database indexes. Falls back to UUIDv4 if the system random source
// fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
