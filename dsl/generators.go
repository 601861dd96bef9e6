package dsl

import (
	"time"

	"github.com/google/uuid"
)

// UUID is a default generator producing time-ordered (v7) UUID strings.
func UUID() any {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Now is a default generator producing the current time.
func Now() any { return time.Now().UTC() }

// ID returns a primary string field filled with a UUID by default.
func ID() *FieldBuilder {
	return String().Primary().Const().DefaultFunc(UUID)
}
