package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	SessionID ID
	RequestID ID
)

func (id SessionID) String() string { return ID(id).String() }
func (id RequestID) String() string { return ID(id).String() }

// NewSessionID tags one loaded project for log correlation.
func NewSessionID() SessionID {
	return SessionID(NewID())
}

// NewRequestID tags one API request.
func NewRequestID() RequestID {
	return RequestID(NewID())
}

// ParseSessionID parses a string into SessionID
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("session ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid session ID %q: %w", s, err)
	}
	return SessionID(s), nil
}
