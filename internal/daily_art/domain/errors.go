package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput            = errors.New("query is empty")
	ErrNoCandidates          = errors.New("no artwork matches the query")
	ErrAlreadySubmittedToday = errors.New("an entry for today already exists")
	ErrSubmissionInProgress  = errors.New("a submission is already in progress")
	ErrInvalidTransition     = errors.New("invalid state transition")
	ErrNoEntryToday          = errors.New("no entry submitted in this session")
	ErrEntryKeyExists        = errors.New("entry key already exists")
	ErrGateNotReady          = errors.New("entry history has not loaded yet")
)

// NetworkError covers transport failures, non-2xx statuses and wrong content types.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means a payload did not match the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StoreError wraps a failed read or write against the entry store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: store: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
