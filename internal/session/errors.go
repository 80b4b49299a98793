package session

import (
	"errors"

	"github.com/nguyentantai21042004/smelt-client/internal/connection"
	"github.com/nguyentantai21042004/smelt-client/internal/encoder"
)

var (
	ErrBusy          = errors.New("session busy: reset before submitting again")
	ErrReset         = errors.New("session reset")
	ErrNoJob         = errors.New("no job submitted")
	ErrEmptyBatch    = errors.New("nothing to submit")
	ErrDuplicateItem = errors.New("duplicate item identifier")
	ErrItemTimeout   = errors.New("no message from remote")
	ErrClosed        = errors.New("session closed")
)

const (
	msgConnectionFailed = "CONNECTION FAILED. IS THE SERVER RUNNING?"
	msgProcessFailed    = "FAILED TO PROCESS. TRY AGAIN."
)

// IsBatchFatal reports whether err ends the whole job rather than a single item.
func IsBatchFatal(err error) bool {
	if err == nil {
		return false
	}
	var encErr *encoder.EncodingError
	var connErr *connection.ConnectionError
	return errors.As(err, &encErr) ||
		errors.As(err, &connErr) ||
		errors.Is(err, connection.ErrNotConnected) ||
		errors.Is(err, ErrItemTimeout)
}

// UserMessage turns a batch error into the single line shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var connErr *connection.ConnectionError
	if errors.As(err, &connErr) || errors.Is(err, connection.ErrNotConnected) {
		return msgConnectionFailed
	}
	return msgProcessFailed
}
