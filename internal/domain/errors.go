package domain

import "errors"

// Sentinel errors returned by the explorer core.
var (
	ErrUnknownNode       = errors.New("unknown node")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrDuplicateNode     = errors.New("duplicate node id")
	ErrNotSuite          = errors.New("node is not a suite")
	ErrNoTarget          = errors.New("no target selected")
	ErrAlreadyRegistered = errors.New("collection already registered")
)
