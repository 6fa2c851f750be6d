package network

import (
	"errors"

	"nnlab/vec"
)

var (
	// ErrInvalidShape matches every dimension mismatch; the concrete error is a
	// *vec.ShapeError carrying the expected and actual lengths.
	ErrInvalidShape = vec.ErrInvalidShape

	ErrEmptyBatch            = errors.New("empty training batch")
	ErrUnsupportedActivation = errors.New("activation not supported by the cost gradient")
	ErrInvalidArchitecture   = errors.New("invalid network architecture")
	ErrNotConverged          = errors.New("neuron did not converge")
)
