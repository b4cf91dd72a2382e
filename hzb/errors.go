package hzb

import "errors"

var (
	ErrInvalidDimensions = errors.New("hzb: invalid framebuffer dimensions")
	ErrOutOfBounds       = errors.New("hzb: coordinates outside of framebuffer")
	ErrEmptyRect         = errors.New("hzb: empty rectangle")
	ErrInvalidDepth      = errors.New("hzb: invalid depth value")
)
