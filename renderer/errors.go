package renderer

import "errors"

var (
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrCameraResolution = errors.New("renderer: camera resolution does not match frame dimensions")
	ErrInterrupted      = errors.New("renderer: interrupted while rendering")

	ErrInvalidFrameDims   = errors.New("renderer: frame dimensions must be positive")
	ErrFrameTooLarge      = errors.New("renderer: frame exceeds the maximum supported pixel count")
	ErrInvalidFOV         = errors.New("renderer: field of view must be in the (0, 180) degree range")
	ErrInvalidSampleCount = errors.New("renderer: samples per pixel must be positive")
	ErrInvalidBlockDims   = errors.New("renderer: block dimensions must be positive")
	ErrInvalidPassCount   = errors.New("renderer: pass count must be positive")
)
