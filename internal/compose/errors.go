package compose

import (
	"errors"
	"fmt"
)

// ErrEmptySource is returned when the source raster is nil or has no pixels.
var ErrEmptySource = errors.New("source image is empty")

// ErrTooLarge is returned when a requested raster exceeds the pipeline's
// pixel limit.
var ErrTooLarge = errors.New("image exceeds the pixel limit")

// Stage names a pipeline step.
type Stage string

// Pipeline stages in execution order.
const (
	StageSource        Stage = "source"
	StageAdjust        Stage = "adjust"
	StageWallpaper     Stage = "wallpaper"
	StageText          Stage = "text"
	StageImageOverlays Stage = "image_overlays"
	StageBackground    Stage = "background"
	StageWatermark     Stage = "watermark"
)

// StageError reports the stage that aborted a render.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
