// Package compose renders a declarative edit configuration onto a source
// image.
//
// A Config describes optional tone adjustments, wallpaper sizing, text and
// image overlays, a procedural background and a text watermark. Pipeline
// applies them in that fixed order to a private RGBA copy of the source:
//
//	adjust -> wallpaper -> text -> image overlays -> background -> watermark
//
// # Lenient and strict inputs
//
// Positions are lenient: a Position that cannot be parsed resolves to the
// centre of its axis. Colours are strict: a malformed colour aborts the
// render with a *StageError wrapping imaging.ErrInvalidColorFormat.
// Missing overlay images, empty text and unknown preset names never fail
// a render; the last is reported in Result.Warnings.
package compose
