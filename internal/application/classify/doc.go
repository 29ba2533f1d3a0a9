// Package classify tags questions with a coarse topical domain used to
// select disclaimer text in the rendered report. Classification is plain
// case-insensitive keyword matching with a fixed priority order; it has no
// dependencies and no error paths.
package classify
