// Package domain contains the core entities of the learning-progress scheduler:
// graded answer events, per-student adaptive difficulty state, and per-word
// spaced-repetition progress. The types here carry no persistence or transport
// concerns; the algorithms that evolve them live in the adaptive and srs
// subpackages.
package domain
