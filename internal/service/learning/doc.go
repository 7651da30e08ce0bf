// Package learning is the caller layer around the adaptive and srs engines.
//
// It loads and persists per-student state, serializes writes for one student,
// and emits learning events after each committed change. The engines stay
// pure; everything with I/O lives here.
package learning
