// Package srs implements the SM-2 spaced-repetition variant used for
// vocabulary review: ease and interval updates from 0-5 quality ratings,
// status derivation, due-word selection, and daily study statistics.
package srs
