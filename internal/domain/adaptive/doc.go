// Package adaptive implements the difficulty adaptation engine. It ingests
// graded answers, keeps a bounded window of recent performance, and derives a
// recommended difficulty, a hint flag, and an encouragement message. Level
// changes are only recommended here; callers commit them explicitly.
package adaptive
