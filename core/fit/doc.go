// Package fit holds the curve helpers the battery models are built from:
// a clamped linear lookup table, polynomial least squares and the
// double exponential cycle-life curve. All of them run once at setup.
package fit
