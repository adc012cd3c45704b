// Package automode implements the auto-mode decision engine described in
// package controller.go: a weighted heat/cool demand model, a dominance
// rule for resolving conflicting demand, and three timing locks
// (min-off, min-on, min-lock) guarding a compressor shared by several
// enrolled devices. Safety overrides (freeze, high temperature) bypass
// every lock unconditionally.
package automode
