// Package core contains the contracts shared by the shell, tabs and screens.
//
// Allowed here:
// - the Screen and Tab interfaces, screen stacks, message types
// - the key registry and the dependencies handed to screens
//
// Not allowed here:
// - concrete screen or tab implementations
// - low-level drawing primitives (widgets)
package core
