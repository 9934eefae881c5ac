// Package ui renders inspector command activity for people watching the console.
//
// Structured JSON logs remain the default; when the console log format is
// selected, ConsoleCommandEventLogger narrates each git query in plain language.
package ui
