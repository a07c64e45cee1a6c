// Package domain defines the core types for migration results.
package domain

// Language represents a programming language.
type Language string

// Supported languages for source migration.
const (
	LanguageJava Language = "java"
)
