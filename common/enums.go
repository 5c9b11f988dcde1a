// Package common holds enumerations shared by configuration, command line
// and analysis packages.
package common

//go:generate go tool go-enum --marshal --names --values

// How selectors are located in stylesheet text.
// ENUM(textual, grammar)
type ExtractionMode int

// Report rendering format.
// ENUM(text, json, yaml)
type OutputFormat int
