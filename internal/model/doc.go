// Package model defines the data structures shared across the crawler:
// page records produced by extraction, their content and metadata blocks,
// and the flattened summary rows used for tabular export.
package model
