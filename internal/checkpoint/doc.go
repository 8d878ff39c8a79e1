// Package checkpoint persists the accumulated result set.
//
// Snapshots are whole-file JSON replacements written with the
// write-then-rename pattern, so a crash mid-write never leaves a corrupt
// checkpoint behind. The final write produces the complete dataset plus a
// flattened spreadsheet export.
package checkpoint
