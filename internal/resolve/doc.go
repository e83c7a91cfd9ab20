// Package resolve rebuilds the relationships stored across the record tables
// of a project file: unique ID maps, base calendar links, split task segments,
// display order and the sub-project table.
package resolve
