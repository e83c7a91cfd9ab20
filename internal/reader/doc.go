// Package reader drives the decoding of a project file. It detects the schema
// generation from the compound object stream, then runs the properties,
// calendars, resources, tasks, relations and assignments stages in order,
// each one backed by the tables of its generation.
package reader
