// Package render implements the renderer collaborator: it consumes the
// frozen model tree plus the archetype's fileset declarations and writes the
// generated project to the destination directory.
//
// Filesets select payload files with doublestar include/exclude globs.
// `${property}` references are expanded in destination path segments; files
// in a templated fileset are additionally rendered through text/template
// with the exported model tree and the final property map as data. The
// renderer only reports success or failure; it never rolls back files
// already written.
package render
