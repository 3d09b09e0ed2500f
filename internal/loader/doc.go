// Package loader implements the script source collaborator: it resolves
// script references to canonical form, reads script documents from a backing
// store (a plain directory or a .zip archive), and caches parsed documents
// so a script exec'd from several parents parses once.
//
// References are slash-delimited paths relative to the referencing script;
// a logical reference without an extension resolves by appending ".hcl".
// The interpreter only ever sees canonical references and parsed documents,
// never raw bytes.
package loader
