// Package input defines the input-collection collaborator: the component
// the interpreter delegates to when a script declares an input that was not
// supplied as a batch property. Two implementations exist: Batch, which
// never prompts and accepts declared defaults, and Console, which runs an
// interactive prompt/read loop.
package input
