// Package engine is the project engine: it loads project files into an
// in-memory representation, exposes the project-level accessors consumed
// by detail extraction, and runs asynchronous render jobs.
//
// A loaded project is an explicit resource returned by Open and passed
// into extraction and render calls. Nothing here is process-global; two
// projects can be open side by side.
package engine
