// Package classify runs the interactive loop that moves entries of the flat
// workspace catalog into named catalogs.
//
// The loop never touches the workspace document. Every answer produces a
// new Session value; the caller applies the final Session once the user has
// confirmed, so a cancelled run leaves nothing behind.
package classify
