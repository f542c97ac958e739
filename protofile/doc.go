// Package protofile implements files that don't appear in the
// filesystem namespace until they are complete.
//
// On Linux O_TMPFILE is used, which results in a nameless file
// that gets linked into its directory on Persist.
// Kernels or filesystems lacking O_TMPFILE degrade gracefully
// to the well-known dot-files (like ".gitignore") that get renamed.
//
// Unlike with traditional files with {Create, Write, Close},
// these have a lifecycle described by {IntentNew, Write, Persist or Zap}.
package protofile // import "blitznote.com/src/caddy.extract/protofile"
