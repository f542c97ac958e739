// Package tmpfile implements short-lived files that are addressable by a path,
// for handing data to tools that insist on reading from or writing to one.
//
// On Linux the file is an anonymous memory object (memfd_create) that never
// touches persistent storage. Its path is synthesized from the process' own
// descriptor table, "/proc/<pid>/fd/<fd>", and is therefore only meaningful
// to this process (and children that look up the parent's entry).
// Elsewhere a uniquely named file in the system's temporary directory is used,
// which gets removed once the data has been claimed.
//
// The lifecycle is {New, hand out Path, IntoFile} or {New, Close}:
//
//	f, err := tmpfile.New("sample")
//	if err != nil {
//		return err
//	}
//	runTool("--outfile", f.Path())
//	h := f.IntoFile() // f must not be used anymore
//	defer h.Close()
//
// Neither Path nor IntoFile can fail, all fallible work is done in New.
// A File is not safe for concurrent use.
package tmpfile // import "blitznote.com/src/caddy.extract/tmpfile"
