// Package extract contains a HTTP handler for Caddy and net/http,
// which hands uploaded documents to an external extractor
// and responds with whatever the extractor has written.
//
// Extractors are programs that insist on paths for their input and output,
// such as tabula-java:
//
//	java -jar tabula.jar --format CSV --outfile {out} {in}
//
// Placeholders {in} and {out} are replaced by paths of temporary files
// (see package tmpfile) that on Linux live in memory and never touch the disk.
// Without {in} the document is fed to the extractor on stdin.
//
// Requests can be authenticated using a header "Authorization"
// as described in package signature.auth:
//
//	Authorization: Signature keyId="(key_id)",algorithm="hmac-sha256",
//	    headers="timestamp token",signature="(see below)"
//
// After that it's using, for example, 'curl' like this:
//
//	curl -T \
//	  --header 'Authorization: …' \
//	  report.pdf <url>
package extract // import "blitznote.com/src/caddy.extract"
