// Package browserfile provides handles on files a user selected in a browser
// file input.
//
// A File exposes the metadata the browser reported (name, last modified time,
// size, content type) and a guarded way to read the file's bytes. None of the
// metadata is trusted: OpenReadStream rejects files whose declared size is
// above the caller's ceiling, and then enforces the same ceiling on the bytes
// the transport actually delivers.
//
// Key features:
//   - Pluggable byte sources (memory, filesystems, chunked relays,
//     S3-compatible object stores via the objectstore package)
//   - A 500 KiB default ceiling, overridable per call
//   - Cooperative cancellation through context.Context
//   - Typed errors that separate size, cancellation and transport failures
//   - Deterministic release of the underlying source on every exit path
//
// Example usage:
//
//	f, err := browserfile.NewMemoryFile(meta, data)
//	if err != nil {
//	    return err
//	}
//
//	rc, err := f.OpenReadStream(ctx, browserfile.WithMaxAllowedSize(1<<20))
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
//
//	_, err = io.Copy(dst, rc)
package browserfile
