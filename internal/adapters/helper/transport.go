package helper

import "io"

// pipeTransport joins the helper's stdin and stdout pipes into one stream.
type pipeTransport struct {
	w io.WriteCloser
	r io.ReadCloser
}

func (t *pipeTransport) Read(p []byte) (int, error)  { return t.r.Read(p) }
func (t *pipeTransport) Write(p []byte) (int, error) { return t.w.Write(p) }

// Close closes stdin first so the helper sees EOF and can exit cleanly.
func (t *pipeTransport) Close() error {
	werr := t.w.Close()
	rerr := t.r.Close()
	if werr != nil {
		return werr
	}
	return rerr
}
