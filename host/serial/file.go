//go:build !tinygo

package serial

import (
	"io"
	"os"
)

// FilePort replays a raw capture as if it came from the board. Writes
// are discarded.
type FilePort struct {
	f *os.File
}

// OpenFile opens a capture written by Record
func OpenFile(path string) (Port, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FilePort{f: f}, nil
}

func (p *FilePort) Read(b []byte) (int, error)  { return p.f.Read(b) }
func (p *FilePort) Write(b []byte) (int, error) { return len(b), nil }
func (p *FilePort) Close() error                { return p.f.Close() }
func (p *FilePort) Flush() error                { return nil }

// Recorder copies everything read from a port into w
type Recorder struct {
	Port
	w io.Writer
}

// Record wraps port so every byte read is also written to w
func Record(port Port, w io.Writer) *Recorder {
	return &Recorder{Port: port, w: w}
}

func (r *Recorder) Read(b []byte) (int, error) {
	n, err := r.Port.Read(b)
	if n > 0 {
		if _, werr := r.w.Write(b[:n]); werr != nil && err == nil {
			err = werr
		}
	}
	return n, err
}
