package capture

import (
	"bytes"
	"errors"
	"io"
	"sync"
)

// testSerialPort is an in-memory SerialPorter. Reads block until data is
// added or the port is closed, like a quiet USB console.
type testSerialPort struct {
	mu       sync.Mutex
	cond     *sync.Cond
	read     bytes.Buffer
	written  bytes.Buffer
	closed   bool
	eof      bool
	shortBy  int
	writeErr error
}

func newTestSerialPort() *testSerialPort {
	p := &testSerialPort{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *testSerialPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for !p.closed && !p.eof && p.read.Len() == 0 {
		p.cond.Wait()
	}
	if p.closed {
		return 0, errors.New("serial port closed")
	}
	if p.read.Len() == 0 && p.eof {
		return 0, io.EOF
	}
	return p.read.Read(b)
}

func (p *testSerialPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	n := len(b) - p.shortBy
	if n < 0 {
		n = 0
	}
	p.written.Write(b[:n])
	return n, nil
}

func (p *testSerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
	return nil
}

// feed queues data for Read.
func (p *testSerialPort) feed(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.read.WriteString(s)
	p.cond.Broadcast()
}

// hangUp makes Read return io.EOF once the queued data is drained.
func (p *testSerialPort) hangUp() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eof = true
	p.cond.Broadcast()
}

func (p *testSerialPort) writtenString() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}
