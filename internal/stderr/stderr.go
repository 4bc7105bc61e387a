//go:build !windows

// Package stderr redirects file descriptor 2 while the player UI owns the
// terminal. Audio backends (ALSA through the speaker) write diagnostics
// straight to fd 2, bypassing os.Stderr, which would corrupt the layout.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"syscall"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	readerDone chan struct{}
)

// Start captures everything written to fd 2 and hands each non-empty line
// to sink on a background goroutine. It must run before the audio backend
// is initialized. On error the program can continue without capture.
func Start(sink func(line string)) error {
	mu.Lock()
	defer mu.Unlock()
	if pipeRead != nil {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	// Point fd 2 at the pipe's write end
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr = orig
	pipeRead = r
	pipeWrite = w
	readerDone = make(chan struct{})

	go forward(r, sink, readerDone)
	return nil
}

func forward(r *os.File, sink func(string), done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			sink(line)
		}
	}
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Used for fatal errors that must stay visible.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()
	if fd < 0 {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(fd, []byte(msg))
}

// Stop restores the original stderr and waits for pending lines to reach
// the sink.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if pipeRead == nil {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)
	origStderr = -1

	// fd 2 no longer references the pipe; closing our end ends the reader.
	pipeWrite.Close()
	<-readerDone
	pipeRead.Close()
	pipeRead, pipeWrite, readerDone = nil, nil, nil
}
