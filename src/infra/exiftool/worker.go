package exiftool

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

// sentinel is the marker the tool prints on its own line after each
// command's output in -stay_open mode. Framing assumes it never occurs
// as a full trailing line of legitimate tag output.
const sentinel = "{ready}"

// errRefused marks a call turned away before submission: the tool
// never saw the command, so resubmitting it to another worker is safe.
// A call that was submitted and then lost to a worker death fails with
// plain ErrTerminated instead; the command may have executed, so it is
// never retried automatically. Wraps ErrTerminated so callers outside
// the package see one taxonomy.
var errRefused = fmt.Errorf("%w: command not submitted", ErrTerminated)

// Worker owns one stay-open tool process and multiplexes concurrent
// callers onto its stdin/stdout pair. The tool processes one command at
// a time and the protocol carries no sequence numbers, so replies are
// matched to callers strictly by submission order.
type Worker struct {
	stdin io.WriteCloser

	mu      sync.Mutex
	pending []*pendingCall
	closed  bool
	stopped bool

	done chan struct{}
}

// pendingCall is the bookkeeping for one in-flight command. Warnings
// accumulate from the error stream until the call resolves; after that
// the slice is handed off and no longer touched.
type pendingCall struct {
	resolved chan struct{}
	text     string
	warnings []string
	err      error
}

// StartWorker launches bin with the stay-open protocol enabled and
// begins supervising its streams. bin must be an absolute path from a
// BinaryResolver.
func StartWorker(bin string) (*Worker, error) {
	cmd := exec.Command(bin, "-stay_open", "True", "-@", "-")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", bin, err)
	}
	return supervise(stdin, stdout, stderr, cmd.Wait), nil
}

// supervise wires a worker around explicit streams. Split from
// StartWorker so the framing and lifecycle logic can be exercised with
// in-memory pipes.
func supervise(stdin io.WriteCloser, stdout, stderr io.Reader, wait func() error) *Worker {
	w := &Worker{
		stdin: stdin,
		done:  make(chan struct{}),
	}
	replies := make(chan struct{})
	diags := make(chan struct{})
	go func() {
		defer close(replies)
		w.readReplies(stdout)
	}()
	go func() {
		defer close(diags)
		w.readDiagnostics(stderr)
	}()
	go func() {
		err := wait()
		<-replies
		<-diags
		w.terminate(err)
	}()
	return w
}

// Call writes args as one command and blocks until the matching reply
// is framed off the output stream. It returns the raw reply text and
// any error-stream lines attributed to this call. Safe for concurrent
// use; commands are serialized onto stdin under the lock in submission
// order, which is the order replies come back in.
//
// A context cancellation abandons the wait but cannot retract the
// command: the reply still arrives and is discarded, keeping the queue
// aligned.
func (w *Worker) Call(ctx context.Context, args []string) (string, []string, error) {
	call := &pendingCall{resolved: make(chan struct{})}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return "", nil, errRefused
	}
	var b strings.Builder
	for _, arg := range args {
		b.WriteString(arg)
		b.WriteByte('\n')
	}
	b.WriteString("-execute\n")
	w.pending = append(w.pending, call)
	_, err := io.WriteString(w.stdin, b.String())
	if err != nil {
		// The command never reached the tool; drop the slot so later
		// replies stay aligned.
		w.unenqueue(call)
		w.mu.Unlock()
		return "", nil, fmt.Errorf("%w: writing command: %v", errRefused, err)
	}
	w.mu.Unlock()

	select {
	case <-call.resolved:
		return call.text, call.warnings, call.err
	case <-ctx.Done():
		return "", nil, ctx.Err()
	}
}

// Stop writes the stay-open shutdown directive and closes stdin. The
// tool finishes any in-flight command and exits on its own; killing it
// is left to whoever owns the process lifecycle.
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	if _, err := io.WriteString(w.stdin, "-stay_open\nFalse\n"); err != nil {
		return w.stdin.Close()
	}
	return w.stdin.Close()
}

// Done is closed once the process has exited and every pending call has
// been failed.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Alive reports whether the worker still accepts calls.
func (w *Worker) Alive() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

// readReplies accumulates output and hands each framed reply to the
// oldest pending call. One read may carry any number of complete
// replies, so the buffer is drained frame by frame after every append;
// a trailing partial frame stays buffered for the next read.
func (w *Worker) readReplies(r io.Reader) {
	var acc bytes.Buffer
	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			acc.Write(buf[:n])
			for {
				payload, rest, ok := nextFrame(acc.Bytes())
				if !ok {
					break
				}
				remainder := append([]byte(nil), rest...)
				acc.Reset()
				acc.Write(remainder)
				w.deliver(payload)
			}
		}
		if err != nil {
			return
		}
	}
}

// nextFrame scans b for the earliest line consisting solely of the
// sentinel. On match it returns the trimmed payload preceding that
// line and the unconsumed bytes following it.
func nextFrame(b []byte) (payload string, rest []byte, ok bool) {
	offset := 0
	for {
		i := bytes.Index(b[offset:], []byte(sentinel))
		if i < 0 {
			return "", nil, false
		}
		start := offset + i
		end := start + len(sentinel)
		tail := b[end:]
		j := 0
		for j < len(tail) && (tail[j] == ' ' || tail[j] == '\t' || tail[j] == '\r') {
			j++
		}
		atLineStart := start == 0 || b[start-1] == '\n'
		atLineEnd := j == len(tail) || tail[j] == '\n'
		if atLineStart && atLineEnd {
			rest = tail[j:]
			if len(rest) > 0 {
				rest = rest[1:]
			}
			return strings.TrimSpace(string(b[:start])), rest, true
		}
		// Sentinel text embedded inside a payload line; keep looking.
		offset = end
	}
}

func (w *Worker) deliver(payload string) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		slog.Warn("exiftool: reply with no pending call", "reply", payload)
		return
	}
	call := w.pending[0]
	w.pending = w.pending[1:]
	w.mu.Unlock()

	call.text = payload
	close(call.resolved)
}

// readDiagnostics attaches error-stream lines to the oldest pending
// call as warnings. The tool emits non-fatal notes there while still
// producing a reply, so these are never fatal by themselves. Lines that
// arrive with nothing pending cannot be attributed and are surfaced to
// the operator instead.
func (w *Worker) readDiagnostics(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		w.mu.Lock()
		if len(w.pending) > 0 {
			call := w.pending[0]
			call.warnings = append(call.warnings, line)
			w.mu.Unlock()
			continue
		}
		w.mu.Unlock()
		slog.Warn("exiftool: unattributed diagnostic", "line", line)
	}
}

// terminate fails every pending call and refuses further ones.
func (w *Worker) terminate(waitErr error) {
	w.mu.Lock()
	w.closed = true
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()

	for _, call := range pending {
		if waitErr != nil {
			call.err = fmt.Errorf("%w: %v", ErrTerminated, waitErr)
		} else {
			call.err = ErrTerminated
		}
		close(call.resolved)
	}
	close(w.done)
}

// unenqueue removes call from the pending queue. Caller holds the lock.
func (w *Worker) unenqueue(call *pendingCall) {
	for i, c := range w.pending {
		if c == call {
			w.pending = append(w.pending[:i], w.pending[i+1:]...)
			return
		}
	}
}
