package qsharp_bridge_go

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// DefaultPython is the interpreter the evaluator driver is started with
const DefaultPython = "python3"

//go:embed driver.py
var driverSource string

type processOptions struct {
	python string
	stderr io.Writer
}

// ProcessOption configures how the evaluator process is started
type ProcessOption func(*processOptions)

// WithPython configures the Python interpreter, it must have the qsharp package installed
func WithPython(path string) ProcessOption {
	return func(options *processOptions) {
		options.python = path
	}
}

// WithProcessStderr configures where the driver's stderr, including Q# Message output, is written
func WithProcessStderr(w io.Writer) ProcessOption {
	return func(options *processOptions) {
		options.stderr = w
	}
}

// Process is an Evaluator backed by a local Python qsharp runtime running as a child process.
// Definitions loaded into it live as long as the child does.
type Process struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	codec *lineCodec

	closeOnce sync.Once
	closeErr  error
}

// StartProcess launches the evaluator driver and returns once the child is running.
// The child is killed when ctx is done.
func StartProcess(ctx context.Context, options ...ProcessOption) (*Process, error) {
	var opts processOptions
	for _, option := range options {
		option(&opts)
	}

	// Set defaults
	if opts.python == "" {
		opts.python = DefaultPython
	}
	if opts.stderr == nil {
		opts.stderr = os.Stderr
	}

	python, err := exec.LookPath(opts.python)
	if err != nil {
		return nil, NewEvalErr("", fmt.Sprintf("python interpreter %q not found", opts.python), err.Error())
	}

	cmd := exec.CommandContext(ctx, python, "-u", "-c", driverSource)
	cmd.Stderr = opts.stderr
	return start(cmd)
}

// start runs cmd and speaks the driver protocol over its stdin and stdout
func start(cmd *exec.Cmd) (*Process, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, NewEvalErr("", "failed to start evaluator process", err.Error())
	}

	return &Process{
		cmd:   cmd,
		stdin: stdin,
		codec: newLineCodec(stdout, stdin),
	}, nil
}

// Reset reinitializes the qsharp runtime, dropping every loaded definition
func (p *Process) Reset(ctx context.Context) error {
	_, err := p.codec.call(ctx, "reset", "")
	return err
}

// Eval evaluates source text in the qsharp runtime
func (p *Process) Eval(ctx context.Context, source string) (json.RawMessage, error) {
	return p.codec.call(ctx, "eval", source)
}

// Close stops the child process
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		p.codec.close()
		_ = p.stdin.Close()
		if p.cmd.Process != nil {
			_ = p.cmd.Process.Kill()
		}
		// Wait closes stdout, reads must be finished first
		<-p.codec.done
		if err := p.cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			killed := errors.As(err, &exitErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
			if !killed {
				p.closeErr = err
			}
		}
	})
	return p.closeErr
}

type driverReq struct {
	Id   uint64 `json:"id"`
	Op   string `json:"op"`
	Code string `json:"code,omitempty"`
}

type driverResp struct {
	Id    uint64          `json:"id"`
	Ok    bool            `json:"ok"`
	Value json.RawMessage `json:"value,omitempty"`
	Kind  string          `json:"kind,omitempty"`
	Error string          `json:"error,omitempty"`
}

// lineCodec pairs newline delimited JSON requests with their replies by id.
// Replies to abandoned requests are dropped.
type lineCodec struct {
	mu  sync.Mutex
	enc *json.Encoder
	seq uint64

	replies chan driverResp
	done    chan struct{}
	closed  chan struct{}
	once    sync.Once
	readErr error
}

func newLineCodec(r io.Reader, w io.Writer) *lineCodec {
	c := &lineCodec{
		enc:     json.NewEncoder(w),
		replies: make(chan driverResp),
		done:    make(chan struct{}),
		closed:  make(chan struct{}),
	}
	go c.readLoop(r)
	return c
}

func (c *lineCodec) readLoop(r io.Reader) {
	defer close(c.done)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		var resp driverResp
		if err := json.Unmarshal(sc.Bytes(), &resp); err != nil {
			continue
		}
		select {
		case c.replies <- resp:
		case <-c.closed:
			c.readErr = io.ErrClosedPipe
			return
		}
	}

	c.readErr = sc.Err()
	if c.readErr == nil {
		c.readErr = io.EOF
	}
}

func (c *lineCodec) call(ctx context.Context, op, code string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	id := c.seq
	if err := c.enc.Encode(driverReq{Id: id, Op: op, Code: code}); err != nil {
		return nil, NewEvalErr("", "evaluator process unavailable", err.Error())
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.done:
			return nil, NewEvalErr("", "evaluator process exited", fmt.Sprint(c.readErr))
		case resp := <-c.replies:
			if resp.Id != id {
				continue
			}
			if !resp.Ok {
				return nil, NewEvalErr(resp.Kind, resp.Error, "")
			}
			if len(resp.Value) == 0 {
				return json.RawMessage("null"), nil
			}
			return resp.Value, nil
		}
	}
}

func (c *lineCodec) close() {
	c.once.Do(func() { close(c.closed) })
}
