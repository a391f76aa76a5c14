package qsharp_bridge_go

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var livePython = flag.String("python", "", "Python interpreter with the qsharp package, enables live evaluator tests")

// fakeDriver answers codec requests the way driver.py does, using respond to build each reply
func fakeDriver(t *testing.T, respond func(req driverReq) []driverResp) (*lineCodec, func()) {
	t.Helper()

	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	go func() {
		defer respW.Close()
		sc := bufio.NewScanner(reqR)
		enc := json.NewEncoder(respW)
		for sc.Scan() {
			var req driverReq
			if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
				return
			}
			for _, resp := range respond(req) {
				if err := enc.Encode(resp); err != nil {
					return
				}
			}
		}
	}()

	c := newLineCodec(respR, reqW)
	return c, func() {
		c.close()
		_ = reqW.Close()
		_ = reqR.Close()
	}
}

func TestLineCodec_Call(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the value of the matching reply", func(t *testing.T) {
		req := require.New(t)
		var got []driverReq
		c, stop := fakeDriver(t, func(r driverReq) []driverResp {
			got = append(got, r)
			return []driverResp{{Id: r.Id, Ok: true, Value: json.RawMessage(`[1,1]`)}}
		})
		defer stop()

		value, err := c.call(ctx, "eval", "QuantumEntanglement.CreateBellStatesSimple()")

		req.NoError(err)
		req.JSONEq(`[1,1]`, string(value))
		req.Equal([]driverReq{{Id: 1, Op: "eval", Code: "QuantumEntanglement.CreateBellStatesSimple()"}}, got)
	})

	t.Run("should discard replies to other requests", func(t *testing.T) {
		req := require.New(t)
		c, stop := fakeDriver(t, func(r driverReq) []driverResp {
			return []driverResp{
				{Id: r.Id + 100, Ok: true, Value: json.RawMessage(`0`)},
				{Id: r.Id, Ok: true, Value: json.RawMessage(`1`)},
			}
		})
		defer stop()

		value, err := c.call(ctx, "eval", "1")

		req.NoError(err)
		req.Equal("1", string(value))
	})

	t.Run("should return null for an empty reset reply", func(t *testing.T) {
		req := require.New(t)
		c, stop := fakeDriver(t, func(r driverReq) []driverResp {
			return []driverResp{{Id: r.Id, Ok: true}}
		})
		defer stop()

		value, err := c.call(ctx, "reset", "")

		req.NoError(err)
		req.Equal("null", string(value))
	})

	t.Run("should carry the driver error kind", func(t *testing.T) {
		req := require.New(t)
		c, stop := fakeDriver(t, func(r driverReq) []driverResp {
			return []driverResp{{Id: r.Id, Kind: KindDefinitionsNotFound, Error: "Qsc.Resolve.NotFound"}}
		})
		defer stop()

		_, err := c.call(ctx, "eval", "1")

		req.ErrorIs(err, ErrDefinitionsNotFound)
		req.True(IsDefinitionsLost(err))
	})

	t.Run("should fail once the driver exits", func(t *testing.T) {
		req := require.New(t)
		c, stop := fakeDriver(t, func(r driverReq) []driverResp {
			return nil
		})
		stop()

		_, err := c.call(ctx, "eval", "1")

		req.Error(err)
	})

	t.Run("should give up when the context ends", func(t *testing.T) {
		req := require.New(t)
		c, stop := fakeDriver(t, func(r driverReq) []driverResp {
			return nil
		})
		defer stop()

		ctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		_, err := c.call(ctx, "eval", "1")

		req.ErrorIs(err, context.DeadlineExceeded)
	})
}

// startCat runs cat as a stand-in driver, it echoes every request back
func startCat(t *testing.T, ctx context.Context) *Process {
	t.Helper()

	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	p, err := start(exec.CommandContext(ctx, cat))
	require.NoError(t, err)
	return p
}

func TestProcess_Close(t *testing.T) {
	t.Run("should stop the child after its output is drained", func(t *testing.T) {
		req := require.New(t)
		p := startCat(t, context.Background())

		req.NoError(p.Close())
		req.NoError(p.Close())

		select {
		case <-p.codec.done:
		default:
			req.Fail("output still being read after close")
		}
		req.NotNil(p.cmd.ProcessState)
	})

	t.Run("should stop the child when its context ends", func(t *testing.T) {
		req := require.New(t)
		ctx, cancel := context.WithCancel(context.Background())
		p := startCat(t, ctx)
		defer p.Close()

		cancel()

		select {
		case <-p.codec.done:
		case <-time.After(5 * time.Second):
			req.Fail("child still running after cancel")
		}
		_, err := p.Eval(context.Background(), "1")
		req.Error(err)
		req.NoError(p.Close())
	})
}

func TestStartProcess(t *testing.T) {
	t.Run("should fail for a missing interpreter", func(t *testing.T) {
		_, err := StartProcess(context.Background(), WithPython("python-does-not-exist-anywhere"))

		require.Error(t, err)
	})

	t.Run("should run operations against a live runtime", func(t *testing.T) {
		if *livePython == "" {
			t.Skip("live evaluator disabled, pass -python to enable")
		}
		req := require.New(t)
		ctx := context.Background()

		p, err := StartProcess(ctx, WithPython(*livePython))
		req.NoError(err)
		defer p.Close()

		req.NoError(p.Reset(ctx))
		value, err := p.Eval(ctx, "1 + 1")
		req.NoError(err)
		req.JSONEq(`2`, string(value))

		_, err = p.Eval(ctx, "Missing.Operation()")
		req.True(IsDefinitionsLost(err))
	})
}
