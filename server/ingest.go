// FILE: ultralog/server/ingest.go
package server

import (
	"bytes"
	"context"
	"crypto/subtle"
	"strings"

	"github.com/panjf2000/gnet/v2"
	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/ultralog"
	"github.com/lixenwraith/ultralog/sanitizer"
)

// MaxLineLength bounds one protocol line; longer input closes the connection
const MaxLineLength = 64 * 1024

var (
	replyOK           = []byte("OK\n")
	replyUnauthorized = []byte("ERR unauthorized\n")
	replyTooLong      = []byte("ERR line too long\n")
)

// connState is attached to every connection
type connState struct {
	authenticated bool
}

// Ingest accepts newline-delimited records over TCP. Each line is
// "LEVEL message"; a line whose first word is not a level name is logged
// whole at INFO. With a token configured, the first line of a connection
// must be "AUTH <token>".
type Ingest struct {
	gnet.BuiltinEventEngine

	addr      string
	token     []byte
	recorder  Recorder
	sanitizer *sanitizer.Sanitizer
	options   []gnet.Option

	eng    gnet.Engine
	booted chan struct{}
}

// IngestOption configures an Ingest
type IngestOption func(*Ingest)

// WithEngineLogger routes gnet's own diagnostics, see compat.GnetAdapter
func WithEngineLogger(logger logging.Logger) IngestOption {
	return func(i *Ingest) {
		i.options = append(i.options, gnet.WithLogger(logger))
	}
}

// WithMulticore runs one event loop per CPU
func WithMulticore(multicore bool) IngestOption {
	return func(i *Ingest) {
		i.options = append(i.options, gnet.WithMulticore(multicore))
	}
}

// NewIngest creates a TCP ingest for addr ("host:port"). An empty token
// disables authentication.
func NewIngest(addr, token string, recorder Recorder, opts ...IngestOption) *Ingest {
	i := &Ingest{
		addr:      addr,
		recorder:  recorder,
		sanitizer: sanitizer.New().Policy(sanitizer.PolicyTxt),
		booted:    make(chan struct{}),
	}
	if token != "" {
		i.token = []byte(token)
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run serves until ctx is cancelled or the engine fails
func (i *Ingest) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- gnet.Run(i, "tcp://"+i.addr, i.options...)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := i.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// Ready is closed once the listener is bound
func (i *Ingest) Ready() <-chan struct{} {
	return i.booted
}

// Stop shuts the engine down
func (i *Ingest) Stop(ctx context.Context) error {
	select {
	case <-i.booted:
	case <-ctx.Done():
		return ctx.Err()
	}
	return i.eng.Stop(ctx)
}

// OnBoot keeps the engine for Stop
func (i *Ingest) OnBoot(eng gnet.Engine) gnet.Action {
	i.eng = eng
	close(i.booted)
	return gnet.None
}

// OnOpen attaches per-connection state
func (i *Ingest) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	c.SetContext(&connState{authenticated: i.token == nil})
	return nil, gnet.None
}

// OnTraffic consumes every complete line and leaves a partial tail buffered
func (i *Ingest) OnTraffic(c gnet.Conn) gnet.Action {
	buf, err := c.Peek(-1)
	if err != nil {
		return gnet.Close
	}

	end := bytes.LastIndexByte(buf, '\n')
	if end < 0 {
		if len(buf) > MaxLineLength {
			_, _ = c.Write(replyTooLong)
			return gnet.Close
		}
		return gnet.None
	}

	if len(buf)-end-1 > MaxLineLength {
		_, _ = c.Write(replyTooLong)
		return gnet.Close
	}

	lines := string(buf[:end])
	_, _ = c.Discard(end + 1)

	state, _ := c.Context().(*connState)
	if state == nil {
		state = &connState{authenticated: i.token == nil}
		c.SetContext(state)
	}

	for _, line := range strings.Split(lines, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		if len(line) > MaxLineLength {
			_, _ = c.Write(replyTooLong)
			return gnet.Close
		}

		if !state.authenticated {
			if !i.authenticate(line) {
				_, _ = c.Write(replyUnauthorized)
				return gnet.Close
			}
			state.authenticated = true
			_, _ = c.Write(replyOK)
			continue
		}

		i.recorder.Log(i.parseLine(line))
	}
	return gnet.None
}

func (i *Ingest) authenticate(line string) bool {
	token, ok := strings.CutPrefix(line, "AUTH ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), i.token) == 1
}

// parseLine splits "LEVEL message"; without a level name the whole line is INFO
func (i *Ingest) parseLine(line string) (int64, string) {
	first, rest, _ := strings.Cut(line, " ")
	if level, ok := ultralog.LevelByName(first); ok {
		return level, i.sanitizer.Sanitize(rest)
	}
	return ultralog.LevelInfo, i.sanitizer.Sanitize(line)
}
