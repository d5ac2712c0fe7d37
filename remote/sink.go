// FILE: ultralog/remote/sink.go
// Package remote forwards log records to an HTTP log endpoint as
// {"level": ..., "message": ...} JSON, authenticated with a bearer token.
// Delivery is best-effort: no retries, failures only reach the reporter.
package remote

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultQueueSize = 1024
)

// Payload is the request body accepted by the /log endpoint
type Payload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Sink posts records to <baseURL>/log from a single sender goroutine
type Sink struct {
	endpoint string
	auth     string
	timeout  time.Duration
	client   *fasthttp.Client
	report   func(string)

	queueSize int
	queue     chan Payload

	mu      sync.RWMutex // Guards closed against concurrent Send
	closed  bool
	done    chan struct{}
	dropped atomic.Uint64
}

// Option configures a Sink
type Option func(*Sink)

// WithTimeout bounds each request
func WithTimeout(timeout time.Duration) Option {
	return func(s *Sink) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithQueueSize sets how many records may wait for the sender before Send drops
func WithQueueSize(size int) Option {
	return func(s *Sink) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithReporter receives one line per failed delivery
func WithReporter(report func(string)) Option {
	return func(s *Sink) {
		if report != nil {
			s.report = report
		}
	}
}

// WithClient replaces the HTTP client, mainly to dial in-memory listeners
func WithClient(client *fasthttp.Client) Option {
	return func(s *Sink) {
		if client != nil {
			s.client = client
		}
	}
}

// New creates a Sink and starts its sender
func New(baseURL, token string, opts ...Option) *Sink {
	s := &Sink{
		endpoint:  strings.TrimRight(baseURL, "/") + "/log",
		auth:      "Bearer " + token,
		timeout:   defaultTimeout,
		client:    &fasthttp.Client{Name: "ultralog"},
		report:    func(string) {},
		queueSize: defaultQueueSize,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.queue = make(chan Payload, s.queueSize)

	go s.run()
	return s
}

// Send enqueues a record without blocking. It returns false when the record
// was dropped because the queue is full or the sink is closed.
func (s *Sink) Send(level, message string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.dropped.Add(1)
		return false
	}

	select {
	case s.queue <- Payload{Level: level, Message: message}:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Post delivers one record synchronously
func (s *Sink) Post(level, message string) error {
	body, err := json.Marshal(Payload{Level: level, Message: message})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set(fasthttp.HeaderAuthorization, s.auth)
	req.SetBody(body)

	if err := s.client.DoTimeout(req, resp, s.timeout); err != nil {
		return fmt.Errorf("post %s: %w", s.endpoint, err)
	}

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("post %s: unexpected status %d", s.endpoint, code)
	}
	return nil
}

// Dropped returns how many records were never attempted
func (s *Sink) Dropped() uint64 {
	return s.dropped.Load()
}

// Close stops accepting records and waits up to timeout for the sender to
// finish what is queued
func (s *Sink) Close(timeout time.Duration) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("remote sink did not drain within %v", timeout)
	}
}

func (s *Sink) run() {
	defer close(s.done)

	for p := range s.queue {
		if err := s.Post(p.Level, p.Message); err != nil {
			s.report(err.Error())
		}
	}
}
