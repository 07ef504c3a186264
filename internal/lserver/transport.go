package lserver

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/RivinHD/ltexctl/internal/logging"
)

// readBufferSize sizes the transport's read buffer. Check responses
// for large documents can exceed the bufio default.
const readBufferSize = 64 * 1024

// NotificationHandler receives server-initiated notifications.
type NotificationHandler func(method string, params json.RawMessage)

// rpcRequest is an outgoing JSON-RPC 2.0 request or notification.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id,omitempty"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcResponse is an incoming JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// rpcIncoming covers both responses and notifications so the read
// loop can dispatch on the presence of a method field.
type rpcIncoming struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Transport speaks JSON-RPC 2.0 over a byte stream using the
// Content-Length header framing expected by the checking server.
// Requests are correlated to responses by ID; server notifications
// are dispatched to registered handlers on the read goroutine.
type Transport struct {
	reader *bufio.Reader
	writer io.Writer

	writeMu sync.Mutex
	nextID  atomic.Int64

	mu       sync.Mutex
	pending  map[int64]chan *rpcResponse
	handlers map[string]NotificationHandler

	closed atomic.Bool
	done   chan struct{}
}

// NewTransport creates a transport over the given reader and writer,
// typically the stdout and stdin pipes of the server process.
func NewTransport(r io.Reader, w io.Writer) *Transport {
	return &Transport{
		reader:   bufio.NewReaderSize(r, readBufferSize),
		writer:   w,
		pending:  make(map[int64]chan *rpcResponse),
		handlers: make(map[string]NotificationHandler),
		done:     make(chan struct{}),
	}
}

// Start launches the read loop. It returns immediately; incoming
// messages are processed until the stream ends or Close is called.
func (t *Transport) Start(ctx context.Context) {
	go t.readLoop(ctx)
}

// Close stops the transport. Pending callers receive ErrShutdown.
func (t *Transport) Close() {
	if t.closed.Swap(true) {
		return
	}
	close(t.done)

	// Drop pending entries; waiters unblock via t.done. The channels
	// are left open so a racing handleResponse cannot panic.
	t.mu.Lock()
	t.pending = make(map[int64]chan *rpcResponse)
	t.mu.Unlock()
}

// OnNotification registers a handler for a server notification
// method. Must be called before Start.
func (t *Transport) OnNotification(method string, handler NotificationHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[method] = handler
}

// Call sends a request and decodes the matching response into result
// (which may be nil to discard it).
func (t *Transport) Call(ctx context.Context, method string, params, result any) error {
	if t.closed.Load() {
		return ErrShutdown
	}

	id := t.nextID.Add(1)
	ch := make(chan *rpcResponse, 1)

	t.mu.Lock()
	t.pending[id] = ch
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
	}()

	if err := t.write(&rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("sending %s request: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.done:
		return ErrShutdown
	case resp := <-ch:
		if resp.Error != nil {
			return fmt.Errorf("%s: %w", method, resp.Error)
		}
		if result == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("decoding %s response: %w", method, err)
		}
		return nil
	}
}

// Notify sends a notification (no response expected).
func (t *Transport) Notify(method string, params any) error {
	if t.closed.Load() {
		return ErrShutdown
	}
	if err := t.write(&rpcRequest{JSONRPC: "2.0", Method: method, Params: params}); err != nil {
		return fmt.Errorf("sending %s notification: %w", method, err)
	}
	return nil
}

// write frames and sends a single message. The write lock keeps
// concurrent frames from interleaving.
func (t *Transport) write(msg *rpcRequest) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := fmt.Fprintf(t.writer, "Content-Length: %d\r\n\r\n", len(payload)); err != nil {
		return err
	}
	_, err = t.writer.Write(payload)
	return err
}

// readLoop reads framed messages until the stream ends.
func (t *Transport) readLoop(ctx context.Context) {
	log := logging.FromContext(ctx)

	for {
		if t.closed.Load() {
			return
		}

		payload, err := t.readMessage()
		if err != nil {
			if !t.closed.Load() && err != io.EOF {
				log.Warn().
					Str("component", "lserver").
					Err(err).
					Msg("transport read failed")
			}
			return
		}

		var msg rpcIncoming
		if err := json.Unmarshal(payload, &msg); err != nil {
			log.Warn().
				Str("component", "lserver").
				Err(err).
				Msg("discarding malformed server message")
			continue
		}

		switch {
		case msg.Method != "" && msg.ID == nil:
			t.dispatchNotification(msg.Method, msg.Params)
		case msg.ID != nil:
			t.handleResponse(&rpcResponse{
				JSONRPC: msg.JSONRPC,
				ID:      *msg.ID,
				Result:  msg.Result,
				Error:   msg.Error,
			})
		}
	}
}

// readMessage reads one Content-Length framed payload.
func (t *Transport) readMessage() ([]byte, error) {
	contentLength := -1
	for {
		line, err := t.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if name, value, found := strings.Cut(line, ":"); found &&
			strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length header: %w", err)
			}
		}
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("message missing Content-Length header")
	}

	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(t.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (t *Transport) dispatchNotification(method string, params json.RawMessage) {
	t.mu.Lock()
	handler := t.handlers[method]
	t.mu.Unlock()
	if handler != nil {
		handler(method, params)
	}
}

func (t *Transport) handleResponse(resp *rpcResponse) {
	t.mu.Lock()
	ch := t.pending[resp.ID]
	t.mu.Unlock()
	if ch != nil {
		ch <- resp
	}
}
