// Package ipc implements the §6 named-pipe command protocol: a per-session
// pipe that accepts line-framed command records terminated by byte 0x17
// ("end of transmission block") and replies Success|Err(string) in the same
// framing. It is a thin transport shim around the verb dispatch C10 already
// implements (internal/orchestrator's Command routing) — the pipe itself
// exists only to give github.com/Microsoft/go-winio, the teacher's
// dependency for this concern, a concrete home. This package only splits a
// line into a verb and args; deciding what that verb does stays in the
// orchestrator.
package ipc

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"github.com/Microsoft/go-winio"

	"seelencore/internal/shortcuts"
)

// recordDelimiter is 0x17, "end of transmission block" — §6's framing byte
// for both requests and responses.
const recordDelimiter = 0x17

// Dispatcher is the narrow surface of internal/orchestrator.Core the
// server needs: turning a parsed Command into a side effect.
type Dispatcher interface {
	Dispatch(cmd shortcuts.Command) error
}

// Server accepts connections on a named pipe and feeds each 0x17-delimited
// record to dispatch as a Command.
type Server struct {
	log        *slog.Logger
	pipePath   string
	dispatch   Dispatcher

	mu       sync.Mutex
	listener net.Listener
	wg       sync.WaitGroup
}

// New constructs a Server. Call Start to begin accepting connections.
func New(log *slog.Logger, pipePath string, dispatch Dispatcher) *Server {
	return &Server{log: log, pipePath: pipePath, dispatch: dispatch}
}

// Start opens the named pipe and begins accepting connections on a
// background goroutine. Returns once the pipe is listening.
func (s *Server) Start() error {
	l, err := winio.ListenPipe(s.pipePath, &winio.PipeConfig{
		// Only the local session should be able to reach this pipe — the
		// privileged service and user app run under the same desktop
		// session per §6.
		SecurityDescriptor: "D:P(A;;GA;;;OW)",
		MessageMode:        false,
	})
	if err != nil {
		return fmt.Errorf("ipc: listen on %s: %w", s.pipePath, err)
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	s.wg.Add(1)
	go s.acceptLoop(l)
	return nil
}

// Stop closes the listener and waits for every in-flight connection's
// handler to return.
func (s *Server) Stop() {
	s.mu.Lock()
	l := s.listener
	s.listener = nil
	s.mu.Unlock()
	if l != nil {
		_ = l.Close()
	}
	s.wg.Wait()
}

func (s *Server) acceptLoop(l net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := l.Accept()
		if err != nil {
			return // listener closed by Stop
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Split(splitOnDelimiter)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, ok := parseCommand(line)
		if !ok {
			s.respond(conn, fmt.Errorf("ipc: malformed command %q", line))
			continue
		}
		err := s.dispatch.Dispatch(cmd)
		s.respond(conn, err)
	}
}

func (s *Server) respond(conn net.Conn, err error) {
	var msg string
	if err != nil {
		msg = "Err(" + err.Error() + ")"
	} else {
		msg = "Success"
	}
	if _, werr := conn.Write(append([]byte(msg), recordDelimiter)); werr != nil && s.log != nil {
		s.log.Warn("ipc: write response failed", "error", werr)
	}
}

// parseCommand splits "verb arg1 arg2 ..." into a shortcuts.Command, the
// same structure §9's Command already carries from C9's hotkey
// translation, so the orchestrator's dispatch switch serves both entry
// points identically.
func parseCommand(line string) (shortcuts.Command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return shortcuts.Command{}, false
	}
	return shortcuts.Command{Verb: fields[0], Args: fields[1:]}, true
}

// splitOnDelimiter is a bufio.SplitFunc that frames on recordDelimiter
// instead of newlines.
func splitOnDelimiter(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, recordDelimiter); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// DialAndSend is a small client helper for tests and the debug verb: opens
// pipePath, writes one framed command, and returns the framed response
// with its trailing delimiter stripped.
func DialAndSend(ctx context.Context, pipePath, verb string, args []string) (string, error) {
	conn, err := winio.DialPipeContext(ctx, pipePath)
	if err != nil {
		return "", fmt.Errorf("ipc: dial %s: %w", pipePath, err)
	}
	defer conn.Close()

	line := verb
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	if _, err := conn.Write(append([]byte(line), recordDelimiter)); err != nil {
		return "", fmt.Errorf("ipc: write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Split(splitOnDelimiter)
	if !scanner.Scan() {
		return "", fmt.Errorf("ipc: no response: %w", scanner.Err())
	}
	return scanner.Text(), nil
}
