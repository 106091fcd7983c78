package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/exp/jsonrpc2"
)

// maxBodyBytes bounds a single JSON-RPC message posted over HTTP.
const maxBodyBytes = 1 << 20

// HTTPHandler returns the streamable HTTP endpoint: each POST carries one
// JSON-RPC message and calls are answered with a JSON body.
func (s *Server) HTTPHandler() http.Handler {
	return http.HandlerFunc(s.serveHTTP)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	msg, err := jsonrpc2.DecodeMessage(body)
	if err != nil {
		s.logger.Debug("Rejected HTTP message", "error", err)
		writeParseError(w, err)
		return
	}

	req, ok := msg.(*jsonrpc2.Request)
	if !ok {
		// responses to server requests; this server never sends any
		w.WriteHeader(http.StatusAccepted)
		return
	}
	if !req.IsCall() {
		_, _ = s.handle(r.Context(), req)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	result, herr := s.handle(r.Context(), req)
	if errors.Is(herr, jsonrpc2.ErrNotHandled) {
		herr = fmt.Errorf("%w: %s", jsonrpc2.ErrMethodNotFound, req.Method)
	}
	resp, err := jsonrpc2.NewResponse(req.ID, result, herr)
	if err != nil {
		s.logger.Error("Failed to build response", "method", req.Method, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data, err := jsonrpc2.EncodeMessage(resp)
	if err != nil {
		s.logger.Error("Failed to encode response", "method", req.Method, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("Failed to write response", "error", err)
	}
}

// writeParseError answers a body that is not a JSON-RPC message. There is no
// request id to echo, so the error carries a null id.
func writeParseError(w http.ResponseWriter, cause error) {
	type wireError struct {
		Code    int64  `json:"code"`
		Message string `json:"message"`
	}
	body := struct {
		Version string    `json:"jsonrpc"`
		ID      any       `json:"id"`
		Error   wireError `json:"error"`
	}{
		Version: "2.0",
		Error:   wireError{Code: -32700, Message: "JSON RPC parse error: " + cause.Error()},
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(body)
}

// ListenAndServe serves HTTPHandler at path on addr until ctx is done, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr, path string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln, path)
}

// ServeListener is ListenAndServe on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, s.HTTPHandler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("Listening", "addr", ln.Addr().String(), "path", path)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		s.logger.Info("Shutting down HTTP transport")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}
