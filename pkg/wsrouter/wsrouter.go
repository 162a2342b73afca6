// Package wsrouter routes websocket frames of the form {"type": ...} to typed
// handlers.
package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/watchalong/server/pkg/wsconn"
)

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrMalformedMessage   = errors.New("malformed message")
)

type message struct {
	Type string `json:"type"`
}

type HandlerFunc[T any] func(ctx context.Context, conn *wsconn.Conn, input T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

// ErrorHandlerFunc is invoked for every error a dispatch produces: malformed
// frames, unknown message types and handler failures.
type ErrorHandlerFunc func(ctx context.Context, conn *wsconn.Conn, err error)

type WSRouter struct {
	routes       map[string]HandlerFunc[[]byte]
	middlewares  []Middleware
	errorHandler ErrorHandlerFunc
}

func NewWSRouter() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc[[]byte])}
}

// Use appends middlewares. Must be called before Handle.
func (r *WSRouter) Use(mws ...Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *WSRouter) SetErrorHandler(h ErrorHandlerFunc) {
	r.errorHandler = h
}

// Handle registers a handler for a message type. The whole frame is decoded
// into T, so input structs declare the type-specific fields and ignore "type".
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	middlewares := r.middlewares

	erased := func(ctx context.Context, conn *wsconn.Conn, payload any) error {
		return handler(ctx, conn, payload.(T))
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		erased = middlewares[i](erased)
	}

	r.routes[messageType] = func(ctx context.Context, conn *wsconn.Conn, frame []byte) error {
		var input T
		if err := json.Unmarshal(frame, &input); err != nil {
			return fmt.Errorf("%w: %s", ErrMalformedMessage, err)
		}

		return erased(ctx, conn, input)
	}
}

// Dispatch routes a single frame. The returned error is also what ServeConn
// hands to the error handler.
func (r *WSRouter) Dispatch(ctx context.Context, conn *wsconn.Conn, frame []byte) error {
	var msg message
	if err := json.Unmarshal(frame, &msg); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedMessage, err)
	}

	route, ok := r.routes[msg.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}

	ctx = context.WithValue(ctx, messageTypeKey, msg.Type)

	return route(ctx, conn, frame)
}

// ServeConn reads frames until the transport fails. Dispatch errors are
// reported to the error handler and never end the loop.
func (r *WSRouter) ServeConn(ctx context.Context, conn *wsconn.Conn) error {
	for {
		frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		if err := r.Dispatch(ctx, conn, frame); err != nil {
			if r.errorHandler != nil {
				r.errorHandler(ctx, conn, err)
			}
		}
	}
}
