//go:build !linux

package mpris

import "go.uber.org/zap"

// Server is a no-op on non-Linux platforms.
type Server struct{}

// New returns a no-op server on non-Linux platforms.
func New(_ *Bridge, _ *zap.Logger) (*Server, error) {
	return &Server{}, nil
}

// Close is a no-op on non-Linux platforms.
func (s *Server) Close() error {
	return nil
}
