package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minispec/visual/internal/logger"
)

const (
	DefaultHost        = "localhost"
	DefaultPort        = 6191
	DefaultContentType = "text/html"

	// RequestIDHeader carries the id given to every request, also found in the logs.
	RequestIDHeader = "X-Request-Id"
)

type ServeOpts struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	ContentType string `mapstructure:"content_type"`
	Watch       bool   `mapstructure:"watch"`
	// Debounce delays reloads while the watched file is being written.
	Debounce time.Duration `mapstructure:"debounce"`
}

// Server answers every request with the same content.
type Server struct {
	router      *gin.Engine
	server      *http.Server
	content     *Content
	contentType string

	mu        sync.Mutex
	addr      net.Addr
	listening chan struct{}
}

// NewServer creates a server for content. An empty host or content type falls back on its
// default, port 0 picks a free port.
func NewServer(opts ServeOpts, content *Content) *Server {
	gin.SetMode(gin.ReleaseMode)

	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.ContentType == "" {
		opts.ContentType = DefaultContentType
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	s := &Server{
		router:      router,
		content:     content,
		contentType: opts.ContentType,
		listening:   make(chan struct{}),
	}

	// A single handler: no route is ever registered, so every request ends up here.
	router.NoRoute(s.serveContent)

	s.server = &http.Server{
		Addr:              net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listening is closed once the server accepts connections.
func (s *Server) Listening() <-chan struct{} {
	return s.listening
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addr
}

// Start listens on the configured address and serves until Shutdown is called.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	s.mu.Lock()
	s.addr = listener.Addr()
	s.mu.Unlock()
	close(s.listening)

	logger.Infof("Server is running on http://%s", listener.Addr())

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Debugf("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	logger.Infof("Server stopped")

	return nil
}

func (s *Server) serveContent(c *gin.Context) {
	c.Data(http.StatusOK, s.contentType, s.content.Bytes())
}

// requestLogger gives every request an id and logs it once answered.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := uuid.NewString()
		c.Header(RequestIDHeader, id)

		c.Next()

		logger.Infof("Established connection! %s %s from %s: %d in %s (request %s)",
			c.Request.Method, c.Request.URL.Path, c.ClientIP(), c.Writer.Status(),
			time.Since(start).Round(time.Microsecond), id)
	}
}

// PrintInstructions explains how to reach a server started on a remote machine through an
// already open SSH session.
func PrintInstructions(w io.Writer, port int) {
	_, _ = fmt.Fprintf(w, `To access the server:
1. Press enter and type "~C" (no quotes) to open a command line inside of ssh.
2. Enter "-L %[1]d:127.0.0.1:%[1]d" (no quotes) to forward the webpage over ssh to your computer.
3. Press the enter key twice.
4. Open "http://localhost:%[1]d/" (no quotes) in your web browser on your computer.
`, port)
}
