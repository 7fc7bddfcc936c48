package server

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/soar/padcheck/internal/hub"
	"github.com/soar/padcheck/internal/session"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	session     *session.Session
	frontendFS  fs.FS
	addr        string
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, s *session.Session, frontendFS fs.FS, addr string) *Server {
	return &Server{
		hub:         h,
		broadcaster: b,
		session:     s,
		frontendFS:  frontendFS,
		addr:        addr,
	}
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.session))

	mux.HandleFunc("GET /api/devices", handleDevices(s.session))
	mux.HandleFunc("GET /api/circularity", handleCircularity(s.session))

	// Static files (frontend), minified on the way out
	fileServer := http.FileServer(http.FS(s.frontendFS))
	mux.Handle("/", newMinifier().Middleware(fileServer))

	return mux
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return m
}

func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	log.Printf("HTTP server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		log.Println("Shutting down HTTP server...")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
