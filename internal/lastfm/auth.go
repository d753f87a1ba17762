package lastfm

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"
)

// DefaultCallbackAddr is the local address of the auth callback server.
const DefaultCallbackAddr = "127.0.0.1:9847"

var callbackPage = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head><title>starchart - Last.fm</title></head>
<body style="font-family: sans-serif; text-align: center; padding: 50px;">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
</body>
</html>`))

// CallbackServer receives the token Last.fm appends to the callback URL
// once the listener has authorized the application.
type CallbackServer struct {
	server *http.Server
	ln     net.Listener
	tokens chan string
	done   chan struct{}
}

// ListenCallback starts a CallbackServer on addr. Port 0 picks a free port.
func ListenCallback(addr string) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	s := &CallbackServer{
		ln:     ln,
		tokens: make(chan string, 1),
		done:   make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /callback", s.handle)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer close(s.done)
		_ = s.server.Serve(ln)
	}()
	return s, nil
}

func (s *CallbackServer) handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	page := struct{ Title, Message string }{
		Title:   "Account linked",
		Message: "You can close this window and return to your terminal.",
	}
	if token == "" {
		w.WriteHeader(http.StatusBadRequest)
		page.Title = "Authorization failed"
		page.Message = "No token received. Run starchart auth again."
	}
	_ = callbackPage.Execute(w, page)

	if token == "" {
		return
	}
	select {
	case s.tokens <- token:
	default:
	}
}

// URL returns the callback URL to hand to Last.fm.
func (s *CallbackServer) URL() string {
	return "http://" + s.ln.Addr().String() + "/callback"
}

// Tokens delivers the first token received.
func (s *CallbackServer) Tokens() <-chan string {
	return s.tokens
}

// Close stops the server.
func (s *CallbackServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	<-s.done
	return err
}

// WaitForToken blocks until a token arrives, the timeout elapses or ctx is
// done. An empty token means no authorization arrived.
func WaitForToken(ctx context.Context, tokens <-chan string, timeout time.Duration) string {
	select {
	case token := <-tokens:
		return token
	case <-time.After(timeout):
		return ""
	case <-ctx.Done():
		return ""
	}
}

// OpenBrowser opens url in the default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
