// Package player mounts trailers in an external mpv process.
package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/Terence890/Nebula-Stream/frontend/trailer"
)

const DefaultBinary = "mpv"

// Error codes reported through onError. CodeUnavailable matches the
// provider's "embedding disallowed" code so the overlay points the viewer to
// the external link.
const (
	CodeUnavailable = 150
	CodePlayback    = 5
)

var (
	ErrNotFound  = errors.New("player binary not found")
	ErrMounted   = errors.New("player already mounted")
	ErrDestroyed = errors.New("player destroyed")
)

// DefaultArgs are passed to mpv ahead of the video URL.
var DefaultArgs = []string{
	"--no-terminal",
	"--force-window=immediate",
	"--ytdl-format=bestvideo[height<=1080]+bestaudio/best",
}

type Config struct {
	// Binary is the player executable; empty means mpv on PATH.
	Binary string
	// Args replaces DefaultArgs when non-nil.
	Args []string
}

// MPV plays one video in a child process. It is single use: once destroyed
// it cannot be mounted again.
type MPV struct {
	binary  string
	args    []string
	onError func(code int)

	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	destroyed bool
}

var _ trailer.Player = (*MPV)(nil)

func New(cfg Config, onError func(code int)) *MPV {
	binary := strings.TrimSpace(cfg.Binary)
	if binary == "" {
		binary = DefaultBinary
	}
	args := cfg.Args
	if args == nil {
		args = DefaultArgs
	}
	return &MPV{binary: binary, args: append([]string(nil), args...), onError: onError}
}

// NewFactory adapts Config into the overlay's player factory.
func NewFactory(cfg Config) trailer.PlayerFactory {
	return func(onError func(code int)) trailer.Player {
		return New(cfg, onError)
	}
}

// Mount starts the player on the YouTube video id.
func (p *MPV) Mount(videoID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.destroyed {
		return ErrDestroyed
	}
	if p.done != nil {
		return ErrMounted
	}

	path, err := exec.LookPath(p.binary)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, p.binary)
	}

	ctx, cancel := context.WithCancel(context.Background())
	args := append(append([]string(nil), p.args...), trailer.WatchURL(videoID))
	cmd := exec.CommandContext(ctx, path, args...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start %s: %w", p.binary, err)
	}
	log.Printf("[player] started %s (pid %d) for %s", p.binary, cmd.Process.Pid, videoID)

	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	go p.wait(ctx, cmd, stderr, done)
	return nil
}

func (p *MPV) wait(ctx context.Context, cmd *exec.Cmd, stderr *bytes.Buffer, done chan struct{}) {
	err := cmd.Wait()
	close(done)

	// killed by Destroy
	if ctx.Err() != nil || err == nil {
		return
	}

	code := Classify(stderr.String())
	log.Printf("[player] %s exited: %v (code %d): %s", p.binary, err, code, strings.TrimSpace(lastLine(stderr.String())))
	if p.onError != nil {
		p.onError(code)
	}
}

// Destroy kills the process, if any, and waits for it to exit.
func (p *MPV) Destroy() {
	p.mu.Lock()
	p.destroyed = true
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Done is closed when the mounted process exits. It is nil before Mount.
func (p *MPV) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		return nil
	}
	return p.done
}

// Classify maps the player's stderr onto an overlay error code.
func Classify(stderr string) int {
	lower := strings.ToLower(stderr)
	for _, marker := range []string{"video unavailable", "embedding", "private video", "sign in to confirm", "not available"} {
		if strings.Contains(lower, marker) {
			return CodeUnavailable
		}
	}
	return CodePlayback
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// OpenURL hands url to the desktop's default handler.
func OpenURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	go cmd.Wait()
	return nil
}
