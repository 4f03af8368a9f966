package cleanup

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"scrutiny/internal/logging"
)

// Guard owns the working directories created for one run and removes each
// of them at most once, whichever exit path gets there first: normal
// completion, a propagated error, or an external termination signal.
type Guard struct {
	mu    sync.Mutex
	paths []string
}

// New returns an empty Guard.
func New() *Guard {
	return &Guard{}
}

// Register adds path to the set of directories the guard owns.
func (g *Guard) Register(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.paths = append(g.paths, path)
}

// Registered returns the paths the guard currently owns.
func (g *Guard) Registered() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.paths))
	copy(out, g.paths)
	return out
}

// Release removes every still-registered directory and forgets it. The
// registry is emptied under the lock before any removal starts, so two
// racing callers cannot remove the same path twice; calling Release again
// or releasing an already-deleted directory is a no-op.
func (g *Guard) Release() {
	g.mu.Lock()
	paths := g.paths
	g.paths = nil
	g.mu.Unlock()

	log := logging.New("cleanup")
	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil {
			log.Error("remove workdir", slog.String("path", p), slog.Any("error", err))
			continue
		}
		log.Debug("removed workdir", slog.String("path", p))
	}
}

// Notify installs a SIGINT/SIGTERM handler that releases every registered
// directory and then re-raises the signal so the process dies with the
// usual non-zero status. The returned stop function uninstalls the handler
// once the normal cleanup path has taken over.
func (g *Guard) Notify() (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logging.New("cleanup").Warn("termination requested, removing workdirs",
				slog.String("signal", sig.String()))
			g.Release()
			signal.Stop(sigCh)
			// Re-raise so the default handler runs and the exit status
			// reflects the interruption.
			p, _ := os.FindProcess(os.Getpid())
			_ = p.Signal(sig)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}
