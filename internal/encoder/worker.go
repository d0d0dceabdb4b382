package encoder

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/picoview/internal/logger"
)

// ErrEncoderClosed is returned by Send after the worker has stopped.
var ErrEncoderClosed = errors.New("encoder: closed")

// Queue sizes. Frames are small, a full recording fits in the inbox.
const (
	inboxSize  = 1024
	outboxSize = 4
)

// Worker owns the frames of the recording in progress and encodes them on
// its own goroutine.
type Worker struct {
	in   chan Request
	out  chan Response
	done chan struct{}

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	log     *zap.Logger
}

// NewWorker creates a worker that accepts requests once Run is called.
func NewWorker() *Worker {
	return &Worker{
		in:   make(chan Request, inboxSize),
		out:  make(chan Response, outboxSize),
		done: make(chan struct{}),
		log:  logger.Named("encoder"),
	}
}

// Start launches a worker on a new goroutine. It runs until ctx is done or
// Close is called.
func Start(ctx context.Context) *Worker {
	w := NewWorker()
	go func() { _ = w.Run(ctx) }()
	return w
}

// Send queues a request. Frame data is handed over, not copied.
func (w *Worker) Send(req Request) error {
	select {
	case <-w.done:
		return ErrEncoderClosed
	default:
	}
	select {
	case w.in <- req:
		return nil
	case <-w.done:
		return ErrEncoderClosed
	}
}

// Responses returns the channel of worker messages. It is closed when the
// worker stops.
func (w *Worker) Responses() <-chan Response {
	return w.out
}

// Close stops the worker and drops any frames it still holds. It waits for
// a running worker to exit.
func (w *Worker) Close() error {
	w.mu.Lock()
	started := w.started
	w.started = true
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()
	if started {
		<-w.done
	} else {
		close(w.done)
		close(w.out)
	}
	return nil
}

// Run serves requests until ctx is done or Close is called. It sends
// Loaded first. Run may be called once.
func (w *Worker) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return ErrEncoderClosed
	}
	w.started = true
	w.cancel = cancel
	w.mu.Unlock()

	defer close(w.out)
	defer close(w.done)

	if !w.emit(ctx, Loaded{}) {
		return nil
	}
	w.log.Debug("worker ready")

	var frames [][]byte
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-w.in:
			switch r := req.(type) {
			case Frame:
				frames = append(frames, r.Data)
			case *Frame:
				frames = append(frames, r.Data)
			case Generate:
				data := w.generate(frames, r)
				frames = nil
				if data != nil && !w.emit(ctx, GIF{Data: data}) {
					return nil
				}
			case *Generate:
				data := w.generate(frames, *r)
				frames = nil
				if data != nil && !w.emit(ctx, GIF{Data: data}) {
					return nil
				}
			default:
				w.log.Warn("unknown request", zap.String("type", req.Type()))
			}
		}
	}
}

func (w *Worker) generate(frames [][]byte, g Generate) []byte {
	data, skipped, err := Encode(frames, g)
	if skipped > 0 {
		w.log.Warn("skipped frames with wrong size",
			zap.Int("skipped", skipped),
			zap.Int("width", g.Width),
			zap.Int("height", g.Height))
	}
	if err != nil {
		w.log.Error("gif encoding failed", zap.Error(err), zap.Int("frames", len(frames)))
		return nil
	}
	w.log.Info("gif encoded",
		zap.Int("frames", len(frames)-skipped),
		zap.Int("bytes", len(data)),
		zap.Bool("paletted", g.Palette != nil))
	return data
}

func (w *Worker) emit(ctx context.Context, r Response) bool {
	select {
	case w.out <- r:
		return true
	case <-ctx.Done():
		return false
	}
}
