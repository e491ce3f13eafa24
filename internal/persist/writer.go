package persist

import (
	"context"
	"sync"

	"github.com/idilsaglam/todolist/internal/model"
)

// Result reports the outcome of one queued write.
type Result struct {
	Seq   uint64
	Purge bool
	Items int
	Err   error
}

type job struct {
	seq     uint64
	list    model.List
	purge   bool
	barrier chan struct{}
}

// Writer applies snapshot writes on a single background goroutine, in the
// order they were enqueued. Enqueue never blocks on storage. A failed write
// is logged by the adapter, reported to the result hook, and not retried.
type Writer struct {
	adapter *Adapter

	mu       sync.Mutex
	queue    []job
	seq      uint64
	closed   bool
	onResult func(Result)

	wake chan struct{}
	done chan struct{}
}

// NewWriter starts the background goroutine. Call Close to stop it.
func NewWriter(adapter *Adapter) *Writer {
	w := &Writer{
		adapter: adapter,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Adapter returns the adapter writes go through.
func (w *Writer) Adapter() *Adapter { return w.adapter }

// OnResult installs a hook called after every write attempt, on the writer
// goroutine, and returns the hook it replaced. Pass nil to remove it.
func (w *Writer) OnResult(fn func(Result)) func(Result) {
	w.mu.Lock()
	prev := w.onResult
	w.onResult = fn
	w.mu.Unlock()
	return prev
}

// Enqueue queues a full snapshot of list and returns its sequence number.
// It returns 0 once the writer is closed.
func (w *Writer) Enqueue(list model.List) uint64 {
	return w.push(job{list: list.Clone()})
}

// EnqueuePurge queues deletion of the snapshot.
func (w *Writer) EnqueuePurge() uint64 {
	return w.push(job{purge: true})
}

func (w *Writer) push(j job) uint64 {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.adapter.logger.Warn().Bool("purge", j.purge).Msg("write dropped, writer closed")
		return 0
	}
	w.seq++
	j.seq = w.seq
	w.queue = append(w.queue, j)
	w.mu.Unlock()
	w.signal()
	return j.seq
}

// Flush blocks until every write enqueued before the call has been attempted,
// or ctx is done.
func (w *Writer) Flush(ctx context.Context) error {
	barrier := make(chan struct{})
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		select {
		case <-w.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	w.queue = append(w.queue, job{barrier: barrier})
	w.mu.Unlock()
	w.signal()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting writes, drains the queue and waits for the goroutine.
func (w *Writer) Close() error {
	w.mu.Lock()
	already := w.closed
	w.closed = true
	w.mu.Unlock()
	if !already {
		w.signal()
	}
	<-w.done
	return nil
}

func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Writer) run() {
	defer close(w.done)
	for {
		<-w.wake
		for {
			w.mu.Lock()
			jobs := w.queue
			w.queue = nil
			closed := w.closed
			w.mu.Unlock()

			if len(jobs) == 0 {
				if closed {
					return
				}
				break
			}
			for _, j := range jobs {
				w.apply(j)
			}
		}
	}
}

func (w *Writer) apply(j job) {
	if j.barrier != nil {
		close(j.barrier)
		return
	}

	ctx := context.Background()
	res := Result{Seq: j.seq, Purge: j.purge, Items: len(j.list)}
	if j.purge {
		res.Err = w.adapter.Purge(ctx)
	} else {
		res.Err = w.adapter.Save(ctx, j.list)
	}

	w.mu.Lock()
	fn := w.onResult
	w.mu.Unlock()
	if fn != nil {
		fn(res)
	}
}
