package evhttpd

import (
	"os"
	"sync"
)

// afrEntry is one open file's prefetch state. entry.mu guards buffer/eof
// against the producer goroutine appending while the consuming conn drains;
// it is a distinct lock from afr.mu so a producer disk read holds up only a
// read() of the same entry, never the shared queue or other entries,
// mirroring async_file_reader.py's per-descriptor lock.
type afrEntry struct {
	mu     sync.Mutex
	fd     int
	file   *os.File
	buffer []byte
	read   int64
	eof    bool
}

// afr is the asynchronous file reader: a single dedicated background
// goroutine that prefetches file content into per-connection buffers
// bounded by a high-water mark, so the reactor goroutine never blocks on
// disk I/O. Spec.md §4.5.
type afr struct {
	ioBufSize     int
	highWaterMark int64

	mu      sync.Mutex
	cond    *sync.Cond
	readers map[int]*afrEntry
	taskSet map[int]bool
	tasks   []*afrEntry
	running bool
	done    chan struct{}
}

func newAFR(ioBufSize int, highWaterMark int64) *afr {
	a := &afr{
		ioBufSize:     ioBufSize,
		highWaterMark: highWaterMark,
		readers:       make(map[int]*afrEntry),
		taskSet:       make(map[int]bool),
		done:          make(chan struct{}),
	}
	a.cond = sync.NewCond(&a.mu)
	return a
}

// start launches the producer goroutine. Call once, before any register.
func (a *afr) start() {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()
	go a.run()
}

// register attaches file under fd and queues it for an initial prefetch
// pass. fd need not be the file's own descriptor; callers key by the
// connection's socket fd since that is what read/unregister are called
// with.
func (a *afr) register(fd int, file *os.File) {
	entry := &afrEntry{fd: fd, file: file}
	a.mu.Lock()
	a.readers[fd] = entry
	a.taskSet[fd] = true
	a.tasks = append(a.tasks, entry)
	a.cond.Signal()
	a.mu.Unlock()
}

// unregister cancels prefetching for fd. The underlying file is closed by
// the producer no later than its next pass over this entry, not
// synchronously here, since the producer may be mid-read on it. If the
// entry is currently idle (dropped from the task queue after hitting
// HighWaterMark), it is re-enqueued here so the producer actually gets a
// next pass to observe eof and close the file — otherwise it would sit
// forever in a queue the producer is done polling.
func (a *afr) unregister(fd int) {
	a.mu.Lock()
	entry, ok := a.readers[fd]
	if ok {
		delete(a.readers, fd)
	}
	a.mu.Unlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	entry.eof = true
	entry.mu.Unlock()

	a.mu.Lock()
	if !a.taskSet[fd] {
		a.taskSet[fd] = true
		a.tasks = append(a.tasks, entry)
		a.cond.Signal()
	}
	a.mu.Unlock()
}

// read drains whatever fd's entry has buffered since the last call. The
// returned eof is true once the file has been fully read (or cancelled);
// callers must treat the returned bytes as the final chunk when eof is
// true. If fd is not registered (never registered, or already drained to
// eof by a prior call), read returns (nil, true).
func (a *afr) read(fd int) ([]byte, bool) {
	a.mu.Lock()
	entry, ok := a.readers[fd]
	a.mu.Unlock()
	if !ok {
		return nil, true
	}

	entry.mu.Lock()
	buf := entry.buffer
	entry.buffer = nil
	eof := entry.eof
	entry.mu.Unlock()

	if eof {
		a.mu.Lock()
		delete(a.readers, fd)
		a.mu.Unlock()
		return buf, true
	}

	a.mu.Lock()
	if !a.taskSet[fd] {
		a.taskSet[fd] = true
		a.tasks = append(a.tasks, entry)
		a.cond.Signal()
	}
	a.mu.Unlock()
	return buf, false
}

// finish stops the producer goroutine, closes any files it did not get to
// before stopping, and clears all state. Idempotent is not required: it is
// called exactly once, from Engine.Close.
func (a *afr) finish() {
	a.mu.Lock()
	for _, entry := range a.readers {
		entry.mu.Lock()
		entry.eof = true
		entry.mu.Unlock()
	}
	a.running = false
	a.cond.Signal()
	a.mu.Unlock()

	<-a.done

	a.mu.Lock()
	for _, entry := range a.readers {
		entry.mu.Lock()
		_ = entry.file.Close()
		entry.mu.Unlock()
	}
	// Entries already dropped from readers by unregister may still sit in
	// the task queue; the producer has stopped, so close their files here.
	for _, entry := range a.tasks {
		entry.mu.Lock()
		_ = entry.file.Close()
		entry.mu.Unlock()
	}
	a.readers = make(map[int]*afrEntry)
	a.taskSet = make(map[int]bool)
	a.tasks = nil
	a.mu.Unlock()
}

// run is the producer loop: pop one entry, read at most one IO_BUF_SIZE
// chunk from it, then either requeue it (more to read, under the
// high-water mark) or drop it from the task set (caught up with the
// consumer, or EOF). The file is closed here, on the producer side, the
// instant EOF or cancellation is observed; the bookkeeping entry is removed
// only on the consumer side, by read() once it sees eof=true or by
// unregister.
func (a *afr) run() {
	defer close(a.done)
	for {
		a.mu.Lock()
		for a.running && len(a.tasks) == 0 {
			a.cond.Wait()
		}
		if !a.running {
			a.mu.Unlock()
			return
		}
		entry := a.tasks[0]
		a.tasks = a.tasks[1:]
		a.mu.Unlock()

		entry.mu.Lock()
		if !entry.eof {
			chunk := make([]byte, a.ioBufSize)
			n, rerr := entry.file.Read(chunk)
			if n > 0 {
				entry.buffer = append(entry.buffer, chunk[:n]...)
				entry.read += int64(n)
			}
			if n == 0 || rerr != nil {
				entry.eof = true
			}
		}
		eof := entry.eof
		bufLen := int64(len(entry.buffer))
		if eof {
			_ = entry.file.Close()
		}
		entry.mu.Unlock()

		a.mu.Lock()
		if !eof && bufLen < a.highWaterMark {
			a.tasks = append(a.tasks, entry)
		} else {
			delete(a.taskSet, entry.fd)
		}
		a.mu.Unlock()
	}
}
