package jobs

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/nmamani/aymara-voices/pkg/logger"
)

var ErrQueueFull = errors.New("worker queue is full")

// Pool runs pipeline tasks on a fixed number of workers fed by a
// bounded queue. Submit never blocks; a full queue is the caller's
// problem to report.
type Pool struct {
	mu      sync.Mutex
	tasks   chan func()
	wg      sync.WaitGroup
	logger  logger.Logger
	stopped bool
}

func NewPool(workerCount, queueSize int, log logger.Logger) *Pool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	p := &Pool{
		tasks:  make(chan func(), queueSize),
		logger: log,
	}
	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.runTask(id, task)
	}
}

func (p *Pool) runTask(id int, task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Errorf("worker %d recovered from panic: %v", id, rec)
		}
	}()
	task()
}

// Submit enqueues a task for execution. It returns ErrQueueFull when
// the queue has no room and after Stop has been called. The mutex
// serializes enqueues against Stop closing the channel.
func (p *Pool) Submit(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return ErrQueueFull
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop rejects new tasks, drains the queue and waits for in-flight
// tasks to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
