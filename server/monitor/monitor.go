package monitor

import (
	"sync"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/log"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/nn"
)

// Frame is one observation delivered to a session: an opaque reference to the
// underlying image, its timestamp, and the person boxes detected in it.
// Detections must already be filtered (confidence, area) before they get here.
type Frame struct {
	Key        string // storage key or any opaque reference to the source image
	PTS        int64  // unix milliseconds
	Detections []nn.Detection
}

// Monitor owns the live sessions. Every session gets a dedicated goroutine,
// so the frames of one session are always applied strictly in arrival order,
// while independent sessions progress in parallel. All state that matters
// (tracker, alert machine) lives inside the session and is touched only by
// its own goroutine.
type Monitor struct {
	Log    log.Log
	params Params

	lock     sync.Mutex // guards sessions
	sessions map[string]*sessionWorker
}

type frameJob struct {
	frame  Frame
	result chan FrameResult
}

type sessionWorker struct {
	session *Session
	queue   chan frameJob
	done    chan bool
}

func NewMonitor(logger log.Log, params Params) *Monitor {
	return &Monitor{
		Log:      logger,
		params:   params,
		sessions: map[string]*sessionWorker{},
	}
}

// Process feeds one frame into the named session, creating the session if this
// is its first frame, and blocks until the frame has been applied.
// Calls for different sessions never block each other.
func (m *Monitor) Process(sessionName string, frame Frame) FrameResult {
	w := m.worker(sessionName)
	job := frameJob{
		frame:  frame,
		result: make(chan FrameResult, 1),
	}
	w.queue <- job
	return <-job.result
}

// EndSession tears down the named session and discards its state.
// It is a no-op if the session does not exist.
func (m *Monitor) EndSession(sessionName string) {
	m.lock.Lock()
	w := m.sessions[sessionName]
	delete(m.sessions, sessionName)
	m.lock.Unlock()
	if w != nil {
		close(w.queue)
		<-w.done
	}
}

// Close shuts down all sessions.
func (m *Monitor) Close() {
	m.lock.Lock()
	workers := make([]*sessionWorker, 0, len(m.sessions))
	for _, w := range m.sessions {
		workers = append(workers, w)
	}
	m.sessions = map[string]*sessionWorker{}
	m.lock.Unlock()

	for _, w := range workers {
		close(w.queue)
		<-w.done
	}
}

func (m *Monitor) worker(sessionName string) *sessionWorker {
	m.lock.Lock()
	defer m.lock.Unlock()
	if w := m.sessions[sessionName]; w != nil {
		return w
	}
	w := &sessionWorker{
		session: NewSession(m.Log, sessionName, m.params),
		queue:   make(chan frameJob, 10),
		done:    make(chan bool),
	}
	m.sessions[sessionName] = w
	go w.run()
	return w
}

func (w *sessionWorker) run() {
	for job := range w.queue {
		job.result <- w.session.ProcessFrame(job.frame)
	}
	close(w.done)
}
