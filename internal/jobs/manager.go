package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vrsandeep/animelist/internal/config"
	"github.com/vrsandeep/animelist/internal/logging"
	"github.com/vrsandeep/animelist/internal/store"
	"github.com/vrsandeep/animelist/internal/websocket"
)

// JobContext provides the dependencies a job needs to run.
// The core.App struct implements this interface.
type JobContext interface {
	Store() *store.Store
	Config() *config.Config
	WsHub() *websocket.Hub
	JobManager() *JobManager
}

type jobTask func(ctx JobContext) error

type JobStatus struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"` // "idle", "running", "success", "failed"
	Message   string    `json:"message"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
}

type JobManager struct {
	mu      sync.Mutex
	jobs    map[string]jobTask
	status  map[string]*JobStatus
	running bool
	appCtx  JobContext
}

func NewManager(appCtx JobContext) *JobManager {
	return &JobManager{
		jobs:   make(map[string]jobTask),
		status: make(map[string]*JobStatus),
		appCtx: appCtx,
	}
}

func (jm *JobManager) Register(name string, task jobTask) {
	jm.mu.Lock()
	defer jm.mu.Unlock()
	jm.jobs[name] = task
	jm.status[name] = &JobStatus{Name: name, Status: "idle"}
}

// RunJob starts the named job in the background. Only one job runs at a time.
func (jm *JobManager) RunJob(name string, ctx JobContext) error {
	if ctx == nil {
		ctx = jm.appCtx
	}

	jm.mu.Lock()
	if jm.running {
		jm.mu.Unlock()
		return fmt.Errorf("a job is already running")
	}

	task, ok := jm.jobs[name]
	if !ok {
		jm.mu.Unlock()
		return fmt.Errorf("job '%s' not found", name)
	}

	jm.running = true
	status := jm.status[name]
	status.Status = "running"
	status.StartTime = time.Now()
	status.EndTime = time.Time{}
	status.Message = "Job started..."
	jm.mu.Unlock()

	logging.Info().Str("job", name).Msg("Starting job")
	go func() {
		var taskErr error
		defer func() {
			r := recover()

			jm.mu.Lock()
			status.EndTime = time.Now()
			switch {
			case r != nil:
				logging.Error().Str("job", name).Interface("panic", r).Msg("Job panicked")
				status.Status = "failed"
				status.Message = fmt.Sprintf("Job panicked: %v", r)
			case taskErr != nil:
				logging.Error().Err(taskErr).Str("job", name).Msg("Job failed")
				status.Status = "failed"
				status.Message = taskErr.Error()
			default:
				status.Status = "success"
				status.Message = "Job completed successfully."
			}
			jm.running = false
			jm.mu.Unlock()
			logging.Info().Str("job", name).Msg("Finished job")
		}()

		taskErr = task(ctx)
	}()
	return nil
}

// GetStatus returns a snapshot of every registered job, ordered by name.
func (jm *JobManager) GetStatus() []JobStatus {
	jm.mu.Lock()
	defer jm.mu.Unlock()

	statuses := make([]JobStatus, 0, len(jm.status))
	for _, s := range jm.status {
		statuses = append(statuses, *s)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses
}
