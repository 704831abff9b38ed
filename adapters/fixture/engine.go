package fixture

import (
	"context"
	"fmt"
	"sync"

	"chemgps/ports"
)

// Call is one recorded engine invocation.
type Call struct {
	Method string
	Args   []any
}

// Engine implements ports.Engine. Projects are taken from the registry first
// and otherwise read from disk as YAML.
type Engine struct {
	mu          sync.Mutex
	projects    map[string]*ProjectFile
	failures    map[string]error
	calls       []Call
	openCount   int
	livePredict int
}

// NewEngine creates an engine with an empty project registry.
func NewEngine() *Engine {
	return &Engine{
		projects: make(map[string]*ProjectFile),
		failures: make(map[string]error),
	}
}

// Register makes pf available under path without touching the filesystem.
func (e *Engine) Register(path string, pf *ProjectFile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.projects[path] = pf
}

// FailOn makes every later call of method return err. A nil err uses a
// generic engine message.
func (e *Engine) FailOn(method string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		err = fmt.Errorf("%s: engine call failed", method)
	}
	e.failures[method] = err
}

// Calls returns the recorded invocations of method.
func (e *Engine) Calls(method string) []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Call
	for _, c := range e.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// OpenProjects returns the number of projects not yet closed.
func (e *Engine) OpenProjects() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openCount
}

// LivePredictions returns the number of predictions not yet released.
func (e *Engine) LivePredictions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.livePredict
}

func (e *Engine) record(method string, args ...any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Method: method, Args: args})
	return e.failures[method]
}

func (e *Engine) SetLicensePath(path string) error {
	return e.record("SetLicensePath", path)
}

func (e *Engine) SetLogFile(path string) error {
	return e.record("SetLogFile", path)
}

func (e *Engine) UseMultiThreading(enable bool, cpus int) error {
	return e.record("UseMultiThreading", enable, cpus)
}

func (e *Engine) OpenProject(ctx context.Context, path string) (ports.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.record("OpenProject", path); err != nil {
		return nil, err
	}

	e.mu.Lock()
	pf, ok := e.projects[path]
	e.mu.Unlock()
	if !ok {
		var err error
		if pf, err = LoadProjectFile(path); err != nil {
			return nil, fmt.Errorf("failed open project %s: %w", path, err)
		}
	}

	e.mu.Lock()
	for _, method := range pf.Fail {
		if _, set := e.failures[method]; !set {
			e.failures[method] = fmt.Errorf("%s: engine call failed", method)
		}
	}
	e.openCount++
	e.mu.Unlock()

	return &project{engine: e, file: pf}, nil
}
