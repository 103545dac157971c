package tasks

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Manager owns the periodic background tasks of a process (e.g. the emulator's token purge).
type Manager struct {
	tasks sync.Map

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (m *Manager) Register(def TaskDefinition) {
	task := &RunnableTask{
		Name:         def.Name,
		Interval:     def.Interval,
		Handler:      def.Handler,
		registeredAt: time.Now(),
	}
	m.tasks.Store(def.Name, task)

	if def.Interval > 0 {
		m.wg.Add(1)
		go m.scheduler(task)
	}
}

// Trigger runs the task once in the background.
func (m *Manager) Trigger(name string) error {
	task, err := m.get(name)
	if err != nil {
		return err
	}
	go task.Run(m.ctx)
	return nil
}

// RunNow runs the task synchronously and reports whether it actually ran.
func (m *Manager) RunNow(ctx context.Context, name string) (bool, error) {
	task, err := m.get(name)
	if err != nil {
		return false, err
	}
	return task.Run(ctx), nil
}

func (m *Manager) ListStatus() []TaskStatus {
	var list []TaskStatus
	m.tasks.Range(func(_, value any) bool {
		list = append(list, value.(*RunnableTask).Status())
		return true
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

func (m *Manager) GetLogs(name string) ([]LogEntry, error) {
	task, err := m.get(name)
	if err != nil {
		return nil, err
	}
	return task.GetLogs(), nil
}

// Stop ends all schedulers and waits for them.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *Manager) get(name string) (*RunnableTask, error) {
	t, ok := m.tasks.Load(name)
	if !ok {
		return nil, TaskNotFoundError{Name: name}
	}
	return t.(*RunnableTask), nil
}

func (m *Manager) scheduler(task *RunnableTask) {
	defer m.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			task.Run(m.ctx)
		}
	}
}
