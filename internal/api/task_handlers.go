package api

import (
	"net/http"

	"github.com/darmiel/mcauth/internal/api/presenter"
	"github.com/darmiel/mcauth/internal/yggdrasil"
)

// handleListTasks responds with the list of tasks and their statuses.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	if s.taskManager == nil {
		presenter.JSON(w, r, []any{}, http.StatusOK)
		return
	}
	presenter.JSON(w, r, s.taskManager.ListStatus(), http.StatusOK)
}

type TriggerTaskResponse struct {
	Status string `json:"status"`
}

// handleTriggerTask triggers a specific task by its name.
func (s *Server) handleTriggerTask(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.taskManager == nil {
		presenter.Error(w, r, yggdrasil.ResourceException, "no tasks registered", http.StatusNotFound)
		return
	}
	if err := s.taskManager.Trigger(name); err != nil {
		presenter.Error(w, r, yggdrasil.ResourceException, err.Error(), http.StatusNotFound)
		return
	}
	presenter.JSON(w, r, TriggerTaskResponse{
		Status: "triggered",
	}, http.StatusOK)
}

// handleLogsForTask retrieves logs for a specific task.
func (s *Server) handleLogsForTask(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if s.taskManager == nil {
		presenter.Error(w, r, yggdrasil.ResourceException, "no tasks registered", http.StatusNotFound)
		return
	}
	logs, err := s.taskManager.GetLogs(name)
	if err != nil {
		presenter.Error(w, r, yggdrasil.ResourceException, err.Error(), http.StatusNotFound)
		return
	}
	presenter.JSON(w, r, logs, http.StatusOK)
}
