package server

import (
	"net/http"
	"strconv"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/contract"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// taskFilter reads ?dayId=&swimlane=&unassigned= with wire-form swimlanes.
func taskFilter(r *http.Request) (app.TaskFilter, error) {
	q := r.URL.Query()
	f := app.TaskFilter{DayID: q.Get("dayId")}
	lane, err := contract.ParseSwimlane(contract.Swimlane(q.Get("swimlane")))
	if err != nil {
		return f, err
	}
	f.Swimlane = lane
	if v := q.Get("unassigned"); v != "" {
		if f.Unassigned, err = strconv.ParseBool(v); err != nil {
			return f, &domain.ValidationError{Field: "unassigned", Message: "must be a boolean"}
		}
	}
	return f, nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	filter, err := taskFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tasks, err := s.tasks.List(r.Context(), userID(r), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TasksToDTO(tasks))
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body contract.CreateTaskRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	fields, err := contract.CreateRequestToFields(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.tasks.Create(r.Context(), userID(r), fields)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract.TaskToDTO(*task))
}

func (s *Server) handleTaskStatistics(w http.ResponseWriter, r *http.Request) {
	filter, err := taskFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stats, err := s.tasks.Statistics(r.Context(), userID(r), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.StatisticsToDTO(stats))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TaskToDTO(*task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var body contract.UpdateTaskRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch, err := contract.UpdateRequestToPatch(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.tasks.Update(r.Context(), userID(r), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TaskToDTO(*task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	var body contract.AssignTaskRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := contract.RequestToAssignment(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.tasks.Assign(r.Context(), userID(r), r.PathValue("id"), a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TaskToDTO(*task))
}

func (s *Server) handleReorderTask(w http.ResponseWriter, r *http.Request) {
	var body contract.ReorderTaskRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.tasks.Reorder(r.Context(), userID(r), r.PathValue("id"), body.Position)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TaskToDTO(*task))
}
