package server

import (
	"net/http"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/contract"
	"github.com/alexanderramin/weekplan/internal/domain"
)

// handleListWeeks lists all weeks, or those overlapping ?startDate=&endDate=
// when both are given.
func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		weeks []domain.Week
		err   error
	)
	if q.Get("startDate") != "" && q.Get("endDate") != "" {
		start, perr := domain.ParseDate(q.Get("startDate"))
		if perr != nil {
			s.writeError(w, r, perr)
			return
		}
		end, perr := domain.ParseDate(q.Get("endDate"))
		if perr != nil {
			s.writeError(w, r, perr)
			return
		}
		weeks, err = s.weeks.ListInRange(r.Context(), userID(r), start, end)
	} else {
		weeks, err = s.weeks.List(r.Context(), userID(r))
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.WeeksToDTO(weeks))
}

func (s *Server) handleCreateWeek(w http.ResponseWriter, r *http.Request) {
	var body contract.CreateWeekRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	start, err := domain.ParseDate(body.StartDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	end, err := domain.ParseDate(body.EndDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	week, err := s.weeks.Create(r.Context(), userID(r), app.CreateWeekRequest{Start: start, End: end, Theme: body.Theme})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract.WeekToDTO(*week))
}

// handleCurrentWeek uses ?date= when given, otherwise today.
func (s *Server) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	at := s.now()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := domain.ParseDate(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		at = d
	}
	week, err := s.weeks.Current(r.Context(), userID(r), at)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.WeekToDTO(*week))
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	week, err := s.weeks.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.WeekToDTO(*week))
}

func (s *Server) handleWeekStats(w http.ResponseWriter, r *http.Request) {
	ws, err := s.weeks.GetWithStats(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.WeekWithStatsToDTO(*ws))
}

func (s *Server) handleUpdateWeek(w http.ResponseWriter, r *http.Request) {
	var body contract.UpdateWeekRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	week, err := s.weeks.Update(r.Context(), userID(r), r.PathValue("id"), domain.WeekPatch{Theme: body.Theme})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.WeekToDTO(*week))
}

func (s *Server) handleDeleteWeek(w http.ResponseWriter, r *http.Request) {
	if err := s.weeks.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	day, err := s.weeks.GetDay(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.DayToDTO(*day))
}

func (s *Server) handleUpdateDay(w http.ResponseWriter, r *http.Request) {
	var body contract.UpdateDayRequest
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	day, err := s.weeks.UpdateDay(r.Context(), userID(r), r.PathValue("id"), domain.DayPatch{Theme: body.Theme, FocusMetric: body.FocusMetric})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.DayToDTO(*day))
}
