package contract

import (
	"fmt"
	"time"

	"github.com/alexanderramin/weekplan/internal/domain"
)

func TaskToDTO(t domain.Task) TaskDTO {
	dto := TaskDTO{
		ID:                       t.ID,
		Title:                    t.Title,
		Category:                 ToWireCategory(t.Category),
		Energy:                   ToWireEnergy(t.Energy),
		Status:                   ToWireStatus(t.Status),
		DurationMinutes:          t.DurationMinutes,
		Order:                    t.Order,
		TargetOccurrencesPerWeek: t.TargetOccurrencesPerWeek,
		CompletedAt:              t.CompletedAt,
	}
	if t.DayID != "" {
		dto.DayID = &t.DayID
	}
	if t.Swimlane != "" {
		lane := ToWireSwimlane(t.Swimlane)
		dto.Swimlane = &lane
	}
	if t.Notes != "" {
		dto.Notes = &t.Notes
	}
	return dto
}

// TaskFromDTO never fails; unknown enums take their defaults. A task whose
// lane is missing or unknown is treated as unscheduled so placement stays
// all-or-nothing.
func TaskFromDTO(dto TaskDTO) domain.Task {
	t := domain.Task{
		ID:                       dto.ID,
		Title:                    dto.Title,
		Category:                 FromWireCategory(dto.Category),
		Energy:                   FromWireEnergy(dto.Energy),
		Status:                   FromWireStatus(dto.Status),
		DurationMinutes:          dto.DurationMinutes,
		Order:                    dto.Order,
		TargetOccurrencesPerWeek: dto.TargetOccurrencesPerWeek,
		CompletedAt:              dto.CompletedAt,
	}
	if dto.Notes != nil {
		t.Notes = *dto.Notes
	}
	if dto.DayID != nil && dto.Swimlane != nil {
		if lane := FromWireSwimlane(*dto.Swimlane); lane != "" {
			t.DayID, t.Swimlane = *dto.DayID, lane
		}
	}
	return t
}

func TasksFromDTO(dtos []TaskDTO) []domain.Task {
	out := make([]domain.Task, len(dtos))
	for i, d := range dtos {
		out[i] = TaskFromDTO(d)
	}
	return out
}

func TasksToDTO(tasks []domain.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = TaskToDTO(t)
	}
	return out
}

func FieldsToCreateRequest(f domain.TaskFields) CreateTaskRequest {
	req := CreateTaskRequest{
		Title:                    f.Title,
		Category:                 ToWireCategory(f.Category),
		Energy:                   ToWireEnergy(f.Energy),
		DurationMinutes:          f.DurationMinutes,
		Notes:                    f.Notes,
		TargetOccurrencesPerWeek: f.TargetOccurrencesPerWeek,
		DayID:                    f.DayID,
		Swimlane:                 ToWireSwimlane(f.Swimlane),
	}
	if f.Status != "" {
		req.Status = ToWireStatus(f.Status)
	}
	return req
}

func CreateRequestToFields(req CreateTaskRequest) (domain.TaskFields, error) {
	f := domain.TaskFields{
		Title:                    req.Title,
		DurationMinutes:          req.DurationMinutes,
		Notes:                    req.Notes,
		TargetOccurrencesPerWeek: req.TargetOccurrencesPerWeek,
		DayID:                    req.DayID,
	}
	var err error
	if f.Category, err = ParseCategory(req.Category); err != nil {
		return f, err
	}
	if f.Energy, err = ParseEnergy(req.Energy); err != nil {
		return f, err
	}
	if req.Status != "" {
		if f.Status, err = ParseStatus(req.Status); err != nil {
			return f, err
		}
	}
	if f.Swimlane, err = ParseSwimlane(req.Swimlane); err != nil {
		return f, err
	}
	return f, nil
}

func PatchToUpdateRequest(p domain.TaskPatch) UpdateTaskRequest {
	req := UpdateTaskRequest{
		Title:                    p.Title,
		DurationMinutes:          p.DurationMinutes,
		Notes:                    p.Notes,
		TargetOccurrencesPerWeek: p.TargetOccurrencesPerWeek,
	}
	if p.Category != nil {
		c := ToWireCategory(*p.Category)
		req.Category = &c
	}
	if p.Energy != nil {
		e := ToWireEnergy(*p.Energy)
		req.Energy = &e
	}
	if p.Status != nil {
		s := ToWireStatus(*p.Status)
		req.Status = &s
	}
	return req
}

func UpdateRequestToPatch(req UpdateTaskRequest) (domain.TaskPatch, error) {
	p := domain.TaskPatch{
		Title:                    req.Title,
		DurationMinutes:          req.DurationMinutes,
		Notes:                    req.Notes,
		TargetOccurrencesPerWeek: req.TargetOccurrencesPerWeek,
	}
	if req.Category != nil {
		c, err := ParseCategory(*req.Category)
		if err != nil {
			return p, err
		}
		p.Category = &c
	}
	if req.Energy != nil {
		e, err := ParseEnergy(*req.Energy)
		if err != nil {
			return p, err
		}
		p.Energy = &e
	}
	if req.Status != nil {
		s, err := ParseStatus(*req.Status)
		if err != nil {
			return p, err
		}
		p.Status = &s
	}
	return p, nil
}

func AssignmentToRequest(a domain.Assignment) AssignTaskRequest {
	return AssignTaskRequest{DayID: a.DayID, Swimlane: ToWireSwimlane(a.Swimlane), Order: a.Order}
}

func RequestToAssignment(req AssignTaskRequest) (domain.Assignment, error) {
	lane, err := ParseSwimlane(req.Swimlane)
	if err != nil {
		return domain.Assignment{}, err
	}
	return domain.Assignment{DayID: req.DayID, Swimlane: lane, Order: req.Order}, nil
}

func StatisticsToDTO(s domain.TaskStatistics) TaskStatisticsDTO {
	return TaskStatisticsDTO(s)
}

func StatisticsFromDTO(dto TaskStatisticsDTO) domain.TaskStatistics {
	return domain.TaskStatistics(dto)
}

func WeekToDTO(w domain.Week) WeekDTO {
	dto := WeekDTO{
		ID:         w.ID,
		WeekNumber: w.WeekNumber,
		StartDate:  w.Start.Format(domain.DateLayout),
		EndDate:    w.End.Format(domain.DateLayout),
		Theme:      optional(w.Theme),
		Days:       make([]DayDTO, len(w.Days)),
	}
	for i, d := range w.Days {
		dto.Days[i] = DayToDTO(d)
	}
	return dto
}

// DayToDTO numbers days Sunday=0 through Saturday=6.
func DayToDTO(d domain.Day) DayDTO {
	dto := DayDTO{
		ID:          d.ID,
		Date:        d.Date,
		Theme:       optional(d.Theme),
		FocusMetric: optional(d.FocusMetric),
	}
	if date, err := domain.ParseDate(d.Date); err == nil {
		dto.DayOfWeek = int(date.Weekday())
	}
	return dto
}

// WeekFromDTO fails only on malformed dates.
func WeekFromDTO(dto WeekDTO) (domain.Week, error) {
	start, err := domain.ParseDate(dto.StartDate)
	if err != nil {
		return domain.Week{}, fmt.Errorf("week %s: %w", dto.ID, err)
	}
	end, err := domain.ParseDate(dto.EndDate)
	if err != nil {
		return domain.Week{}, fmt.Errorf("week %s: %w", dto.ID, err)
	}
	w := domain.Week{
		ID:         dto.ID,
		WeekNumber: dto.WeekNumber,
		Start:      start,
		End:        end,
		Theme:      deref(dto.Theme),
		Days:       make([]domain.Day, len(dto.Days)),
	}
	for i, d := range dto.Days {
		if w.Days[i], err = DayFromDTO(d); err != nil {
			return domain.Week{}, fmt.Errorf("week %s: %w", dto.ID, err)
		}
	}
	return w, nil
}

// DayFromDTO derives the display label from the date.
func DayFromDTO(dto DayDTO) (domain.Day, error) {
	date, err := domain.ParseDate(dto.Date)
	if err != nil {
		return domain.Day{}, err
	}
	return domain.Day{
		ID:          dto.ID,
		Date:        dto.Date,
		Label:       date.Format("Mon, Jan 2"),
		Theme:       deref(dto.Theme),
		FocusMetric: deref(dto.FocusMetric),
	}, nil
}

func WeeksToDTO(weeks []domain.Week) []WeekDTO {
	out := make([]WeekDTO, len(weeks))
	for i, w := range weeks {
		out[i] = WeekToDTO(w)
	}
	return out
}

func WeekWithStatsToDTO(ws domain.WeekWithStats) WeekWithStatsDTO {
	return WeekWithStatsDTO{WeekDTO: WeekToDTO(ws.Week), Statistics: StatisticsToDTO(ws.Statistics)}
}

func CreateWeekToRequest(start, end time.Time, theme string) CreateWeekRequest {
	return CreateWeekRequest{
		StartDate: start.Format(domain.DateLayout),
		EndDate:   end.Format(domain.DateLayout),
		Theme:     theme,
	}
}

func UserToProfile(u domain.User) UserProfile {
	return UserProfile{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func ProfileToUser(p UserProfile) domain.User {
	return domain.User{ID: p.ID, Email: p.Email, Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
