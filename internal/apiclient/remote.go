package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/alexanderramin/weekplan/internal/app"
	"github.com/alexanderramin/weekplan/internal/contract"
	"github.com/alexanderramin/weekplan/internal/domain"
)

var _ app.Remote = (*Client)(nil)

func taskPath(id string, suffix ...string) string {
	p := "/api/tasks/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *Client) CreateTask(ctx context.Context, fields domain.TaskFields) (*domain.Task, error) {
	var dto contract.TaskDTO
	if err := c.call(ctx, http.MethodPost, "/api/tasks", contract.FieldsToCreateRequest(fields), &dto, domain.ErrDayNotFound); err != nil {
		return nil, err
	}
	t := contract.TaskFromDTO(dto)
	return &t, nil
}

func (c *Client) ListTasks(ctx context.Context, filter app.TaskFilter) ([]domain.Task, error) {
	q := url.Values{}
	if filter.DayID != "" {
		q.Set("dayId", filter.DayID)
	}
	if filter.Swimlane != "" {
		q.Set("swimlane", string(contract.ToWireSwimlane(filter.Swimlane)))
	}
	if filter.Unassigned {
		q.Set("unassigned", strconv.FormatBool(true))
	}
	path := "/api/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var dtos []contract.TaskDTO
	if err := c.call(ctx, http.MethodGet, path, nil, &dtos, nil); err != nil {
		return nil, err
	}
	return contract.TasksFromDTO(dtos), nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var dto contract.TaskDTO
	if err := c.call(ctx, http.MethodGet, taskPath(id), nil, &dto, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	t := contract.TaskFromDTO(dto)
	return &t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var dto contract.TaskDTO
	if err := c.call(ctx, http.MethodPatch, taskPath(id), contract.PatchToUpdateRequest(patch), &dto, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	t := contract.TaskFromDTO(dto)
	return &t, nil
}

func (c *Client) AssignTask(ctx context.Context, id string, a domain.Assignment) (*domain.Task, error) {
	var dto contract.TaskDTO
	if err := c.call(ctx, http.MethodPatch, taskPath(id, "assign"), contract.AssignmentToRequest(a), &dto, domain.ErrTaskNotFound); err != nil {
		return nil, err
	}
	t := contract.TaskFromDTO(dto)
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, taskPath(id), nil, nil, domain.ErrTaskNotFound)
}

// TaskStatistics returns backend-computed statistics over the filtered tasks.
func (c *Client) TaskStatistics(ctx context.Context, filter app.TaskFilter) (domain.TaskStatistics, error) {
	q := url.Values{}
	if filter.DayID != "" {
		q.Set("dayId", filter.DayID)
	}
	path := "/api/tasks/statistics"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var dto contract.TaskStatisticsDTO
	if err := c.call(ctx, http.MethodGet, path, nil, &dto, nil); err != nil {
		return domain.TaskStatistics{}, err
	}
	return contract.StatisticsFromDTO(dto), nil
}

func (c *Client) CreateWeek(ctx context.Context, req app.CreateWeekRequest) (*domain.Week, error) {
	var dto contract.WeekDTO
	if err := c.call(ctx, http.MethodPost, "/api/weeks", contract.CreateWeekToRequest(req.Start, req.End, req.Theme), &dto, nil); err != nil {
		return nil, err
	}
	return weekFromDTO(dto)
}

// CurrentWeek returns the week containing at. A missing week unwraps to
// domain.ErrWeekNotFound.
func (c *Client) CurrentWeek(ctx context.Context, at time.Time) (*domain.Week, error) {
	path := "/api/weeks/current?date=" + url.QueryEscape(at.Format(domain.DateLayout))
	var dto contract.WeekDTO
	if err := c.call(ctx, http.MethodGet, path, nil, &dto, domain.ErrWeekNotFound); err != nil {
		return nil, err
	}
	return weekFromDTO(dto)
}

func (c *Client) GetWeek(ctx context.Context, id string) (*domain.Week, error) {
	var dto contract.WeekDTO
	if err := c.call(ctx, http.MethodGet, "/api/weeks/"+url.PathEscape(id), nil, &dto, domain.ErrWeekNotFound); err != nil {
		return nil, err
	}
	return weekFromDTO(dto)
}

func (c *Client) UpdateWeek(ctx context.Context, id string, patch domain.WeekPatch) (*domain.Week, error) {
	var dto contract.WeekDTO
	body := contract.UpdateWeekRequest{Theme: patch.Theme}
	if err := c.call(ctx, http.MethodPatch, "/api/weeks/"+url.PathEscape(id), body, &dto, domain.ErrWeekNotFound); err != nil {
		return nil, err
	}
	return weekFromDTO(dto)
}

func (c *Client) UpdateDay(ctx context.Context, dayID string, patch domain.DayPatch) (*domain.Day, error) {
	var dto contract.DayDTO
	body := contract.UpdateDayRequest{Theme: patch.Theme, FocusMetric: patch.FocusMetric}
	if err := c.call(ctx, http.MethodPatch, "/api/days/"+url.PathEscape(dayID), body, &dto, domain.ErrDayNotFound); err != nil {
		return nil, err
	}
	d, err := contract.DayFromDTO(dto)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func weekFromDTO(dto contract.WeekDTO) (*domain.Week, error) {
	w, err := contract.WeekFromDTO(dto)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
