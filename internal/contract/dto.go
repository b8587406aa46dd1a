package contract

import "time"

type TaskDTO struct {
	ID                       string     `json:"id"`
	DayID                    *string    `json:"dayId"`
	Title                    string     `json:"title"`
	Notes                    *string    `json:"notes"`
	Category                 Category   `json:"category"`
	Energy                   Energy     `json:"energy"`
	Status                   Status     `json:"status"`
	DurationMinutes          int        `json:"durationMinutes"`
	Swimlane                 *Swimlane  `json:"swimlane"`
	Order                    int        `json:"order"`
	TargetOccurrencesPerWeek *int       `json:"targetOccurrencesPerWeek"`
	CompletedAt              *time.Time `json:"completedAt"`
}

type CreateTaskRequest struct {
	Title                    string   `json:"title"`
	Category                 Category `json:"category"`
	Energy                   Energy   `json:"energy"`
	DurationMinutes          int      `json:"durationMinutes"`
	Status                   Status   `json:"status,omitempty"`
	Notes                    string   `json:"notes,omitempty"`
	TargetOccurrencesPerWeek *int     `json:"targetOccurrencesPerWeek,omitempty"`
	DayID                    string   `json:"dayId,omitempty"`
	Swimlane                 Swimlane `json:"swimlane,omitempty"`
}

type UpdateTaskRequest struct {
	Title                    *string   `json:"title,omitempty"`
	Category                 *Category `json:"category,omitempty"`
	Energy                   *Energy   `json:"energy,omitempty"`
	Status                   *Status   `json:"status,omitempty"`
	DurationMinutes          *int      `json:"durationMinutes,omitempty"`
	Notes                    *string   `json:"notes,omitempty"`
	TargetOccurrencesPerWeek *int      `json:"targetOccurrencesPerWeek,omitempty"`
}

// AssignTaskRequest with no dayId returns the task to the backlog.
type AssignTaskRequest struct {
	DayID    string   `json:"dayId,omitempty"`
	Swimlane Swimlane `json:"swimlane,omitempty"`
	Order    int      `json:"order"`
}

type ReorderTaskRequest struct {
	Position int `json:"position"`
}

type TaskStatisticsDTO struct {
	Total                int     `json:"total"`
	Completed            int     `json:"completed"`
	InProgress           int     `json:"inProgress"`
	Planned              int     `json:"planned"`
	Skipped              int     `json:"skipped"`
	TotalDurationMinutes int     `json:"totalDuration"`
	CompletionRate       float64 `json:"completionRate"`
}

type DayDTO struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	DayOfWeek   int     `json:"dayOfWeek"`
	Theme       *string `json:"theme"`
	FocusMetric *string `json:"focusMetric"`
}

type WeekDTO struct {
	ID         string   `json:"id"`
	WeekNumber int      `json:"weekNumber"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Theme      *string  `json:"theme"`
	Days       []DayDTO `json:"days"`
}

type WeekWithStatsDTO struct {
	WeekDTO
	Statistics TaskStatisticsDTO `json:"statistics"`
}

type CreateWeekRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Theme     string `json:"theme,omitempty"`
}

type UpdateWeekRequest struct {
	Theme *string `json:"theme,omitempty"`
}

type UpdateDayRequest struct {
	Theme       *string `json:"theme,omitempty"`
	FocusMetric *string `json:"focusMetric,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AuthResponse struct {
	AccessToken string      `json:"accessToken"`
	ExpiresAt   time.Time   `json:"expiresAt"`
	User        UserProfile `json:"user"`
}

// ErrorResponse is the body of every non-2xx response. Field is set for
// validation failures.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
