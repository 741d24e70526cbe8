package models

import (
	"math"
	"time"
)

type User struct {
	ID           string    `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `json:"-"`
	Department   string    `json:"department"`
	Position     string    `json:"position"`
	Role         string    `gorm:"not null;default:'employee'" json:"role"` // super-admin, admin, manager, employee
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	JoinedAt     time.Time `json:"joined_at"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

type Attendance struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_user_date" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date         time.Time  `gorm:"not null;uniqueIndex:idx_attendance_user_date" json:"date"`
	CheckIn      *time.Time `json:"check_in"`
	CheckOut     *time.Time `json:"check_out"`
	Status       string     `gorm:"not null;default:'absent'" json:"status"` // present, absent, late, halfday, leave
	WorkingHours *float64   `json:"working_hours"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

type LeaveRequest struct {
	ID            string     `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StartDate     time.Time  `gorm:"not null" json:"start_date"`
	EndDate       time.Time  `gorm:"not null" json:"end_date"`
	Type          string     `gorm:"not null" json:"type"` // sick, vacation, personal, other
	Reason        string     `gorm:"not null" json:"reason"`
	Status        string     `gorm:"not null;default:'pending'" json:"status"` // pending, approved, rejected
	ApprovedBy    *string    `gorm:"type:uuid" json:"approved_by,omitempty"`
	Approver      *User      `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovalDate  *time.Time `json:"approval_date,omitempty"`
	AttachmentURL string     `json:"attachment_url,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

type Task struct {
	ID          string    `gorm:"type:uuid;primary_key" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	AssignedTo  string    `gorm:"type:uuid;not null;index" json:"assigned_to"`
	Assignee    User      `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	Priority    string    `gorm:"not null;default:'medium'" json:"priority"` // low, medium, high
	Status      string    `gorm:"not null;default:'pending'" json:"status"`  // pending, in-progress, completed
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// RecalculateWorkHours derives working hours and status once both
// timestamps are set. Hours worked decide the status: a full day (8+)
// counts as present, at least half a day as halfday, anything shorter
// as late. Working hours are only defined for a valid pair, so a patch
// that removes or inverts a timestamp clears them again.
func (a *Attendance) RecalculateWorkHours() {
	if a.CheckIn == nil || a.CheckOut == nil || !a.CheckOut.After(*a.CheckIn) {
		a.WorkingHours = nil
		return
	}

	hours := math.Round(a.CheckOut.Sub(*a.CheckIn).Hours()*100) / 100
	a.WorkingHours = &hours

	switch {
	case hours >= 8:
		a.Status = "present"
	case hours >= 4:
		a.Status = "halfday"
	default:
		a.Status = "late"
	}
}
