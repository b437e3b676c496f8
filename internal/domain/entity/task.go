package entity

import "github.com/jhoicas/backoffice-api/pkg/date"

type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
	TaskOnHold     TaskStatus = "on_hold"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled, TaskOnHold:
		return true
	}
	return false
}

// Closed indica que la tarea ya no puede vencerse (completada o cancelada).
func (s TaskStatus) Closed() bool { return s == TaskCompleted || s == TaskCancelled }

// Task representa una tarea pendiente del negocio. CreatedAt lo estampa el almacén (Meta).
type Task struct {
	Meta
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     *date.Date   `json:"dueDate,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
}

func (t Task) Validate() error {
	if err := required("title", t.Title); err != nil {
		return err
	}
	if !t.Priority.Valid() {
		return invalid("priority", "no es una prioridad válida")
	}
	if !t.Status.Valid() {
		return invalid("status", "no es un estado de tarea válido")
	}
	return nil
}

func (t Task) Normalize() Task {
	if t.Status == "" {
		t.Status = TaskPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return t
}

func (t Task) WithID(id string) Task       { t.ID = id; return t }
func (t Task) OwnedBy(userID string) Task { t.OwnerID = userID; return t }

// TaskPatch actualización parcial de una tarea.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueDate     *date.Date    `json:"dueDate,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
}

func (p TaskPatch) Validate() error {
	if p == (TaskPatch{}) {
		return emptyPatch()
	}
	if err := requiredPtr("title", p.Title); err != nil {
		return err
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return invalid("priority", "no es una prioridad válida")
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "no es un estado de tarea válido")
	}
	return nil
}
