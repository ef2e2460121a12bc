package schedule

type CreateTaskRequest struct {
	ClientID    *int64  `json:"client_id" validate:"omitempty,gt=0"`
	Title       string  `json:"title" validate:"required,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	DueDate     string  `json:"due_date" validate:"required,datetime=2006-01-02"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=open done cancelled"`
}

type ListTasksRequest struct {
	ClientID int64  `validate:"omitempty,gt=0"`
	Status   string `validate:"omitempty,oneof=open done cancelled"`
	Overdue  bool
	Limit    int `validate:"omitempty,gt=0,lte=200"`
	Offset   int `validate:"omitempty,gte=0"`
}
