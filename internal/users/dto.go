package users

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Role     string `json:"role" validate:"required,oneof=standard admin"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120"`
	Role     *string `json:"role" validate:"omitempty,oneof=standard admin"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

type ListUsersRequest struct {
	Search string `validate:"omitempty,max=120"`
	Limit  int    `validate:"omitempty,gt=0,lte=200"`
	Offset int    `validate:"omitempty,gte=0"`
}

type GrantInput struct {
	Module  string `json:"module" validate:"required"`
	CanEdit bool   `json:"can_edit"`
}

type SetGrantsRequest struct {
	Grants []GrantInput `json:"grants" validate:"required,dive"`
}
