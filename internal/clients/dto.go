package clients

type CreateClientRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	TradeName *string `json:"trade_name,omitempty" validate:"omitempty,max=200"`
	TaxID     string  `json:"tax_id" validate:"required,max=30"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Notes     *string `json:"notes,omitempty"`
}

type UpdateClientRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,max=200"`
	TradeName *string `json:"trade_name,omitempty" validate:"omitempty,max=200"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	City      *string `json:"city,omitempty" validate:"omitempty,max=100"`
	IsActive  *bool   `json:"is_active,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type ListClientsRequest struct {
	IsActive *bool   `json:"is_active,omitempty"`
	Search   *string `json:"search,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}
