package financials

type CreateTermsRequest struct {
	ClientID      int64   `json:"client_id" validate:"required,gt=0"`
	MonthlyFee    float64 `json:"monthly_fee" validate:"gte=0"`
	DueDay        int     `json:"due_day" validate:"required,gte=1,lte=28"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=pix boleto transfer card"`
	Notes         *string `json:"notes,omitempty"`
}

type UpdateTermsRequest struct {
	MonthlyFee    *float64 `json:"monthly_fee,omitempty" validate:"omitempty,gte=0"`
	DueDay        *int     `json:"due_day,omitempty" validate:"omitempty,gte=1,lte=28"`
	PaymentMethod *string  `json:"payment_method,omitempty" validate:"omitempty,oneof=pix boleto transfer card"`
	Notes         *string  `json:"notes,omitempty"`
}

type ListTermsRequest struct {
	ClientID int64 `json:"client_id" validate:"gte=0"`
	DueDay   int   `json:"due_day" validate:"gte=0,lte=28"`
	Limit    int   `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int   `json:"offset" validate:"gte=0"`
}
