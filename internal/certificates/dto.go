package certificates

type CreateCertificateRequest struct {
	ClientID     int64   `json:"client_id" validate:"required,gt=0"`
	Kind         string  `json:"kind" validate:"required,oneof=a1 a3 ssl code_signing"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,max=120"`
	IssuedAt     string  `json:"issued_at" validate:"required,datetime=2006-01-02"`
	ExpiresAt    string  `json:"expires_at" validate:"required,datetime=2006-01-02"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateCertificateRequest struct {
	Kind         *string `json:"kind" validate:"omitempty,oneof=a1 a3 ssl code_signing"`
	SerialNumber *string `json:"serial_number" validate:"omitempty,max=120"`
	IssuedAt     *string `json:"issued_at" validate:"omitempty,datetime=2006-01-02"`
	ExpiresAt    *string `json:"expires_at" validate:"omitempty,datetime=2006-01-02"`
	Notes        *string `json:"notes" validate:"omitempty,max=1000"`
}

type ListCertificatesRequest struct {
	ClientID     int64 `validate:"omitempty,gt=0"`
	ExpiringDays int   `validate:"omitempty,gt=0,lte=365"`
	Limit        int   `validate:"omitempty,gt=0,lte=200"`
	Offset       int   `validate:"omitempty,gte=0"`
}
