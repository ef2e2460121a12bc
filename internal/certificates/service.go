package certificates

import (
	"context"
	"fmt"
	"time"

	"github.com/atrium-hq/atrium/internal/platform/httpx"
)

var ErrInvalidPeriod = httpx.Invalid("expiry date must be after issue date")

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Certificate, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListCertificatesRequest) ([]Certificate, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	return s.repo.List(ctx, req)
}

func (s *Service) Create(ctx context.Context, req CreateCertificateRequest) (*Certificate, error) {
	issuedAt, err := time.Parse(dateLayout, req.IssuedAt)
	if err != nil {
		return nil, fmt.Errorf("parse issued_at: %w", err)
	}
	expiresAt, err := time.Parse(dateLayout, req.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("parse expires_at: %w", err)
	}
	if !expiresAt.After(issuedAt) {
		return nil, ErrInvalidPeriod
	}

	cert := Certificate{
		ClientID:     req.ClientID,
		Kind:         req.Kind,
		SerialNumber: req.SerialNumber,
		IssuedAt:     issuedAt,
		ExpiresAt:    expiresAt,
		Notes:        req.Notes,
	}
	id, err := s.repo.Create(ctx, cert)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateCertificateRequest) (*Certificate, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	issuedAt := current.IssuedAt
	expiresAt := current.ExpiresAt

	if req.Kind != nil {
		updates["kind"] = *req.Kind
	}
	if req.SerialNumber != nil {
		updates["serial_number"] = *req.SerialNumber
	}
	if req.IssuedAt != nil {
		issuedAt, err = time.Parse(dateLayout, *req.IssuedAt)
		if err != nil {
			return nil, fmt.Errorf("parse issued_at: %w", err)
		}
		updates["issued_at"] = issuedAt
	}
	if req.ExpiresAt != nil {
		expiresAt, err = time.Parse(dateLayout, *req.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("parse expires_at: %w", err)
		}
		updates["expires_at"] = expiresAt
	}
	if !expiresAt.After(issuedAt) {
		return nil, ErrInvalidPeriod
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, fmt.Errorf("update certificate: %w", err)
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) (*Certificate, error) {
	cert, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete certificate: %w", err)
	}
	return cert, nil
}
