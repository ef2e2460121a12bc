package certificates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCertRepo struct {
	certs    map[int64]*Certificate
	nextID   int64
	lastList ListCertificatesRequest
}

func newMockCertRepo() *mockCertRepo {
	return &mockCertRepo{certs: make(map[int64]*Certificate), nextID: 1}
}

func (m *mockCertRepo) Get(ctx context.Context, id int64) (*Certificate, error) {
	c, ok := m.certs[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCertRepo) List(ctx context.Context, req ListCertificatesRequest) ([]Certificate, int, error) {
	m.lastList = req
	var out []Certificate
	for _, c := range m.certs {
		if req.ExpiringDays > 0 && c.ExpiresAt.After(time.Now().AddDate(0, 0, req.ExpiringDays)) {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCertRepo) Create(ctx context.Context, cert Certificate) (int64, error) {
	cert.ID = m.nextID
	m.nextID++
	m.certs[cert.ID] = &cert
	return cert.ID, nil
}

func (m *mockCertRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	c, ok := m.certs[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["expires_at"]; ok {
		c.ExpiresAt = v.(time.Time)
	}
	if v, ok := updates["issued_at"]; ok {
		c.IssuedAt = v.(time.Time)
	}
	return nil
}

func (m *mockCertRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.certs[id]; !ok {
		return ErrNotFound
	}
	delete(m.certs, id)
	return nil
}

func TestCreateRejectsInvertedPeriod(t *testing.T) {
	svc := NewService(newMockCertRepo())

	_, err := svc.Create(context.Background(), CreateCertificateRequest{
		ClientID:  1,
		Kind:      "a1",
		IssuedAt:  "2026-06-01",
		ExpiresAt: "2026-06-01",
	})
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestCreateParsesDates(t *testing.T) {
	repo := newMockCertRepo()
	svc := NewService(repo)

	cert, err := svc.Create(context.Background(), CreateCertificateRequest{
		ClientID:  1,
		Kind:      "a1",
		IssuedAt:  "2026-06-01",
		ExpiresAt: "2027-06-01",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), cert.IssuedAt)
	assert.Equal(t, time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC), cert.ExpiresAt)
}

func TestUpdateValidatesPeriodAgainstStoredDates(t *testing.T) {
	repo := newMockCertRepo()
	svc := NewService(repo)

	cert, err := svc.Create(context.Background(), CreateCertificateRequest{
		ClientID:  1,
		Kind:      "ssl",
		IssuedAt:  "2026-01-01",
		ExpiresAt: "2027-01-01",
	})
	require.NoError(t, err)

	// Moving expiry before the stored issue date is rejected.
	before := "2025-12-01"
	_, err = svc.Update(context.Background(), cert.ID, UpdateCertificateRequest{ExpiresAt: &before})
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	after := "2028-01-01"
	updated, err := svc.Update(context.Background(), cert.ID, UpdateCertificateRequest{ExpiresAt: &after})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2028, 1, 1, 0, 0, 0, 0, time.UTC), updated.ExpiresAt)
}

func TestListPassesExpiringWindow(t *testing.T) {
	repo := newMockCertRepo()
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), ListCertificatesRequest{ExpiringDays: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, repo.lastList.ExpiringDays)
	assert.Equal(t, 50, repo.lastList.Limit, "default page size applied")
}

func TestDaysToExpiry(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cert := Certificate{ExpiresAt: now.AddDate(0, 0, 15)}
	assert.Equal(t, 15, cert.DaysToExpiry(now))

	expired := Certificate{ExpiresAt: now.AddDate(0, 0, -3)}
	assert.Equal(t, -3, expired.DaysToExpiry(now))
}
