package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrium-hq/atrium/internal/shared"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	repo.seed(1, ActionCreate, shared.ModuleClients, base)
	repo.seed(1, ActionEdit, shared.ModuleClients, base.Add(time.Hour))
	repo.seed(2, ActionView, shared.ModuleSchedule, base.Add(time.Hour)) // same instant, higher id

	svc := NewService(repo)
	result, err := svc.List(context.Background(), Filters{})
	require.NoError(t, err)

	require.Len(t, result.Entries, 3)
	assert.Equal(t, int64(3), result.Entries[0].ID, "ties broken by id descending")
	assert.Equal(t, int64(2), result.Entries[1].ID)
	assert.Equal(t, int64(1), result.Entries[2].ID)
}

func TestListPaginationMatchesPredicate(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		repo.seed(1, ActionView, shared.ModuleClients, base.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 5; i++ {
		repo.seed(2, ActionView, shared.ModuleSchedule, base.Add(time.Duration(i)*time.Minute))
	}

	svc := NewService(repo)
	result, err := svc.List(context.Background(), Filters{Module: "clients", Page: 3, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, int64(45), result.Total, "total counts only the filtered set")
	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t, 3, result.Page)
	assert.Len(t, result.Entries, 5, "last page holds the remainder")
	for _, e := range result.Entries {
		assert.Equal(t, shared.ModuleClients, e.Module)
	}
}

func TestListEmptyPageIsEmptySliceNotNil(t *testing.T) {
	svc := NewService(newMemRepo())
	result, err := svc.List(context.Background(), Filters{})
	require.NoError(t, err)
	require.NotNil(t, result.Entries)
	assert.Empty(t, result.Entries)
	assert.Zero(t, result.Total)
	assert.Zero(t, result.PageCount)
}

func TestListRejectsUnknownFilterValues(t *testing.T) {
	svc := NewService(newMemRepo())

	_, err := svc.List(context.Background(), Filters{Action: "PURGE"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = svc.List(context.Background(), Filters{Module: "BILLING"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	from := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	_, err = svc.List(context.Background(), Filters{From: from, To: from.AddDate(0, 0, -3)})
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestListNormalizesFilterCase(t *testing.T) {
	repo := newMemRepo()
	repo.seed(1, ActionEdit, shared.ModuleFinancials, time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC))

	svc := NewService(repo)
	result, err := svc.List(context.Background(), Filters{Action: "edit", Module: " financials "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
}

func TestListClampsPageSize(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 150; i++ {
		repo.seed(1, ActionView, shared.ModuleClients, base.Add(time.Duration(i)*time.Second))
	}

	svc := NewService(repo)
	result, err := svc.List(context.Background(), Filters{PageSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, result.PageSize)
	assert.Len(t, result.Entries, maxPageSize)
	assert.Equal(t, 2, result.PageCount)
}

func TestListDayBoundsAreInclusive(t *testing.T) {
	repo := newMemRepo()
	repo.seed(1, ActionView, shared.ModuleClients, time.Date(2026, 8, 18, 0, 0, 1, 0, time.UTC))
	repo.seed(1, ActionView, shared.ModuleClients, time.Date(2026, 8, 19, 12, 0, 0, 0, time.UTC))
	repo.seed(1, ActionView, shared.ModuleClients, time.Date(2026, 8, 20, 23, 59, 59, 0, time.UTC))
	repo.seed(1, ActionView, shared.ModuleClients, time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))

	svc := NewService(repo)
	result, err := svc.List(context.Background(), Filters{
		From: time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total, "both bound days included, next day excluded")
}

func TestStatsEmptyLogYieldsZeroSeries(t *testing.T) {
	svc := NewService(newMemRepo())
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	report, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Total)
	assert.Zero(t, report.Today)
	assert.Zero(t, report.Last7Days)
	for _, action := range Actions() {
		assert.Zero(t, report.ByAction[action], action)
	}
	assert.Empty(t, report.TopModules)
	assert.NotNil(t, report.TopModules)
	assert.Empty(t, report.TopActors)
	require.Len(t, report.Daily, 7, "trailing series is zero-filled, never truncated")
	assert.Equal(t, "2026-08-23", report.Daily[0].Date)
	assert.Equal(t, "2026-08-29", report.Daily[6].Date)
	for _, day := range report.Daily {
		assert.Zero(t, day.Count)
	}
}

func TestStatsAggregatesNonExpiredOnly(t *testing.T) {
	repo := newMemRepo()
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	// Expired relative to the retention horizon; a sweep has not yet run.
	repo.seed(1, ActionCreate, shared.ModuleClients, now.AddDate(0, 0, -RetentionDays-5))
	// Live entries.
	repo.seed(1, ActionCreate, shared.ModuleClients, now.AddDate(0, 0, -10))
	repo.seed(1, ActionEdit, shared.ModuleClients, now.AddDate(0, 0, -3))
	repo.seed(2, ActionView, shared.ModuleSchedule, now.Add(-time.Hour))

	svc := NewService(repo)
	svc.now = fixedClock(now)

	report, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.Total, "expired entries excluded before sweep")
	assert.Equal(t, int64(1), report.Today)
	assert.Equal(t, int64(2), report.Last7Days)
	assert.Equal(t, int64(1), report.ByAction[ActionCreate])
	assert.Equal(t, int64(1), report.ByAction[ActionEdit])
	assert.Equal(t, int64(1), report.ByAction[ActionView])
	assert.Zero(t, report.ByAction[ActionDelete], "absent actions reported as zero")

	require.NotEmpty(t, report.TopModules)
	assert.Equal(t, shared.ModuleClients, report.TopModules[0].Key)
	assert.Equal(t, int64(2), report.TopModules[0].Count)
	require.NotEmpty(t, report.TopActors)
	assert.Equal(t, int64(1), report.TopActors[0].ActorID)

	require.Len(t, report.Daily, 7)
	assert.Equal(t, int64(1), report.Daily[3].Count, "entry three days back lands on its day")
	assert.Equal(t, int64(1), report.Daily[6].Count)
}

func TestExportReturnsFullFilteredSet(t *testing.T) {
	repo := newMemRepo()
	base := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		repo.seed(1, ActionView, shared.ModuleClients, base.Add(time.Duration(i)*time.Minute))
	}

	svc := NewService(repo)
	entries, err := svc.Export(context.Background(), Filters{Module: shared.ModuleClients})
	require.NoError(t, err)
	assert.Len(t, entries, 30, "export ignores page size")
}

func TestWriteCSVIncludesHeaderAndRows(t *testing.T) {
	entries := []Entry{{
		ID:          4,
		ActorID:     2,
		Action:      ActionDelete,
		Module:      shared.ModuleCertificates,
		EntityLabel: "Acme Ltd",
		OccurredAt:  time.Date(2026, 8, 20, 10, 30, 0, 0, time.UTC),
	}}

	data, err := WriteCSV(entries)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "id,actor_id,action,module,entity_label,detail,origin,occurred_at")
	assert.Contains(t, out, "4,2,DELETE,CERTIFICATES,Acme Ltd,,,2026-08-20T10:30:00Z")
}
