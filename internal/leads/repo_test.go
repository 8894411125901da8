package leads

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anuverse/teamops-backend/pkg/db/models"
	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgpagination "github.com/anuverse/teamops-backend/pkg/pagination"
)

func setupLeadsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS leads (
  id TEXT PRIMARY KEY,
  captured_by TEXT NOT NULL,
  shop_name TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT NOT NULL,
  email TEXT,
  address TEXT,
  product_interest TEXT,
  notes TEXT,
  image_url TEXT,
  follow_up_date DATETIME,
  status TEXT NOT NULL DEFAULT 'new',
  captured_at DATETIME NOT NULL
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

type leadSeed struct {
	status     enums.LeadStatus
	capturedAt time.Time
	followUp   *time.Time
}

func insertLead(t *testing.T, db *gorm.DB, capturedBy uuid.UUID, seed leadSeed) *models.Lead {
	t.Helper()

	if seed.status == "" {
		seed.status = enums.LeadStatusNew
	}
	row := &models.Lead{
		ID:           uuid.New(),
		CapturedBy:   capturedBy,
		ShopName:     "Toko " + uuid.NewString()[:8],
		Name:         "Budi Santoso",
		Phone:        "+62811000111",
		FollowUpDate: seed.followUp,
		Status:       seed.status,
		CapturedAt:   seed.capturedAt,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestRepositoryListScopesToCapturingUser(t *testing.T) {
	db := setupLeadsTestDB(t)
	repo := NewRepository(db)
	capturedBy := uuid.New()
	base := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)

	first := insertLead(t, db, capturedBy, leadSeed{capturedAt: base})
	second := insertLead(t, db, capturedBy, leadSeed{capturedAt: base.Add(time.Hour)})
	insertLead(t, db, uuid.New(), leadSeed{capturedAt: base.Add(2 * time.Hour)})

	rows, err := repo.List(context.Background(), listQuery{capturedBy: capturedBy, limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, first.ID, rows[1].ID)
}

func TestRepositoryListFiltersByStatus(t *testing.T) {
	db := setupLeadsTestDB(t)
	repo := NewRepository(db)
	capturedBy := uuid.New()
	base := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)

	insertLead(t, db, capturedBy, leadSeed{capturedAt: base})
	contacted := insertLead(t, db, capturedBy, leadSeed{status: enums.LeadStatusContacted, capturedAt: base.Add(time.Hour)})

	status := enums.LeadStatusContacted
	rows, err := repo.List(context.Background(), listQuery{capturedBy: capturedBy, status: &status, limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, contacted.ID, rows[0].ID)
}

func TestRepositoryListAppliesCursor(t *testing.T) {
	db := setupLeadsTestDB(t)
	repo := NewRepository(db)
	capturedBy := uuid.New()
	base := time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)

	oldest := insertLead(t, db, capturedBy, leadSeed{capturedAt: base})
	middle := insertLead(t, db, capturedBy, leadSeed{capturedAt: base.Add(time.Hour)})
	insertLead(t, db, capturedBy, leadSeed{capturedAt: base.Add(2 * time.Hour)})

	cursor := &pkgpagination.Cursor{CreatedAt: middle.CapturedAt, ID: middle.ID}
	rows, err := repo.List(context.Background(), listQuery{capturedBy: capturedBy, limit: 10, cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, oldest.ID, rows[0].ID)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupLeadsTestDB(t)
	repo := NewRepository(db)
	capturedBy := uuid.New()

	lead := insertLead(t, db, capturedBy, leadSeed{capturedAt: time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC)})

	require.NoError(t, repo.UpdateStatus(context.Background(), lead.ID, enums.LeadStatusQualified))

	found, err := repo.FindByID(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.LeadStatusQualified, found.Status)
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := setupLeadsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListOverdueFollowUps(t *testing.T) {
	db := setupLeadsTestDB(t)
	repo := NewRepository(db)
	capturedBy := uuid.New()
	now := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	capturedAt := now.Add(-72 * time.Hour)

	past := now.Add(-48 * time.Hour)
	older := now.Add(-96 * time.Hour)
	future := now.Add(24 * time.Hour)

	overdueNew := insertLead(t, db, capturedBy, leadSeed{capturedAt: capturedAt, followUp: &older})
	overdueContacted := insertLead(t, db, capturedBy, leadSeed{status: enums.LeadStatusContacted, capturedAt: capturedAt, followUp: &past})
	insertLead(t, db, capturedBy, leadSeed{status: enums.LeadStatusConverted, capturedAt: capturedAt, followUp: &past})
	insertLead(t, db, capturedBy, leadSeed{capturedAt: capturedAt, followUp: &future})
	insertLead(t, db, capturedBy, leadSeed{capturedAt: capturedAt})

	rows, err := repo.ListOverdueFollowUps(context.Background(), now)
	require.NoError(t, err)

	// The query is not user-scoped, so only inspect this test's rows. The
	// overall ordering is by follow_up_date ascending.
	var mine []models.Lead
	for _, row := range rows {
		if row.CapturedBy == capturedBy {
			mine = append(mine, row)
		}
	}
	require.Len(t, mine, 2)
	assert.Equal(t, overdueNew.ID, mine[0].ID)
	assert.Equal(t, overdueContacted.ID, mine[1].ID)
}
