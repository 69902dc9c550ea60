package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"prophunter_backend/internal/model"
)

func newMockStore(t *testing.T) (*LeadStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return NewLeadStore(db), mock
}

func lead(id string) model.Listing {
	return model.Listing{
		ID:              id,
		Title:           "Apartamento 2 quartos",
		Price:           450000,
		Currency:        "BRL",
		Location:        "Campinas",
		SellerType:      model.SellerTypeOwner,
		OperationType:   model.OperationTypeSale,
		Platform:        model.PlatformOLX,
		URL:             "https://www.olx.com.br/anuncio/" + id,
		ConfidenceScore: 85,
		Features:        []string{"Piscina"},
		ScrapedAt:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:          model.LeadStatusNew,
	}
}

func TestInsert(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO "leads" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Insert(context.Background(), lead("olx-1")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertExistingLead(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`INSERT INTO "leads" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Insert(context.Background(), lead("olx-1"))
	assert.ErrorIs(t, err, ErrLeadExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDatabaseError(t *testing.T) {
	s, mock := newMockStore(t)
	dbErr := errors.New("connection reset")
	mock.ExpectExec(`INSERT INTO "leads"`).WillReturnError(dbErr)

	err := s.Insert(context.Background(), lead("olx-1"))
	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, ErrLeadExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectAll(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"id", "title", "currency", "status", "features"}).
		AddRow("olx-1", "Casa", "", "", []byte(`["Quintal"]`)).
		AddRow("zap-2", "Sala", "BRL", "VISIT", []byte(`[]`))
	mock.ExpectQuery(`SELECT \* FROM "leads" ORDER BY created_at asc, id asc`).
		WillReturnRows(rows)

	leads, err := s.SelectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 2)

	assert.Equal(t, "olx-1", leads[0].ID)
	assert.Equal(t, model.LeadStatusNew, leads[0].Status)
	assert.Equal(t, model.DefaultCurrency, leads[0].Currency)
	assert.Equal(t, []string{"Quintal"}, leads[0].Features)
	assert.Equal(t, model.LeadStatusVisit, leads[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingLeadIsNotAnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE "leads" SET "status"=.* WHERE id = `).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Update(context.Background(), "missing", model.LeadStatusVisit))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingLeadIsNotAnError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`DELETE FROM "leads" WHERE id = `).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(context.Background(), "missing"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDatabaseError(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`DELETE FROM "leads"`).WillReturnError(errors.New("timeout"))

	assert.Error(t, s.Delete(context.Background(), "olx-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	s, mock := newMockStore(t)
	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("NEW", 2).
		AddRow("", 1).
		AddRow("VISIT", 3)
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) as count FROM "leads" GROUP BY`).
		WillReturnRows(rows)

	counts, err := s.CountByStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), counts[model.LeadStatusNew])
	assert.Equal(t, int64(3), counts[model.LeadStatusVisit])
	assert.Equal(t, int64(0), counts[model.LeadStatusClosed])
	assert.Len(t, counts, len(model.LeadStatuses))
}
