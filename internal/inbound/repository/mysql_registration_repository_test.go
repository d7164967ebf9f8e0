package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	"github.com/allisson/webhooks/internal/testutil"
)

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLRegistrationRepository_Create(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLRegistrationRepository(db)
	registration := newTestRegistration()

	mock.ExpectExec(testutil.Query("INSERT INTO inbound_webhooks")).
		WithArgs(
			mustBinary(t, registration.ID), "u1", "c1", "crm", registration.APIKeyHash, true, "crm leads",
			registration.CreatedAt, registration.UpdatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), registration))
}

func TestMySQLRegistrationRepository_Get(t *testing.T) {
	t.Run("Success_Found", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLRegistrationRepository(db)
		registration := newTestRegistration()
		idBytes := mustBinary(t, registration.ID)

		mock.ExpectQuery(testutil.Query("FROM inbound_webhooks WHERE id = ?")).
			WithArgs(idBytes).
			WillReturnRows(addRegistrationRow(sqlmock.NewRows(registrationColumnNames), idBytes, registration))

		got, err := repo.Get(context.Background(), registration.ID)
		require.NoError(t, err)
		assert.Equal(t, registration.ID, got.ID)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLRegistrationRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(testutil.Query("FROM inbound_webhooks WHERE id = ?")).
			WithArgs(mustBinary(t, id)).
			WillReturnRows(sqlmock.NewRows(registrationColumnNames))

		_, err := repo.Get(context.Background(), id)
		assert.ErrorIs(t, err, inboundDomain.ErrRegistrationNotFound)
	})
}

func TestMySQLRegistrationRepository_GetByIDAndKeyHash(t *testing.T) {
	t.Run("Success_Matched", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLRegistrationRepository(db)
		registration := newTestRegistration()
		idBytes := mustBinary(t, registration.ID)

		mock.ExpectQuery(testutil.Query("WHERE id = ? AND api_key_hash = ?")).
			WithArgs(idBytes, registration.APIKeyHash).
			WillReturnRows(addRegistrationRow(sqlmock.NewRows(registrationColumnNames), idBytes, registration))

		got, err := repo.GetByIDAndKeyHash(context.Background(), registration.ID, registration.APIKeyHash)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
	})

	t.Run("Error_NoMatch", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLRegistrationRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(testutil.Query("WHERE id = ? AND api_key_hash = ?")).
			WithArgs(mustBinary(t, id), "wrong").
			WillReturnRows(sqlmock.NewRows(registrationColumnNames))

		_, err := repo.GetByIDAndKeyHash(context.Background(), id, "wrong")
		assert.ErrorIs(t, err, inboundDomain.ErrInvalidCredentials)
	})
}

func TestMySQLRegistrationRepository_List(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	repo := NewMySQLRegistrationRepository(db)
	registration := newTestRegistration()
	idBytes := mustBinary(t, registration.ID)

	mock.ExpectQuery(testutil.Query("WHERE company_id IS NULL AND user_id = ?")).
		WithArgs("u1", 50, 0).
		WillReturnRows(addRegistrationRow(sqlmock.NewRows(registrationColumnNames), idBytes, registration))

	registrations, err := repo.List(context.Background(), nil, "u1", 0, 50)
	require.NoError(t, err)
	require.Len(t, registrations, 1)
	assert.Equal(t, registration.ID, registrations[0].ID)
}

func TestMySQLRegistrationRepository_UpdateAndDelete(t *testing.T) {
	t.Run("Success_Updated", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLRegistrationRepository(db)
		registration := newTestRegistration()

		mock.ExpectExec(testutil.Query("UPDATE inbound_webhooks")).
			WithArgs("crm", true, "crm leads", registration.UpdatedAt, mustBinary(t, registration.ID)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Update(context.Background(), registration))
	})

	t.Run("Error_DeleteNotFound", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLRegistrationRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectExec(testutil.Query("DELETE FROM inbound_webhooks WHERE id = ?")).
			WithArgs(mustBinary(t, id)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), inboundDomain.ErrRegistrationNotFound)
	})
}
