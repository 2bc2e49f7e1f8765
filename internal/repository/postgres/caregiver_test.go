package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaregiverRepository_ListActiveVerified(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaregiverRepository(db)

	mock.ExpectQuery(`is_active = TRUE AND is_verified = TRUE\s+ORDER BY rating DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rating", "is_active", "is_verified"}).
			AddRow(uuid.NewString(), "Nurse A", 4.9, true, true).
			AddRow(uuid.NewString(), "Nurse B", 4.1, true, true))

	got, err := repo.ListActiveVerified(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 4.9, got[0].Rating)
}

func TestCaregiverRepository_ListError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCaregiverRepository(db)

	mock.ExpectQuery("FROM caregivers").WillReturnError(errors.New("connection refused"))

	_, err := repo.ListActiveVerified(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}
