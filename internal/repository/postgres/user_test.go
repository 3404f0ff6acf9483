package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/places-server/internal/model"
)

func TestNewUserRepository(t *testing.T) {
	db := &Connection{}
	repo := NewUserRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestNewPlaceRepository(t *testing.T) {
	db := &Connection{}
	repo := NewPlaceRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		in     error
		target error
	}{
		{name: "serialization failure", in: &pgconn.PgError{Code: codeSerializationFailure}, target: model.ErrConflict},
		{name: "deadlock", in: &pgconn.PgError{Code: codeDeadlockDetected}, target: model.ErrConflict},
		{name: "unique violation", in: &pgconn.PgError{Code: codeUniqueViolation}, target: model.ErrAlreadyExists},
		{name: "wrapped serialization failure", in: fmt.Errorf("exec: %w", &pgconn.PgError{Code: codeSerializationFailure}), target: model.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.in)
			assert.ErrorIs(t, err, tt.target)

			var pgErr *pgconn.PgError
			assert.True(t, errors.As(err, &pgErr))
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		in := errors.New("boom")
		assert.Same(t, in, classify(in))

		fk := &pgconn.PgError{Code: "23503"}
		assert.Equal(t, error(fk), classify(fk))
	})
}

func TestParseUUIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := parseUUIDs([]string{a.String(), b.String()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	_, err = parseUUIDs([]string{"not-a-uuid"})
	assert.Error(t, err)

	assert.Equal(t, []string{a.String(), b.String()}, uuidStrings([]uuid.UUID{a, b}))
}
