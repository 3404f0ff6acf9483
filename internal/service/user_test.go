package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/places-server/internal/apierror"
	"github.com/dtroode/places-server/internal/mocks"
	"github.com/dtroode/places-server/internal/model"
	"github.com/dtroode/places-server/internal/testutil"
)

func TestUserService_List(t *testing.T) {
	tests := []struct {
		name     string
		stored   []model.User
		storeErr error
		wantLen  int
		wantErr  bool
	}{
		{
			name:    "users found",
			stored:  []model.User{{ID: ownerID}, {ID: otherID}},
			wantLen: 2,
		},
		{
			name:    "no users",
			stored:  nil,
			wantLen: 0,
		},
		{
			name:     "store error",
			storeErr: errDB,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := mocks.NewUserStore(t)
			users.On("List", mock.Anything).Return(tt.stored, tt.storeErr)

			result, err := NewUser(users, testutil.MakeNoopLogger()).List(context.Background())

			if tt.wantErr {
				assert.Equal(t, apierror.KindPersistence, apierror.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, result)
			assert.Len(t, result, tt.wantLen)
		})
	}
}
