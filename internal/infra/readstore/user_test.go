//go:build unit

package readstore

import (
	"context"
	"testing"

	"tour-booking/internal/infra"
	"tour-booking/internal/infra/pgquery"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserReadQueries struct {
	mock.Mock
}

func (m *MockUserReadQueries) GetUserByID(ctx context.Context, db pgquery.DBTX, id uuid.UUID) (pgquery.Users, error) {
	args := m.Called(ctx, db, id)
	return args.Get(0).(pgquery.Users), args.Error(1)
}

func (m *MockUserReadQueries) GetUserByFirebaseUID(ctx context.Context, db pgquery.DBTX, uid string) (pgquery.Users, error) {
	args := m.Called(ctx, db, uid)
	return args.Get(0).(pgquery.Users), args.Error(1)
}

func userRow(role string) pgquery.Users {
	return pgquery.Users{
		ID:          uuid.New(),
		Email:       "Customer@Example.com",
		FullName:    "Nguyen Van A",
		Role:        role,
		FirebaseUID: pgtype.Text{String: "fb-uid-1", Valid: true},
	}
}

func TestFindByID(t *testing.T) {
	valid := userRow("staff")

	tests := []struct {
		name       string
		mockReturn pgquery.Users
		mockError  error
		wantKind   infra.RepositoryErrorKind
		wantError  bool
	}{
		{
			name:       "success",
			mockReturn: valid,
		},
		{
			name:       "user not found",
			mockReturn: pgquery.Users{},
			mockError:  pgx.ErrNoRows,
			wantKind:   infra.KindNotFound,
			wantError:  true,
		},
		{
			name:       "database error",
			mockReturn: pgquery.Users{},
			mockError:  assert.AnError,
			wantKind:   infra.KindDBFailure,
			wantError:  true,
		},
		{
			name:       "stored role no longer valid",
			mockReturn: userRow("operator"),
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockQueries := new(MockUserReadQueries)
			mockQueries.On("GetUserByID", mock.Anything, mock.Anything, mock.Anything).Return(tt.mockReturn, tt.mockError)

			readStore := NewUserReadStore(mockQueries, nil)

			view, err := readStore.FindByID(context.Background(), tt.mockReturn.ID)

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, view)
				if tt.wantKind != "" {
					assert.True(t, infra.IsKind(err, tt.wantKind))
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, valid.ID, view.ID)
				assert.Equal(t, "customer@example.com", view.Email)
				assert.Equal(t, "staff", view.Role)
			}

			mockQueries.AssertExpectations(t)
		})
	}
}

func TestFindByFirebaseUID(t *testing.T) {
	row := userRow("customer")

	mockQueries := new(MockUserReadQueries)
	mockQueries.On("GetUserByFirebaseUID", mock.Anything, mock.Anything, "fb-uid-1").Return(row, nil)
	mockQueries.On("GetUserByFirebaseUID", mock.Anything, mock.Anything, "unknown").Return(pgquery.Users{}, pgx.ErrNoRows)

	readStore := NewUserReadStore(mockQueries, nil)

	view, err := readStore.FindByFirebaseUID(context.Background(), "fb-uid-1")
	assert.NoError(t, err)
	assert.Equal(t, row.ID, view.ID)

	_, err = readStore.FindByFirebaseUID(context.Background(), "unknown")
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
