package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/cookieauth/internal/auth/domain"
	"github.com/aussiebroadwan/cookieauth/internal/auth/store"
)

var userCols = []string{"id", "username", "email", "password_hash", "created_at"}

func TestUsersRepo_GetUserByEmail(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxConnIface)
		want      domain.User
		wantErr   error
	}{
		{
			name: "found",
			setupMock: func(mock pgxmock.PgxConnIface) {
				mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at FROM users WHERE email = \$1`).
					WithArgs("a@x.com").
					WillReturnRows(pgxmock.NewRows(userCols).
						AddRow("01HX", "alice", "a@x.com", "hash", created))
			},
			want: domain.User{ID: "01HX", Username: "alice", Email: "a@x.com", PasswordHash: "hash", CreatedAt: created},
		},
		{
			name: "not found",
			setupMock: func(mock pgxmock.PgxConnIface) {
				mock.ExpectQuery(`FROM users WHERE email = \$1`).
					WithArgs("a@x.com").
					WillReturnRows(pgxmock.NewRows(userCols))
			},
			wantErr: store.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewConn()
			require.NoError(t, err)
			defer mock.Close(context.Background())

			tt.setupMock(mock)

			repo := &usersRepo{q: mock}
			got, err := repo.GetUserByEmail(context.Background(), "a@x.com")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			assert.NoError(t, mock.ExpectationsWereMet(), "unfulfilled expectations")
		})
	}
}

func TestUsersRepo_GetUserByUsername_DatabaseError(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnError(errors.New("connection refused"))

	repo := &usersRepo{q: mock}
	_, err = repo.GetUserByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepo_CreateUser(t *testing.T) {
	u := domain.User{ID: "01HX", Username: "alice", Email: "a@x.com", PasswordHash: "hash", CreatedAt: time.Now()}

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxConnIface)
		wantErr   error
		anyErr    bool
	}{
		{
			name: "inserted",
			setupMock: func(mock pgxmock.PgxConnIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("01HX", "alice", "a@x.com", "hash", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation",
			setupMock: func(mock pgxmock.PgxConnIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("01HX", "alice", "a@x.com", "hash", pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: store.ErrAlreadyExists,
		},
		{
			name: "other failure",
			setupMock: func(mock pgxmock.PgxConnIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("01HX", "alice", "a@x.com", "hash", pgxmock.AnyArg()).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.NotNullViolation})
			},
			anyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewConn()
			require.NoError(t, err)
			defer mock.Close(context.Background())

			tt.setupMock(mock)

			err = (&usersRepo{q: mock}).CreateUser(context.Background(), u)
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
				assert.NotErrorIs(t, err, store.ErrAlreadyExists)
			default:
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUsersRepo_ListUsers(t *testing.T) {
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(context.Background())

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM users ORDER BY created_at, id`).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("01", "alice", "a@x.com", "h1", now).
			AddRow("02", "bob", "b@x.com", "h2", now))

	got, err := (&usersRepo{q: mock}).ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, "b@x.com", got[1].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("postgresql://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("pgx5://u:p@h:5432/db"))
}
