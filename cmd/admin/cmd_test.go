package main

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/studio-backend/internal/database"
	"github.com/AnshRaj112/studio-backend/internal/store"
)

func setup(t *testing.T) sqlmock.Sqlmock {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	prev := database.PostgresDB
	database.PostgresDB = db
	t.Cleanup(func() {
		db.Close()
		database.PostgresDB = prev
	})
	return mock
}

func withPassword(t *testing.T, pwd string, err error) {
	prev := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = prev })
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
}

func runCLI(t *testing.T, tests []cliTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := &commandLine{}
			err := cli.run(append([]string{"admin"}, tt.args...))
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	runCLI(t, []cliTest{
		{name: "no command", args: nil, wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "create-admin: missing flags", args: []string{"create-admin"}, wantErr: errHelp},
		{name: "create-admin: missing email", args: []string{"create-admin", "-username", "root"}, wantErr: errHelp},
		{
			name:       "create-admin: short username",
			args:       []string{"create-admin", "-username", "ab", "-email", "ab@studio.dev"},
			wantErrStr: "username must be at least 3 characters",
		},
	})
}

func Test_commandLine_createAdmin(t *testing.T) {
	mock := setup(t)

	withPassword(t, "short", nil)
	runCLI(t, []cliTest{{
		name:       "short password",
		args:       []string{"create-admin", "-username", "root", "-email", "root@studio.dev"},
		wantErrStr: "password must be at least 8 characters",
	}})

	withPassword(t, "", errors.New("not a terminal"))
	runCLI(t, []cliTest{{
		name:       "password prompt fails",
		args:       []string{"create-admin", "-username", "root", "-email", "root@studio.dev"},
		wantErrStr: "not a terminal",
	}})

	withPassword(t, "correct horse", nil)
	mock.ExpectExec("INSERT INTO admins").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "root", "root@studio.dev", sqlmock.AnyArg(), true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO admins").WillReturnError(&pq.Error{Code: "23505"})
	runCLI(t, []cliTest{
		{name: "created", args: []string{"create-admin", "-username", " root ", "-email", "Root@Studio.dev"}},
		{
			name:       "duplicate",
			args:       []string{"create-admin", "-username", "root", "-email", "root@studio.dev"},
			wantErrStr: `admin "root" or email "root@studio.dev" already exists`,
		},
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_commandLine_seedPackages(t *testing.T) {
	mock := setup(t)
	for _, p := range store.DefaultPackages {
		mock.ExpectQuery("INSERT INTO service_packages").
			WithArgs(sqlmock.AnyArg(), p.Slug, p.Name, p.Tier, p.PriceCents, p.Description, sqlmock.AnyArg(), p.SortOrder).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	}

	runCLI(t, []cliTest{{name: "seed", args: []string{"seed-packages"}}})
	assert.NoError(t, mock.ExpectationsWereMet())

	for _, p := range store.DefaultPackages {
		assert.False(t, p.IsActive, "defaults are copied, not mutated")
	}
}
