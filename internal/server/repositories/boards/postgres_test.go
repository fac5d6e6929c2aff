package boards

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkarlsson/boardauth/internal/common"
	"github.com/mkarlsson/boardauth/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+boards\b.*VALUES\s*\(\$1,\s*\$2\)\s*RETURNING\s+updated_at\s*$`

	updated := time.Now()
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "alice").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))

	got, err := repo.Create(context.Background(), &models.Board{Title: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected generated ID, got empty")
	}
	if !got.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected updated_at: %v", got.UpdatedAt)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+boards\b`

	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "alice").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Board{Title: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestCreateMembership_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+memberships\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`

	mock.ExpectExec(q).
		WithArgs("u1", "b1", models.RoleOwner).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateMembership(context.Background(), &models.Membership{
		UserID: "u1", BoardID: "b1", Role: models.RoleOwner,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateMembership_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+memberships\b`

	mock.ExpectExec(q).
		WithArgs("u1", "b1", models.RoleOwner).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "memberships_pkey"})

	err := repo.CreateMembership(context.Background(), &models.Membership{
		UserID: "u1", BoardID: "b1", Role: models.RoleOwner,
	})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
}

func TestListIDsByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+board_id\s+FROM\s+memberships\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+board_id\s*$`

	rows := sqlmock.NewRows([]string{"board_id"}).AddRow("b1").AddRow("b2")
	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(rows)

	ids, err := repo.ListIDsByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "b1" || ids[1] != "b2" {
		t.Fatalf("unexpected ids: %v", ids)
	}
}

func TestListIDsByUser_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+board_id\s+FROM\s+memberships\b`

	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(sqlmock.NewRows([]string{"board_id"}))

	ids, err := repo.ListIDsByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", ids)
	}
}

func TestListByUser_OrderedByUpdatedAtDesc(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+b\.id,\s*b\.title,\s*b\.updated_at\s+FROM\s+boards\s+b\s+JOIN\s+memberships\s+m\b.*ORDER\s+BY\s+b\.updated_at\s+DESC\s*$`

	newer := time.Now()
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "title", "updated_at"}).
		AddRow("b2", "second", newer).
		AddRow("b1", "first", older)

	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(rows)

	boards, err := repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(boards))
	}
	if boards[0].ID != "b2" || boards[1].ID != "b1" {
		t.Fatalf("unexpected order: %+v", boards)
	}
}

func TestListByUser_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+b\.id,\s*b\.title,\s*b\.updated_at\b`

	mock.ExpectQuery(q).WithArgs("u1").WillReturnError(errors.New("db err"))

	_, err := repo.ListByUser(context.Background(), "u1")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
