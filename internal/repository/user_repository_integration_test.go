package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/persistence"
	"github.com/spec-kit/user-service/internal/repository"
)

// PostgresUserRepositorySuite runs against the database named by
// TEST_POSTGRES_DSN, or a throwaway container when it is unset. The users
// table is truncated before every test.
type PostgresUserRepositorySuite struct {
	suite.Suite

	ctx  context.Context
	pg   *persistence.Postgres
	repo repository.UserRepository
}

func TestPostgresUserRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres suite skipped in short mode")
	}
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		dsn = startPostgresContainer(t)
	}
	suite.Run(t, &PostgresUserRepositorySuite{pg: mustConnect(t, dsn)})
}

func startPostgresContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("users_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container connection string: %v", err)
	}
	return dsn
}

func mustConnect(t *testing.T, dsn string) *persistence.Postgres {
	t.Helper()
	logger := zap.NewNop()
	pg, err := persistence.NewPostgres(context.Background(), config.PostgresConfig{DSN: dsn, MaxConns: 4}, logger)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	if err := persistence.RunMigrations(context.Background(), pg.PoolHandle(), logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pg
}

func (s *PostgresUserRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	_, err := s.pg.Pool.Exec(s.ctx, `TRUNCATE users`)
	s.Require().NoError(err)
	s.repo = repository.NewUserRepository(s.pg.PoolHandle())
}

func (s *PostgresUserRepositorySuite) TearDownSuite() {
	s.pg.Close()
}

func (s *PostgresUserRepositorySuite) TestInsertAndFind() {
	user := newUser("john@mail.com", registeredAt)

	saved, err := s.repo.Save(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(int64(1), saved.Version)

	found, err := s.repo.FindByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(saved.ID, found.ID)
	s.Equal("john@mail.com", found.Email)
	s.True(registeredAt.Equal(found.RegistrationDate))
}

func (s *PostgresUserRepositorySuite) TestFindMissing() {
	_, err := s.repo.FindByID(s.ctx, uuid.New())
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *PostgresUserRepositorySuite) TestEmailUniqueIgnoringCase() {
	_, err := s.repo.Save(s.ctx, newUser("john@mail.com", registeredAt))
	s.Require().NoError(err)

	exists, err := s.repo.ExistsByEmailIgnoreCase(s.ctx, "JOHN@MAIL.COM")
	s.Require().NoError(err)
	s.True(exists)

	_, err = s.repo.Save(s.ctx, newUser("John@Mail.com", registeredAt))
	var dup *domain.DuplicateEmailError
	s.ErrorAs(err, &dup)
}

func (s *PostgresUserRepositorySuite) TestStaleVersionRejected() {
	saved, err := s.repo.Save(s.ctx, newUser("john@mail.com", registeredAt))
	s.Require().NoError(err)

	fresh := saved.Clone()
	fresh.FirstName = "Jim"
	updated, err := s.repo.Save(s.ctx, fresh)
	s.Require().NoError(err)
	s.Equal(int64(2), updated.Version)

	stale := saved.Clone()
	stale.FirstName = "Jack"
	_, err = s.repo.Save(s.ctx, stale)
	var conflict *domain.ConcurrentModificationError
	s.ErrorAs(err, &conflict)
}

func (s *PostgresUserRepositorySuite) TestDuplicateIDOnInsertConflicts() {
	user := newUser("john@mail.com", registeredAt)
	_, err := s.repo.Save(s.ctx, user)
	s.Require().NoError(err)

	again := user.Clone()
	again.Email = "other@mail.com"
	_, err = s.repo.Save(s.ctx, again)
	var conflict *domain.ConcurrentModificationError
	s.ErrorAs(err, &conflict)
}

func (s *PostgresUserRepositorySuite) TestFindAllOrdered() {
	late, err := s.repo.Save(s.ctx, newUser("late@mail.com", registeredAt.Add(time.Second)))
	s.Require().NoError(err)
	early, err := s.repo.Save(s.ctx, newUser("early@mail.com", registeredAt))
	s.Require().NoError(err)

	users, err := s.repo.FindAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal(early.ID, users[0].ID)
	s.Equal(late.ID, users[1].ID)
}
