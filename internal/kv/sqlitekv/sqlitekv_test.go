package sqlitekv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/idilsaglam/todolist/internal/kv"
	"github.com/idilsaglam/todolist/internal/kv/sqlitekv"
)

type SQLiteStoreTestSuite struct {
	suite.Suite
	path  string
	store *sqlitekv.Store
}

func (s *SQLiteStoreTestSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "sub", "todo.db")
	store, err := sqlitekv.New(s.path, zerolog.Nop())
	s.Require().NoError(err)
	s.store = store
}

func (s *SQLiteStoreTestSuite) TearDownTest() {
	if s.store != nil {
		s.store.Close()
	}
}

func TestSQLiteStoreTestSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreTestSuite))
}

func (s *SQLiteStoreTestSuite) TestNew_CreatesFile() {
	g := NewWithT(s.T())
	_, err := os.Stat(s.path)
	g.Expect(err).To(BeNil())
}

func (s *SQLiteStoreTestSuite) TestGet_Missing() {
	g := NewWithT(s.T())
	_, err := s.store.Get(context.Background(), "todos")
	g.Expect(err).To(MatchError(kv.ErrNotFound))
}

func (s *SQLiteStoreTestSuite) TestSet_Overwrites() {
	g := NewWithT(s.T())
	ctx := context.Background()
	g.Expect(s.store.Set(ctx, "todos", []byte(`[{"id":1}]`))).To(Succeed())
	g.Expect(s.store.Set(ctx, "todos", []byte(`[]`))).To(Succeed())

	got, err := s.store.Get(ctx, "todos")
	g.Expect(err).To(BeNil())
	g.Expect(string(got)).To(Equal(`[]`))
}

func (s *SQLiteStoreTestSuite) TestDelete() {
	g := NewWithT(s.T())
	ctx := context.Background()
	g.Expect(s.store.Set(ctx, "todos", []byte(`[]`))).To(Succeed())
	g.Expect(s.store.Delete(ctx, "todos")).To(Succeed())
	g.Expect(s.store.Delete(ctx, "todos")).To(Succeed())

	_, err := s.store.Get(ctx, "todos")
	g.Expect(err).To(MatchError(kv.ErrNotFound))
}

func (s *SQLiteStoreTestSuite) TestSurvivesReopen() {
	g := NewWithT(s.T())
	ctx := context.Background()
	g.Expect(s.store.Set(ctx, "todos", []byte(`[{"id":2}]`))).To(Succeed())
	g.Expect(s.store.Close()).To(Succeed())

	reopened, err := sqlitekv.New(s.path, zerolog.Nop())
	g.Expect(err).To(BeNil())
	s.store = reopened

	got, err := reopened.Get(ctx, "todos")
	g.Expect(err).To(BeNil())
	g.Expect(string(got)).To(Equal(`[{"id":2}]`))
}
