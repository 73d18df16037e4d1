package handler_test

import (
	"context"
	"net/http"
	"os"
	"testing"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/auth"
	"github.com/middlemark/middlemark/handler"
	"github.com/middlemark/middlemark/http/resp"
	"github.com/middlemark/middlemark/http/session"
	"github.com/middlemark/middlemark/http/template"
	"github.com/middlemark/middlemark/logger"
	"github.com/middlemark/middlemark/postgres"
	"github.com/stretchr/testify/require"
)

// stubStorer fakes the database surface handlers consume.
// Set the field for the call under test; zero-values return errs where natural.
type stubStorer struct {
	user    middlemark.User
	userErr error

	escrow    middlemark.Escrow
	escrowErr error
	escrows   []middlemark.Escrow
	listErr   error

	payments   []middlemark.Payment
	paymentErr error

	funded   bool
	released bool
	updated  postgres.Updates
}

func (s *stubStorer) UserByEmail(string) (middlemark.User, error) { return s.user, s.userErr }
func (s *stubStorer) UserByID(uint) (middlemark.User, error)     { return s.user, s.userErr }
func (s *stubStorer) Users(page int64) (postgres.PagedData, error) {
	return postgres.PagedData{Page: page}, s.listErr
}
func (s *stubStorer) UpdateUser(_ uint, u postgres.Updates) error {
	s.updated = u
	return s.userErr
}

func (s *stubStorer) CreateEscrow(e *middlemark.Escrow) error {
	e.ID = 1
	return s.escrowErr
}
func (s *stubStorer) EscrowByID(uint) (middlemark.Escrow, error) { return s.escrow, s.escrowErr }
func (s *stubStorer) EscrowsFor(uint) ([]middlemark.Escrow, error) {
	return s.escrows, s.listErr
}
func (s *stubStorer) OpenEscrowsFor(uint) ([]middlemark.Escrow, error) {
	return s.escrows, s.listErr
}
func (s *stubStorer) ReleaseEscrow(*middlemark.Escrow) error {
	s.released = true
	return s.escrowErr
}

func (s *stubStorer) FundEscrow(*middlemark.Escrow, *middlemark.Payment) error {
	s.funded = true
	return s.paymentErr
}
func (s *stubStorer) PaymentsFor(uint) ([]middlemark.Payment, error) {
	return s.payments, s.paymentErr
}
func (s *stubStorer) RecentPaymentsFor(uint, int) ([]middlemark.Payment, error) {
	return s.payments, s.paymentErr
}

func newTestHandler(db handler.Storer) *handler.Handler {
	return newTestHandlerWithAuth(db, nil)
}

func newTestHandlerWithAuth(db handler.Storer, a auth.AuthService) *handler.Handler {
	p := template.NewParser(
		template.WithFS(os.DirFS("..")),
		template.WithFn(template.Env(middlemark.Testing)),
	)

	d := resp.NewResponder(
		resp.WithAuthTemplate("tmpl/layout/authenticated_base.tmpl"),
		resp.WithErrTemplate("tmpl/error.tmpl"),
		resp.WithParser(p),
		resp.WithRootUrl("https://example.com"),
		resp.WithUnauthTemplate("tmpl/layout/unauthenticated_base.tmpl"),
	)

	return handler.New(d, db, logger.New(), a)
}

// reqCtx stashes a stub-backed session, and optionally a user, on the request.
func reqCtx(t *testing.T, r *http.Request, u *middlemark.User) (session.Session, *http.Request) {
	t.Helper()

	s, err := session.NewStub(false).GetSession(r)
	require.Nil(t, err)

	ctx := context.WithValue(r.Context(), middlemark.SessionKey, s)
	if u != nil {
		ctx = context.WithValue(ctx, middlemark.CurrentUserKey, *u)
	}

	return s, r.Clone(ctx)
}

func grantedUser(id uint) *middlemark.User {
	u := &middlemark.User{
		AccessState: middlemark.AccessGranted,
		Email:       "buyer@example.com",
		Name:        "Buyer",
	}
	u.ID = id

	return u
}
