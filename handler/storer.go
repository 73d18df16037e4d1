package handler

import (
	"errors"
	"fmt"

	"github.com/middlemark/middlemark"
	"github.com/middlemark/middlemark/postgres"
)

const perPage = 25

// A Storer is the database surface the route handlers consume.
//
// Keeping handlers behind this interface means query composition is tested
// against the database in the postgres-backed implementation,
// while handlers are tested with a stub.
type Storer interface {
	UserByEmail(email string) (middlemark.User, error)
	UserByID(id uint) (middlemark.User, error)
	Users(page int64) (postgres.PagedData, error)
	UpdateUser(id uint, updates postgres.Updates) error

	CreateEscrow(e *middlemark.Escrow) error
	EscrowByID(id uint) (middlemark.Escrow, error)
	EscrowsFor(userID uint) ([]middlemark.Escrow, error)
	OpenEscrowsFor(userID uint) ([]middlemark.Escrow, error)
	ReleaseEscrow(e *middlemark.Escrow) error

	FundEscrow(e *middlemark.Escrow, p *middlemark.Payment) error
	PaymentsFor(userID uint) ([]middlemark.Payment, error)
	RecentPaymentsFor(userID uint, limit int) ([]middlemark.Payment, error)
}

// A DBStorer implements Storer over a *postgres.DB.
type DBStorer struct {
	db *postgres.DB
}

// NewDBStorer constructs a *DBStorer.
func NewDBStorer(db *postgres.DB) *DBStorer { return &DBStorer{db: db} }

func (s *DBStorer) UserByEmail(email string) (middlemark.User, error) {
	var u middlemark.User
	err := s.db.Where("email = ?", email).First(&u)
	return u, err
}

func (s *DBStorer) UserByID(id uint) (middlemark.User, error) {
	var u middlemark.User
	err := s.db.Where("id = ?", id).First(&u)
	return u, err
}

func (s *DBStorer) Users(page int64) (postgres.PagedData, error) {
	return s.db.Model(&[]middlemark.User{}).Order("created_at DESC").Paged(page, perPage)
}

func (s *DBStorer) UpdateUser(id uint, updates postgres.Updates) error {
	return s.db.Model(new(middlemark.User)).Where("id = ?", id).Update(updates)
}

func (s *DBStorer) CreateEscrow(e *middlemark.Escrow) error { return s.db.Create(e) }

func (s *DBStorer) EscrowByID(id uint) (middlemark.Escrow, error) {
	var e middlemark.Escrow
	err := s.db.Preload("Buyer").Preload("Seller").Preload("Payments").Where("id = ?", id).First(&e)
	return e, err
}

func (s *DBStorer) EscrowsFor(userID uint) ([]middlemark.Escrow, error) {
	var es []middlemark.Escrow
	err := s.db.Where("buyer_id = ?", userID).Or("seller_id = ?", userID).Order("created_at DESC").Find(&es)
	if err != nil && !errors.Is(err, middlemark.ErrNotFound) {
		return nil, err
	}

	return es, nil
}

func (s *DBStorer) OpenEscrowsFor(userID uint) ([]middlemark.Escrow, error) {
	var es []middlemark.Escrow
	err := s.db.
		Where("state IN ?", []middlemark.EscrowState{middlemark.EscrowOpen, middlemark.EscrowFunded}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&es)
	if err != nil && !errors.Is(err, middlemark.ErrNotFound) {
		return nil, err
	}

	return es, nil
}

// ReleaseEscrow persists an already-transitioned Escrow,
// guarding against a concurrent release by matching on the prior state.
func (s *DBStorer) ReleaseEscrow(e *middlemark.Escrow) error {
	updates := postgres.Updates{
		"state":       e.State,
		"released_at": e.ReleasedAt,
	}

	return s.db.
		Model(new(middlemark.Escrow)).
		Where("id = ?", e.ID).
		Where("state = ?", middlemark.EscrowFunded).
		Update(updates)
}

// FundEscrow records the Payment and moves the Escrow to funded in one transaction.
func (s *DBStorer) FundEscrow(e *middlemark.Escrow, p *middlemark.Payment) error {
	tx := s.db.Begin()

	if err := tx.Create(p); err != nil {
		tx.Rollback()
		return err
	}

	err := tx.
		Model(new(middlemark.Escrow)).
		Where("id = ?", e.ID).
		Where("state = ?", middlemark.EscrowOpen).
		Update(postgres.Updates{"state": middlemark.EscrowFunded})
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("funding escrow %d: %w", e.ID, err)
	}

	return tx.Commit()
}

func (s *DBStorer) PaymentsFor(userID uint) ([]middlemark.Payment, error) {
	var ps []middlemark.Payment
	err := s.db.Preload("Escrow").Where("payer_id = ?", userID).Order("created_at DESC").Find(&ps)
	if err != nil && !errors.Is(err, middlemark.ErrNotFound) {
		return nil, err
	}

	return ps, nil
}

func (s *DBStorer) RecentPaymentsFor(userID uint, limit int) ([]middlemark.Payment, error) {
	var ps []middlemark.Payment
	err := s.db.Where("payer_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&ps)
	if err != nil && !errors.Is(err, middlemark.ErrNotFound) {
		return nil, err
	}

	return ps, nil
}
