package repository

import "gorm.io/gorm"

// Repositories bundles the per-aggregate repositories. Operations that must
// be atomic receive a transaction-bound bundle through Store.InTx instead of
// sharing ambient session state.
type Repositories interface {
	Users() UserRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Payments() PaymentRepository
}

type Store interface {
	Repositories

	// InTx runs fn with every repository bound to one database transaction.
	// A non-nil error from fn rolls the whole transaction back.
	InTx(fn func(r Repositories) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository         { return &userRepository{db: s.db} }
func (s *gormStore) Categories() CategoryRepository { return &categoryRepository{db: s.db} }
func (s *gormStore) Products() ProductRepository   { return &productRepository{db: s.db} }
func (s *gormStore) Carts() CartRepository         { return &cartRepository{db: s.db} }
func (s *gormStore) Orders() OrderRepository       { return &orderRepository{db: s.db} }
func (s *gormStore) Payments() PaymentRepository   { return &paymentRepository{db: s.db} }

func (s *gormStore) InTx(fn func(r Repositories) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
