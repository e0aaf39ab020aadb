// Package memory provides a map-backed repository.Store used by tests.
// It mirrors the GORM store's observable behaviour: gorm.ErrRecordNotFound
// for missing rows, preloaded associations on reads, and transactional
// InTx semantics (serialized execution, full rollback on error).
package memory

import (
	"sort"
	"sync"

	"ecommerce_api/internal/models"
	"ecommerce_api/internal/repository"

	"gorm.io/gorm"
)

type tables struct {
	users      map[uint]models.User
	categories map[uint]models.Category
	products   map[uint]models.Product
	carts      map[uint]models.Cart
	cartItems  map[uint]models.CartItem
	orders     map[uint]models.Order
	payments   map[uint]models.Payment
	nextID     map[string]uint
}

func newTables() *tables {
	return &tables{
		users:      make(map[uint]models.User),
		categories: make(map[uint]models.Category),
		products:   make(map[uint]models.Product),
		carts:      make(map[uint]models.Cart),
		cartItems:  make(map[uint]models.CartItem),
		orders:     make(map[uint]models.Order),
		payments:   make(map[uint]models.Payment),
		nextID:     make(map[string]uint),
	}
}

func (t *tables) id(table string) uint {
	t.nextID[table]++
	return t.nextID[table]
}

func (t *tables) clone() *tables {
	c := newTables()
	for k, v := range t.users {
		c.users[k] = v
	}
	for k, v := range t.categories {
		c.categories[k] = v
	}
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, v := range t.carts {
		v.Items = append([]models.CartItem(nil), v.Items...)
		c.carts[k] = v
	}
	for k, v := range t.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range t.orders {
		v.Items = append([]models.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range t.payments {
		c.payments[k] = v
	}
	for k, v := range t.nextID {
		c.nextID[k] = v
	}
	return c
}

type Store struct {
	mu   sync.Mutex
	data *tables
}

func NewStore() *Store {
	return &Store{data: newTables()}
}

// enter acquires the store lock unless the caller already runs inside InTx.
func (s *Store) enter(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Users() repository.UserRepository          { return &userRepo{s: s} }
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s: s} }
func (s *Store) Products() repository.ProductRepository    { return &productRepo{s: s} }
func (s *Store) Carts() repository.CartRepository          { return &cartRepo{s: s} }
func (s *Store) Orders() repository.OrderRepository        { return &orderRepo{s: s} }
func (s *Store) Payments() repository.PaymentRepository    { return &paymentRepo{s: s} }

type txRepos struct {
	s *Store
}

func (t *txRepos) Users() repository.UserRepository          { return &userRepo{s: t.s, tx: true} }
func (t *txRepos) Categories() repository.CategoryRepository { return &categoryRepo{s: t.s, tx: true} }
func (t *txRepos) Products() repository.ProductRepository    { return &productRepo{s: t.s, tx: true} }
func (t *txRepos) Carts() repository.CartRepository          { return &cartRepo{s: t.s, tx: true} }
func (t *txRepos) Orders() repository.OrderRepository        { return &orderRepo{s: t.s, tx: true} }
func (t *txRepos) Payments() repository.PaymentRepository    { return &paymentRepo{s: t.s, tx: true} }

func (s *Store) InTx(fn func(r repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(&txRepos{s: s}); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

func sortedIDs[M any](m map[uint]M) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type userRepo struct {
	s  *Store
	tx bool
}

func (r *userRepo) Create(user *models.User) error {
	defer r.s.enter(r.tx)()
	user.ID = r.s.data.id("users")
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *userRepo) GetByID(id uint) (*models.User, error) {
	defer r.s.enter(r.tx)()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(username string) (*models.User, error) {
	defer r.s.enter(r.tx)()
	for _, id := range sortedIDs(r.s.data.users) {
		if u := r.s.data.users[id]; u.Username == username {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepo) GetByEmail(email string) (*models.User, error) {
	defer r.s.enter(r.tx)()
	for _, id := range sortedIDs(r.s.data.users) {
		if u := r.s.data.users[id]; u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type categoryRepo struct {
	s  *Store
	tx bool
}

func (r *categoryRepo) Create(category *models.Category) error {
	defer r.s.enter(r.tx)()
	category.ID = r.s.data.id("categories")
	r.s.data.categories[category.ID] = *category
	return nil
}

func (r *categoryRepo) GetByID(id uint) (*models.Category, error) {
	defer r.s.enter(r.tx)()
	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *categoryRepo) GetAll() ([]models.Category, error) {
	defer r.s.enter(r.tx)()
	out := make([]models.Category, 0, len(r.s.data.categories))
	for _, id := range sortedIDs(r.s.data.categories) {
		out = append(out, r.s.data.categories[id])
	}
	return out, nil
}

type productRepo struct {
	s  *Store
	tx bool
}

func (r *productRepo) withCategory(p models.Product) models.Product {
	if c, ok := r.s.data.categories[p.CategoryID]; ok {
		p.Category = c
	}
	return p
}

func (r *productRepo) Create(product *models.Product) error {
	defer r.s.enter(r.tx)()
	product.ID = r.s.data.id("products")
	r.s.data.products[product.ID] = *product
	return nil
}

func (r *productRepo) GetByID(id uint) (*models.Product, error) {
	defer r.s.enter(r.tx)()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p = r.withCategory(p)
	return &p, nil
}

func (r *productRepo) GetAll() ([]models.Product, error) {
	defer r.s.enter(r.tx)()
	out := make([]models.Product, 0, len(r.s.data.products))
	for _, id := range sortedIDs(r.s.data.products) {
		out = append(out, r.withCategory(r.s.data.products[id]))
	}
	return out, nil
}

func (r *productRepo) GetByCategoryID(categoryID uint) ([]models.Product, error) {
	defer r.s.enter(r.tx)()
	out := []models.Product{}
	for _, id := range sortedIDs(r.s.data.products) {
		if p := r.s.data.products[id]; p.CategoryID == categoryID {
			out = append(out, r.withCategory(p))
		}
	}
	return out, nil
}

func (r *productRepo) Update(product *models.Product) error {
	defer r.s.enter(r.tx)()
	if _, ok := r.s.data.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.data.products[product.ID] = *product
	return nil
}

func (r *productRepo) Delete(id uint) error {
	defer r.s.enter(r.tx)()
	delete(r.s.data.products, id)
	return nil
}

type cartRepo struct {
	s  *Store
	tx bool
}

func (r *cartRepo) itemsOf(cartID uint, withProduct bool) []models.CartItem {
	items := []models.CartItem{}
	for _, id := range sortedIDs(r.s.data.cartItems) {
		item := r.s.data.cartItems[id]
		if item.CartID != cartID {
			continue
		}
		if withProduct {
			if p, ok := r.s.data.products[item.ProductID]; ok {
				item.Product = p
			}
		}
		items = append(items, item)
	}
	return items
}

func (r *cartRepo) findByUserID(userID uint) (models.Cart, bool) {
	for _, id := range sortedIDs(r.s.data.carts) {
		if c := r.s.data.carts[id]; c.UserID == userID {
			return c, true
		}
	}
	return models.Cart{}, false
}

func (r *cartRepo) GetByUserID(userID uint) (*models.Cart, error) {
	defer r.s.enter(r.tx)()
	cart, ok := r.findByUserID(userID)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cart.Items = r.itemsOf(cart.ID, true)
	return &cart, nil
}

func (r *cartRepo) GetOrCreateByUserID(userID uint) (*models.Cart, error) {
	defer r.s.enter(r.tx)()
	if cart, ok := r.findByUserID(userID); ok {
		return &cart, nil
	}
	cart := models.Cart{ID: r.s.data.id("carts"), UserID: userID}
	r.s.data.carts[cart.ID] = cart
	return &cart, nil
}

func (r *cartRepo) GetByUserIDForUpdate(userID uint) (*models.Cart, error) {
	defer r.s.enter(r.tx)()
	cart, ok := r.findByUserID(userID)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cart.Items = r.itemsOf(cart.ID, false)
	return &cart, nil
}

func (r *cartRepo) FindItemByProduct(cartID, productID uint) (*models.CartItem, error) {
	defer r.s.enter(r.tx)()
	for _, id := range sortedIDs(r.s.data.cartItems) {
		if item := r.s.data.cartItems[id]; item.CartID == cartID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *cartRepo) GetItem(cartID, itemID uint) (*models.CartItem, error) {
	defer r.s.enter(r.tx)()
	item, ok := r.s.data.cartItems[itemID]
	if !ok || item.CartID != cartID {
		return nil, gorm.ErrRecordNotFound
	}
	return &item, nil
}

func (r *cartRepo) CreateItem(item *models.CartItem) error {
	defer r.s.enter(r.tx)()
	item.ID = r.s.data.id("cart_items")
	r.s.data.cartItems[item.ID] = *item
	return nil
}

func (r *cartRepo) UpdateItem(item *models.CartItem) error {
	defer r.s.enter(r.tx)()
	if _, ok := r.s.data.cartItems[item.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.data.cartItems[item.ID] = *item
	return nil
}

func (r *cartRepo) DeleteItem(cartID, itemID uint) error {
	defer r.s.enter(r.tx)()
	if item, ok := r.s.data.cartItems[itemID]; ok && item.CartID == cartID {
		delete(r.s.data.cartItems, itemID)
	}
	return nil
}

func (r *cartRepo) DeleteItems(cartID uint) error {
	defer r.s.enter(r.tx)()
	for id, item := range r.s.data.cartItems {
		if item.CartID == cartID {
			delete(r.s.data.cartItems, id)
		}
	}
	return nil
}

type orderRepo struct {
	s  *Store
	tx bool
}

func (r *orderRepo) withProducts(o models.Order) models.Order {
	items := append([]models.OrderItem(nil), o.Items...)
	for i := range items {
		if p, ok := r.s.data.products[items[i].ProductID]; ok {
			items[i].Product = p
		}
	}
	o.Items = items
	return o
}

func (r *orderRepo) Create(order *models.Order) error {
	defer r.s.enter(r.tx)()
	order.ID = r.s.data.id("orders")
	for i := range order.Items {
		order.Items[i].ID = r.s.data.id("order_items")
		order.Items[i].OrderID = order.ID
	}
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.s.data.orders[order.ID] = stored
	return nil
}

func (r *orderRepo) GetByID(id uint) (*models.Order, error) {
	defer r.s.enter(r.tx)()
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o = r.withProducts(o)
	return &o, nil
}

func (r *orderRepo) GetByUserID(userID uint) ([]models.Order, error) {
	defer r.s.enter(r.tx)()
	ids := sortedIDs(r.s.data.orders)
	out := []models.Order{}
	for i := len(ids) - 1; i >= 0; i-- {
		if o := r.s.data.orders[ids[i]]; o.UserID == userID {
			out = append(out, r.withProducts(o))
		}
	}
	return out, nil
}

func (r *orderRepo) GetAll() ([]models.Order, error) {
	defer r.s.enter(r.tx)()
	ids := sortedIDs(r.s.data.orders)
	out := []models.Order{}
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, r.withProducts(r.s.data.orders[ids[i]]))
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(id uint, status string) error {
	defer r.s.enter(r.tx)()
	o, ok := r.s.data.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	r.s.data.orders[id] = o
	return nil
}

type paymentRepo struct {
	s  *Store
	tx bool
}

func (r *paymentRepo) Create(payment *models.Payment) error {
	defer r.s.enter(r.tx)()
	payment.ID = r.s.data.id("payments")
	r.s.data.payments[payment.ID] = *payment
	return nil
}

func (r *paymentRepo) GetByID(id uint) (*models.Payment, error) {
	defer r.s.enter(r.tx)()
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *paymentRepo) GetByCheckoutRequestID(checkoutRequestID string) (*models.Payment, error) {
	defer r.s.enter(r.tx)()
	for _, id := range sortedIDs(r.s.data.payments) {
		if p := r.s.data.payments[id]; p.CheckoutRequestID == checkoutRequestID {
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *paymentRepo) GetByOrderID(orderID uint) ([]models.Payment, error) {
	defer r.s.enter(r.tx)()
	out := []models.Payment{}
	for _, id := range sortedIDs(r.s.data.payments) {
		if p := r.s.data.payments[id]; p.OrderID == orderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *paymentRepo) Update(payment *models.Payment) error {
	defer r.s.enter(r.tx)()
	if _, ok := r.s.data.payments[payment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.s.data.payments[payment.ID] = *payment
	return nil
}
