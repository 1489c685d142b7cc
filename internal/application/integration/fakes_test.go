package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/erp/storesync/internal/domain/catalog"
	"github.com/erp/storesync/internal/domain/integration"
	"github.com/erp/storesync/internal/domain/partner"
	"github.com/erp/storesync/internal/domain/shared"
	"github.com/erp/storesync/internal/domain/trade"
	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// In-memory store with transactional unit of work
// ---------------------------------------------------------------------------

// memStore keeps entities by value so that callers never share state with
// the store; a unit of work runs against a clone and swaps it in on commit.
type memStore struct {
	customers  map[uuid.UUID]partner.Customer
	orders     map[uuid.UUID]trade.Order
	products   map[uuid.UUID]catalog.Product
	variations map[uuid.UUID]catalog.ProductVariation
	attributes map[uuid.UUID]catalog.ManagedAttribute
	// failItems makes ReplaceItems fail for the order with that remote id
	failItems map[int64]error
}

func newMemStore() *memStore {
	return &memStore{
		customers:  make(map[uuid.UUID]partner.Customer),
		orders:     make(map[uuid.UUID]trade.Order),
		products:   make(map[uuid.UUID]catalog.Product),
		variations: make(map[uuid.UUID]catalog.ProductVariation),
		attributes: make(map[uuid.UUID]catalog.ManagedAttribute),
		failItems:  make(map[int64]error),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.failItems = s.failItems
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.variations {
		c.variations[k] = v
	}
	for k, v := range s.attributes {
		c.attributes[k] = v
	}
	return c
}

func (s *memStore) repositories() integration.Repositories {
	return integration.Repositories{
		Customers:  &memCustomerRepo{s: s},
		Orders:     &memOrderRepo{s: s},
		Products:   &memProductRepo{s: s},
		Variations: &memVariationRepo{s: s},
		Attributes: &memAttributeRepo{s: s},
	}
}

type memUnitOfWork struct {
	mu    sync.Mutex
	store *memStore
	calls int
	// hook runs inside every unit of work before fn; a panic or error
	// from it behaves like one raised by fn
	hook func(call int) error
}

func newMemUnitOfWork() *memUnitOfWork {
	return &memUnitOfWork{store: newMemStore()}
}

func (u *memUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos integration.Repositories) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.calls++
	tx := u.store.clone()
	if u.hook != nil {
		if err := u.hook(u.calls); err != nil {
			return err
		}
	}
	if err := fn(ctx, tx.repositories()); err != nil {
		return err
	}
	u.store = tx
	return nil
}

// committed returns the repositories of the committed state
func (u *memUnitOfWork) committed() integration.Repositories {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.store.repositories()
}

func (u *memUnitOfWork) customerCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.store.customers)
}

func (u *memUnitOfWork) orderCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.store.orders)
}

// ---------------------------------------------------------------------------
// Repositories
// ---------------------------------------------------------------------------

type memCustomerRepo struct{ s *memStore }

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.s.customers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *memCustomerRepo) FindByRemoteID(_ context.Context, remoteID int64) (*partner.Customer, error) {
	for _, c := range r.s.customers {
		if c.RemoteID != nil && *c.RemoteID == remoteID {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindByEmail(_ context.Context, email string) (*partner.Customer, error) {
	for _, c := range r.s.customers {
		if c.Email == partner.NormalizeEmail(email) {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	for id, c := range r.s.customers {
		if id == customer.ID {
			continue
		}
		if c.Email == customer.Email {
			return fmt.Errorf("unique violation: email %s", c.Email)
		}
		if c.RemoteID != nil && customer.RemoteID != nil && *c.RemoteID == *customer.RemoteID {
			return fmt.Errorf("unique violation: remote_id %d", *c.RemoteID)
		}
	}
	r.s.customers[customer.ID] = *customer
	return nil
}

type memOrderRepo struct{ s *memStore }

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (r *memOrderRepo) FindByRemoteID(_ context.Context, remoteID int64) (*trade.Order, error) {
	for _, o := range r.s.orders {
		if o.RemoteID == remoteID {
			return &o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) Save(_ context.Context, order *trade.Order) error {
	stored := *order
	if existing, ok := r.s.orders[order.ID]; ok {
		stored.Items = existing.Items
	} else {
		stored.Items = nil
	}
	r.s.orders[order.ID] = stored
	return nil
}

func (r *memOrderRepo) ReplaceItems(_ context.Context, order *trade.Order) error {
	if err := r.s.failItems[order.RemoteID]; err != nil {
		return err
	}
	stored, ok := r.s.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	stored.Items = append([]trade.OrderItem(nil), order.Items...)
	r.s.orders[order.ID] = stored
	return nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *memProductRepo) FindByRemoteID(_ context.Context, remoteID int64) (*catalog.Product, error) {
	for _, p := range r.s.products {
		if p.RemoteID == remoteID {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.s.products[product.ID] = *product
	return nil
}

type memVariationRepo struct{ s *memStore }

func (r *memVariationRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.ProductVariation, error) {
	v, ok := r.s.variations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &v, nil
}

func (r *memVariationRepo) FindAllForProduct(_ context.Context, productID uuid.UUID) ([]*catalog.ProductVariation, error) {
	result := make([]*catalog.ProductVariation, 0)
	for _, v := range r.s.variations {
		if v.ProductID == productID {
			v := v
			result = append(result, &v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *memVariationRepo) Save(_ context.Context, variation *catalog.ProductVariation) error {
	r.s.variations[variation.ID] = *variation
	return nil
}

func (r *memVariationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.variations[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.s.variations, id)
	return nil
}

type memAttributeRepo struct{ s *memStore }

func (r *memAttributeRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.ManagedAttribute, error) {
	a, ok := r.s.attributes[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &a, nil
}

func (r *memAttributeRepo) FindByTypeAndValue(_ context.Context, attrType, value string) (*catalog.ManagedAttribute, error) {
	for _, a := range r.s.attributes {
		if a.Type == attrType && a.Value == value {
			return &a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAttributeRepo) FindByType(_ context.Context, attrType string, activeOnly bool) ([]*catalog.ManagedAttribute, error) {
	result := make([]*catalog.ManagedAttribute, 0)
	for _, a := range r.s.attributes {
		if a.Type != attrType || (activeOnly && !a.Active) {
			continue
		}
		a := a
		result = append(result, &a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SortOrder != result[j].SortOrder {
			return result[i].SortOrder < result[j].SortOrder
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *memAttributeRepo) Save(_ context.Context, attribute *catalog.ManagedAttribute) error {
	for id, a := range r.s.attributes {
		if id != attribute.ID && a.Type == attribute.Type && a.Value == attribute.Value {
			return fmt.Errorf("unique violation: %s/%s", a.Type, a.Value)
		}
	}
	r.s.attributes[attribute.ID] = *attribute
	return nil
}

// ---------------------------------------------------------------------------
// Checkpoint repository
// ---------------------------------------------------------------------------

type memCheckpointRepo struct {
	mu   sync.Mutex
	rows map[integration.SyncDomain]integration.SyncCheckpoint
}

func newMemCheckpointRepo() *memCheckpointRepo {
	return &memCheckpointRepo{rows: make(map[integration.SyncDomain]integration.SyncCheckpoint)}
}

func (r *memCheckpointRepo) FindByDomain(_ context.Context, domain integration.SyncDomain) (*integration.SyncCheckpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp, ok := r.rows[domain]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &cp, nil
}

func (r *memCheckpointRepo) FindAll(_ context.Context) ([]*integration.SyncCheckpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]*integration.SyncCheckpoint, 0, len(r.rows))
	for _, cp := range r.rows {
		cp := cp
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Domain < result[j].Domain })
	return result, nil
}

func (r *memCheckpointRepo) CreateIfAbsent(_ context.Context, checkpoint *integration.SyncCheckpoint) (*integration.SyncCheckpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[checkpoint.Domain]; ok {
		return &existing, nil
	}
	r.rows[checkpoint.Domain] = *checkpoint
	stored := *checkpoint
	return &stored, nil
}

func (r *memCheckpointRepo) Save(_ context.Context, checkpoint *integration.SyncCheckpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[checkpoint.Domain] = *checkpoint
	return nil
}

func (r *memCheckpointRepo) TryBeginRun(_ context.Context, checkpoint *integration.SyncCheckpoint) (*integration.SyncCheckpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.rows[checkpoint.Domain]
	if !ok || current.IsRunning() || current.IsPaused() {
		return nil, nil
	}
	current.Status = checkpoint.Status
	current.LastAttemptedSync = checkpoint.LastAttemptedSync
	current.TotalRecordsProcessed = checkpoint.TotalRecordsProcessed
	current.FailedRecords = checkpoint.FailedRecords
	current.UpdatedAt = checkpoint.UpdatedAt
	r.rows[checkpoint.Domain] = current
	locked := current
	return &locked, nil
}

func (r *memCheckpointRepo) TryPause(_ context.Context, domain integration.SyncDomain, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.rows[domain]
	if !ok || current.IsRunning() {
		return false, nil
	}
	current.Pause(now)
	r.rows[domain] = current
	return true, nil
}

func (r *memCheckpointRepo) MarkInterrupted(_ context.Context, message string, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for domain, cp := range r.rows {
		if cp.IsRunning() {
			cp.Fail(message, now)
			r.rows[domain] = cp
			n++
		}
	}
	return n, nil
}

func (r *memCheckpointRepo) get(domain integration.SyncDomain) integration.SyncCheckpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[domain]
}

// ---------------------------------------------------------------------------
// Remote catalog
// ---------------------------------------------------------------------------

type fetchCall struct {
	domain        integration.SyncDomain
	page          int
	modifiedAfter *time.Time
}

// fakeRemote serves fixed pages; pages are 1-based. A page listed in
// failPages returns that error instead.
type fakeRemote struct {
	mu         sync.Mutex
	pageSize   int
	customers  [][]integration.RemoteCustomer
	orders     [][]integration.RemoteOrder
	products   [][]integration.RemoteProduct
	variations map[int64][]integration.RemoteVariation
	failPages  map[int]error
	varErr     error
	calls      []fetchCall
	// blockOn, when set, is closed by the test to release fetches
	blockOn chan struct{}
	started chan struct{}
}

func newFakeRemote(pageSize int) *fakeRemote {
	return &fakeRemote{
		pageSize:   pageSize,
		variations: make(map[int64][]integration.RemoteVariation),
		failPages:  make(map[int]error),
	}
}

func (f *fakeRemote) PageSize() int { return f.pageSize }

func (f *fakeRemote) record(domain integration.SyncDomain, page int, modifiedAfter *time.Time) error {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{domain: domain, page: page, modifiedAfter: modifiedAfter})
	err := f.failPages[page]
	block, started := f.blockOn, f.started
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}
	return err
}

func pageOf[T any](pages [][]T, page int) []T {
	if page < 1 || page > len(pages) {
		return nil
	}
	return pages[page-1]
}

func (f *fakeRemote) FetchCustomers(_ context.Context, page int, modifiedAfter *time.Time) ([]integration.RemoteCustomer, error) {
	if err := f.record(integration.SyncDomainCustomer, page, modifiedAfter); err != nil {
		return nil, err
	}
	return pageOf(f.customers, page), nil
}

func (f *fakeRemote) FetchOrders(_ context.Context, page int, modifiedAfter *time.Time) ([]integration.RemoteOrder, error) {
	if err := f.record(integration.SyncDomainOrder, page, modifiedAfter); err != nil {
		return nil, err
	}
	return pageOf(f.orders, page), nil
}

func (f *fakeRemote) FetchProducts(_ context.Context, page int, modifiedAfter *time.Time) ([]integration.RemoteProduct, error) {
	if err := f.record(integration.SyncDomainProduct, page, modifiedAfter); err != nil {
		return nil, err
	}
	return pageOf(f.products, page), nil
}

func (f *fakeRemote) FetchProductVariations(_ context.Context, productRemoteID int64) ([]integration.RemoteVariation, error) {
	if f.varErr != nil {
		return nil, f.varErr
	}
	return f.variations[productRemoteID], nil
}

func (f *fakeRemote) fetchedPages(domain integration.SyncDomain) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	pages := make([]int, 0)
	for _, c := range f.calls {
		if c.domain == domain {
			pages = append(pages, c.page)
		}
	}
	return pages
}

// ---------------------------------------------------------------------------
// Builders
// ---------------------------------------------------------------------------

func remoteCustomers(from, n int) []integration.RemoteCustomer {
	out := make([]integration.RemoteCustomer, 0, n)
	for i := from; i < from+n; i++ {
		out = append(out, integration.RemoteCustomer{
			RemoteID:  int64(i),
			Email:     fmt.Sprintf("customer%d@example.com", i),
			FirstName: "First",
			LastName:  fmt.Sprintf("Last%d", i),
		})
	}
	return out
}

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}
