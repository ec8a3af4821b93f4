// Package memory implementa los puertos de persistencia en memoria.
// Se usa con STORAGE_DRIVER=memory y como doble de prueba de los casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/tokokita-api/internal/domain/entity"
	"github.com/jhoicas/tokokita-api/internal/domain/repository"
)

type state struct {
	products  map[string]*entity.Product
	suppliers map[string]*entity.Supplier
	batches   map[string]*entity.StockBatch
	purchases map[string]*entity.Purchase
	sales     map[string]*entity.Sale
	items     map[string][]*entity.SaleBatchItem // por sale_id
	seq       int64
}

func newState() *state {
	return &state{
		products:  make(map[string]*entity.Product),
		suppliers: make(map[string]*entity.Supplier),
		batches:   make(map[string]*entity.StockBatch),
		purchases: make(map[string]*entity.Purchase),
		sales:     make(map[string]*entity.Sale),
		items:     make(map[string][]*entity.SaleBatchItem),
	}
}

// clone copia profunda para poder restaurar tras un rollback.
func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = copySupplier(v)
	}
	for k, v := range s.batches {
		c.batches[k] = copyBatch(v)
	}
	for k, v := range s.purchases {
		c.purchases[k] = copyPurchase(v)
	}
	for k, v := range s.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range s.items {
		list := make([]*entity.SaleBatchItem, 0, len(v))
		for _, it := range v {
			list = append(list, copyItem(it))
		}
		c.items[k] = list
	}
	return c
}

// Store guarda todo el estado bajo un RWMutex. Las transacciones toman el lock de escritura
// completo, así que también serializan a cualquier otro escritor.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// scope enlaza un repo con el Store. unlocked indica que el llamador ya tiene el lock (repos atados a una tx).
type scope struct {
	s        *Store
	unlocked bool
}

func (sc scope) rlock() func() {
	if sc.unlocked {
		return func() {}
	}
	sc.s.mu.RLock()
	return sc.s.mu.RUnlock
}

func (sc scope) lock() func() {
	if sc.unlocked {
		return func() {}
	}
	sc.s.mu.Lock()
	return sc.s.mu.Unlock
}

// Products devuelve el repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{scope{s: s}} }

// Suppliers devuelve el repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{scope{s: s}} }

// Batches devuelve el repositorio de lotes.
func (s *Store) Batches() *StockBatchRepo { return &StockBatchRepo{scope{s: s}} }

// Purchases devuelve el repositorio de compras.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{scope{s: s}} }

// Sales devuelve el repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{scope{s: s}} }

// SaleItems devuelve el repositorio de consumos de lotes.
func (s *Store) SaleItems() *SaleBatchItemRepo { return &SaleBatchItemRepo{scope{s: s}} }

// inTx ejecuta fn con el lock de escritura tomado; si fn falla restaura el estado previo.
func (s *Store) inTx(ctx context.Context, fn func(sc scope) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(scope{s: s, unlocked: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// RunSettlement implementa inventory.TxRunner.
func (s *Store) RunSettlement(ctx context.Context, fn func(
	batchRepo repository.StockBatchRepository,
	saleRepo repository.SaleRepository,
	itemRepo repository.SaleBatchItemRepository,
) error) error {
	return s.inTx(ctx, func(sc scope) error {
		return fn(&StockBatchRepo{sc}, &SaleRepo{sc}, &SaleBatchItemRepo{sc})
	})
}

// RunPurchase implementa inventory.TxRunner.
func (s *Store) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	batchRepo repository.StockBatchRepository,
) error) error {
	return s.inTx(ctx, func(sc scope) error {
		return fn(&PurchaseRepo{sc}, &StockBatchRepo{sc})
	})
}

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	return &c
}

func copySupplier(p *entity.Supplier) *entity.Supplier {
	c := *p
	return &c
}

func copyBatch(b *entity.StockBatch) *entity.StockBatch {
	c := *b
	if b.PurchaseID != nil {
		v := *b.PurchaseID
		c.PurchaseID = &v
	}
	if b.SupplierID != nil {
		v := *b.SupplierID
		c.SupplierID = &v
	}
	if b.ExpiryDate != nil {
		v := *b.ExpiryDate
		c.ExpiryDate = &v
	}
	return &c
}

func copyPurchase(p *entity.Purchase) *entity.Purchase {
	c := *p
	if p.SupplierID != nil {
		v := *p.SupplierID
		c.SupplierID = &v
	}
	return &c
}

func copySale(p *entity.Sale) *entity.Sale {
	c := *p
	if p.ReversalOf != nil {
		v := *p.ReversalOf
		c.ReversalOf = &v
	}
	return &c
}

func copyItem(p *entity.SaleBatchItem) *entity.SaleBatchItem {
	c := *p
	return &c
}
