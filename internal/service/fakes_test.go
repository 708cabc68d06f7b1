package service

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"storefront-service/internal/apperr"
	"storefront-service/internal/entity"
	"storefront-service/internal/pesapal"
)

type fakeCartStore struct {
	items map[string][]entity.CartItem
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{items: map[string][]entity.CartItem{}}
}

func (f *fakeCartStore) GetItems(_ context.Context, userID string) ([]entity.CartItem, error) {
	return f.items[userID], nil
}

func (f *fakeCartStore) AddItem(_ context.Context, userID, productID string, quantity int) error {
	for i, item := range f.items[userID] {
		if item.ProductID == productID {
			f.items[userID][i].Quantity += quantity
			return nil
		}
	}
	f.items[userID] = append(f.items[userID], entity.CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

func (f *fakeCartStore) RemoveItem(_ context.Context, userID, productID string) error {
	kept := f.items[userID][:0]
	for _, item := range f.items[userID] {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	f.items[userID] = kept
	return nil
}

func (f *fakeCartStore) Clear(_ context.Context, userID string) error {
	delete(f.items, userID)
	return nil
}

type fakeProductStore struct {
	products map[string]*entity.Product
}

func newFakeProductStore(products ...*entity.Product) *fakeProductStore {
	f := &fakeProductStore{products: map[string]*entity.Product{}}
	for _, p := range products {
		cp := *p
		f.products[p.ID] = &cp
	}
	return f
}

func (f *fakeProductStore) GetProductByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) GetProducts(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeProductStore) CreateProduct(_ context.Context, product *entity.Product) error {
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductStore) UpdateProduct(_ context.Context, product *entity.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return fmt.Errorf("product %s: %w", product.ID, apperr.ErrNotFound)
	}
	cp := *product
	f.products[product.ID] = &cp
	return nil
}

func (f *fakeProductStore) DeleteProduct(_ context.Context, id string) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) AdjustStock(_ context.Context, id string, delta int) (bool, error) {
	p, ok := f.products[id]
	if !ok || p.Stock+delta < 0 {
		return false, nil
	}
	p.Stock += delta
	return true, nil
}

func (f *fakeProductStore) setPrice(id, price string) {
	f.products[id].Price = decimal.RequireFromString(price)
}

type fakeOrderStore struct {
	orders    map[string]*entity.Order
	createErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[string]*entity.Order{}}
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, order *entity.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *order
	cp.Items = append([]entity.OrderItem(nil), order.Items...)
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeOrderStore) GetOrderByID(_ context.Context, id string) (*entity.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (f *fakeOrderStore) GetOrdersByUser(_ context.Context, userID string) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatusFrom(_ context.Context, id, from, to string) (bool, error) {
	o, ok := f.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

type fakePaymentStore struct {
	payments  map[string]*entity.Payment // keyed by tracking id
	orders    *fakeOrderStore
	carts     *fakeCartStore
	createErr error
}

func newFakePaymentStore(orders *fakeOrderStore, carts *fakeCartStore) *fakePaymentStore {
	return &fakePaymentStore{
		payments: map[string]*entity.Payment{},
		orders:   orders,
		carts:    carts,
	}
}

func (f *fakePaymentStore) CreateForOrder(_ context.Context, payment *entity.Payment) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *payment
	f.payments[payment.TrackingID] = &cp
	if o, ok := f.orders.orders[payment.OrderID]; ok {
		o.PaymentID = payment.ID
	}
	delete(f.carts.items, payment.UserID)
	return nil
}

func (f *fakePaymentStore) GetByTrackingID(_ context.Context, trackingID string) (*entity.Payment, error) {
	p, ok := f.payments[trackingID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePaymentStore) SetStatusByTrackingID(_ context.Context, trackingID, status string) (*entity.Payment, error) {
	p, ok := f.payments[trackingID]
	if !ok {
		return nil, nil
	}
	p.Status = status
	cp := *p
	return &cp, nil
}

type fakeGateway struct {
	submitResp  *pesapal.OrderResponse
	submitErr   error
	statusResp  *pesapal.TransactionStatus
	statusErr   error
	submitCalls int
	statusCalls int
	lastOrder   pesapal.OrderRequest
}

func (f *fakeGateway) SubmitOrder(_ context.Context, order pesapal.OrderRequest) (*pesapal.OrderResponse, error) {
	f.submitCalls++
	f.lastOrder = order
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitResp, nil
}

func (f *fakeGateway) GetTransactionStatus(_ context.Context, _ string) (*pesapal.TransactionStatus, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.statusResp, nil
}

type fakeEvents struct {
	msgs []kafka.Message
}

func (f *fakeEvents) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeEvents) keys() []string {
	var out []string
	for _, m := range f.msgs {
		out = append(out, string(m.Key))
	}
	return out
}
