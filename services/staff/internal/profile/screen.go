// Package profile implements the staff profile screen: a role-guarded page that
// shows a bounded list of catalog products.
package profile

import (
	"context"

	"github.com/Skotchmaster/little_lovely/pkg/logging"
	"github.com/Skotchmaster/little_lovely/pkg/tokens"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/catalogclient"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/routes"
	"github.com/Skotchmaster/little_lovely/services/staff/internal/session"
)

const (
	StaffRole                 = tokens.RoleStaff
	MaxDisplayedProducts      = 20
	LoadProductsFailedMessage = "Unable to load products"
)

type Product = catalogclient.Product

type ProductSource interface {
	Products(ctx context.Context) ([]Product, error)
}

type Notifier interface {
	Error(message string)
}

type Navigator interface {
	Navigate(route string)
}

// Screen holds the state of one activation. Build a new Screen for every request.
type Screen struct {
	marker   session.Marker
	source   ProductSource
	notifier Notifier
	nav      Navigator

	products []Product
}

func NewScreen(marker session.Marker, source ProductSource, notifier Notifier, nav Navigator) *Screen {
	return &Screen{
		marker:   marker,
		source:   source,
		notifier: notifier,
		nav:      nav,
		products: []Product{},
	}
}

// Mount runs the role check and the product fetch. The fetch is issued even when
// the check redirects; the caller skips rendering once a redirect is recorded.
// Retrieval failures are reported through the notifier and never returned.
func (s *Screen) Mount(ctx context.Context) {
	if !s.marker.HasRole(StaffRole) {
		s.nav.Navigate(routes.Home)
	}

	s.products = s.loadProducts(ctx)
}

func (s *Screen) loadProducts(ctx context.Context) []Product {
	l := logging.FromContext(ctx).With("screen", "staff_profile")

	items, err := s.source.Products(ctx)
	if err != nil {
		l.Error("load_products_failed", "error", err)
		s.notifier.Error(LoadProductsFailedMessage)
		return []Product{}
	}
	if len(items) == 0 {
		return []Product{}
	}
	if len(items) > MaxDisplayedProducts {
		items = items[:MaxDisplayedProducts]
	}

	out := make([]Product, len(items))
	copy(out, items)
	return out
}

func (s *Screen) Products() []Product {
	return s.products
}
