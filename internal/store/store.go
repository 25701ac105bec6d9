// Package store provides the key-value persistence collaborator. Each key holds
// one collection serialized as a JSON array; the store treats values as opaque.
package store

import (
	"context"
	"fmt"
	"regexp"
)

// Collection keys.
const (
	KeyQuotes         = "quotes"
	KeySalesOrders    = "sales_orders"
	KeyPurchaseOrders = "purchase_orders"
	KeyPayables       = "payables"
	KeyReceivables    = "receivables"
	KeyProducts       = "products"
)

// Store reads and writes opaque values by key.
type Store interface {
	// Get returns the value for key. ok is false when the key has never been set.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// ValidateKey rejects keys that cannot be used as file names or table keys.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid store key %q", key)
	}
	return nil
}
