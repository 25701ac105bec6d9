package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/oficina-erp/oficina/internal/store"
)

// decodeJSON decodes data keeping numbers as json.Number. Unknown fields are
// rejected to match the published schema.
func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Schema returns the JSON schema of the collection stored under key.
func Schema(key string) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	switch key {
	case store.KeyQuotes, store.KeySalesOrders, store.KeyPurchaseOrders:
		return reflector.Reflect([]ItemDocument{}), nil
	case store.KeyPayables, store.KeyReceivables:
		return reflector.Reflect([]LedgerDocument{}), nil
	case store.KeyProducts:
		return reflector.Reflect([]Product{}), nil
	}
	return nil, fmt.Errorf("no schema for key %q", key)
}
