package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolderValidate(t *testing.T) {
	id := 7

	tests := []struct {
		name    string
		holder  Holder
		wantErr bool
	}{
		{"warehouse without id", WarehouseHolder(), false},
		{"driver with id", DriverHolder(7), false},
		{"customer with id", CustomerHolder(12), false},
		{"warehouse with id", Holder{Type: HolderTypeWarehouse, ID: &id}, true},
		{"driver without id", Holder{Type: HolderTypeDriver}, true},
		{"customer without id", Holder{Type: HolderTypeCustomer}, true},
		{"unknown type", Holder{Type: "depot", ID: &id}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.holder.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
