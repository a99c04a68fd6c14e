package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePricing(t *testing.T) {
	tests := []struct {
		name          string
		price         int
		isReturning   bool
		isFirstTime   bool
		wantFinal     int
		wantSavings   int
		wantDiscounts []DiscountKind
	}{
		{name: "no discount", price: 150, wantFinal: 150, wantSavings: 0, wantDiscounts: []DiscountKind{}},
		{name: "first time", price: 150, isFirstTime: true, wantFinal: 128, wantSavings: 22, wantDiscounts: []DiscountKind{DiscountFirstTime}},
		{name: "returning", price: 150, isReturning: true, wantFinal: 135, wantSavings: 15, wantDiscounts: []DiscountKind{DiscountReturning}},
		{name: "both, multiplicative", price: 150, isReturning: true, isFirstTime: true, wantFinal: 115, wantSavings: 35, wantDiscounts: []DiscountKind{DiscountReturning, DiscountFirstTime}},
		{name: "formation first time", price: 300, isFirstTime: true, wantFinal: 255, wantSavings: 45, wantDiscounts: []DiscountKind{DiscountFirstTime}},
		{name: "audit both", price: 250, isReturning: true, isFirstTime: true, wantFinal: 191, wantSavings: 59, wantDiscounts: []DiscountKind{DiscountReturning, DiscountFirstTime}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePricing(tt.price, tt.isReturning, tt.isFirstTime)

			assert.Equal(t, tt.price, got.OriginalPrice)
			assert.Equal(t, tt.wantFinal, got.FinalPrice)
			assert.Equal(t, tt.wantSavings, got.Savings)

			kinds := make([]DiscountKind, 0, len(got.Discounts))
			for _, d := range got.Discounts {
				kinds = append(kinds, d.Kind)
			}
			assert.Equal(t, tt.wantDiscounts, kinds)
		})
	}
}
