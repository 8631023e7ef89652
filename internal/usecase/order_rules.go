package usecase

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/pkg/utils"
)

const (
	maxItemQuantity     = 100
	minOrderTotal       = 5.00
	priceTolerance      = 0.20
	moneyEpsilon        = 0.01
	maxAddressLength    = 500
	maxStreetLength     = 200
	maxInstructionsLen  = 500
	maxDeliveryNotesLen = 200
)

var (
	phonePattern  = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

func moneyEqual(a, b float64) bool {
	return math.Abs(a-b) <= moneyEpsilon+1e-9
}

func checkQuantity(q int) error {
	switch {
	case q < 1:
		return invalid("Quantity must be at least 1")
	case q > maxItemQuantity:
		return invalid("Quantity too large")
	}
	return nil
}

// checkPriceSnapshot rejects a client price further than 20% from the catalog price.
func checkPriceSnapshot(name string, catalog, snapshot float64) error {
	if snapshot < 0 {
		return invalid(fmt.Sprintf("Price cannot be negative for %s", name))
	}
	if math.Abs(snapshot-catalog) > catalog*priceTolerance+1e-9 {
		return invalid(fmt.Sprintf("Price invalid for %s. Expected around $%.2f, got $%.2f", name, catalog, snapshot))
	}
	return nil
}

// lineSubtotal returns quantity*price, or the supplied subtotal when it agrees.
func lineSubtotal(name string, quantity int, price float64, supplied *float64) (float64, error) {
	want := utils.RoundMoney(float64(quantity) * price)
	if supplied == nil {
		return want, nil
	}
	if *supplied < 0 || !moneyEqual(*supplied, want) {
		return 0, invalid(fmt.Sprintf("Subtotal for %s must equal quantity x price (%.2f)", name, want))
	}
	return want, nil
}

// normalizeAddress trims and checks either address form.
func normalizeAddress(a entity.DeliveryAddress) (entity.DeliveryAddress, error) {
	if !a.Structured {
		text := strings.TrimSpace(a.Text)
		switch {
		case text == "":
			return a, invalid("Delivery address is required")
		case utf8.RuneCountInString(text) > maxAddressLength:
			return a, invalid("Delivery address is too long")
		case utils.ContainsMarkup(text):
			return a, invalid("Delivery address contains invalid content")
		}
		return entity.TextAddress(text), nil
	}

	out := entity.DeliveryAddress{
		Structured: true,
		Street:     strings.TrimSpace(a.Street),
		City:       strings.TrimSpace(a.City),
		ZipCode:    strings.TrimSpace(a.ZipCode),
	}
	if out.Street == "" {
		return a, invalid("Street address is required")
	}
	if utf8.RuneCountInString(out.Street) > maxStreetLength {
		return a, invalid("Street address is too long")
	}
	for _, part := range []string{out.Street, out.City, out.ZipCode} {
		if utils.ContainsMarkup(part) {
			return a, invalid("Delivery address contains invalid content")
		}
	}

	if phone := strings.TrimSpace(a.Phone); phone != "" {
		if !phonePattern.MatchString(phoneStripper.Replace(phone)) {
			return a, invalid("Invalid phone number format")
		}
		out.Phone = phone
	}
	return out, nil
}

// cleanText sanitizes free text; empty results become nil.
func cleanText(v *string, max int, field string) (*string, error) {
	if v == nil {
		return nil, nil
	}
	if utf8.RuneCountInString(*v) > max {
		return nil, invalid(fmt.Sprintf("%s cannot exceed %d characters", field, max))
	}
	s := strings.TrimSpace(utils.SanitizeHTML(*v))
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

func computePricing(subtotal, taxRate, deliveryFee float64) entity.Pricing {
	tax := utils.RoundMoney(subtotal * taxRate)
	return entity.Pricing{
		Subtotal:    utils.RoundMoney(subtotal),
		Tax:         tax,
		DeliveryFee: utils.RoundMoney(deliveryFee),
		Total:       utils.RoundMoney(subtotal + tax + deliveryFee),
	}
}

// checkPricing enforces non-negative parts, subtotal agreement with the items,
// total = subtotal + tax + fee and the minimum order amount.
func checkPricing(p entity.Pricing, itemsSubtotal float64) error {
	if p.Subtotal < 0 || p.Tax < 0 || p.DeliveryFee < 0 || p.Total < 0 {
		return invalid("Pricing values cannot be negative")
	}
	if !moneyEqual(p.Subtotal, itemsSubtotal) {
		return invalid(fmt.Sprintf("Pricing subtotal must equal the sum of item subtotals (%.2f)", itemsSubtotal))
	}
	if !moneyEqual(p.Total, p.Subtotal+p.Tax+p.DeliveryFee) {
		return invalid("Pricing total must equal subtotal + tax + delivery fee")
	}
	if p.Total < minOrderTotal-1e-9 {
		return invalid(fmt.Sprintf("Minimum order amount is $%.2f", minOrderTotal))
	}
	return nil
}

func checkTotalAmount(totalAmount *float64, pricingTotal float64) (float64, error) {
	if totalAmount == nil {
		return pricingTotal, nil
	}
	if *totalAmount <= 0 {
		return 0, invalid("Total amount must be greater than 0")
	}
	if !moneyEqual(*totalAmount, pricingTotal) {
		return 0, invalid(fmt.Sprintf("Total amount must equal pricing total (%.2f)", pricingTotal))
	}
	return utils.RoundMoney(*totalAmount), nil
}
