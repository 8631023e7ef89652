package usecase

import (
	"testing"

	"pizza-ordering/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func assertInvalid(t *testing.T, err error, msg string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, msg, e.Message)
}

func TestCheckQuantity(t *testing.T) {
	assert.NoError(t, checkQuantity(1))
	assert.NoError(t, checkQuantity(100))
	assertInvalid(t, checkQuantity(0), "Quantity must be at least 1")
	assertInvalid(t, checkQuantity(101), "Quantity too large")
}

func TestCheckPriceSnapshot(t *testing.T) {
	assert.NoError(t, checkPriceSnapshot("Margherita", 10, 10))
	assert.NoError(t, checkPriceSnapshot("Margherita", 10, 12))
	assert.NoError(t, checkPriceSnapshot("Margherita", 10, 8))
	assertInvalid(t, checkPriceSnapshot("Margherita", 10, 12.5),
		"Price invalid for Margherita. Expected around $10.00, got $12.50")
	assertInvalid(t, checkPriceSnapshot("Margherita", 10, 7.99),
		"Price invalid for Margherita. Expected around $10.00, got $7.99")
}

func TestLineSubtotal(t *testing.T) {
	got, err := lineSubtotal("Pepperoni", 3, 9.99, nil)
	require.NoError(t, err)
	assert.Equal(t, 29.97, got)

	got, err = lineSubtotal("Pepperoni", 3, 9.99, ptr(29.98))
	require.NoError(t, err)
	assert.Equal(t, 29.97, got)

	_, err = lineSubtotal("Pepperoni", 3, 9.99, ptr(30.5))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizeAddress(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		got, err := normalizeAddress(entity.TextAddress("  12 Main St  "))
		require.NoError(t, err)
		assert.Equal(t, "12 Main St", got.Text)
		assert.False(t, got.Structured)
	})

	t.Run("text rejects markup", func(t *testing.T) {
		_, err := normalizeAddress(entity.TextAddress("12 Main <script>"))
		assertInvalid(t, err, "Delivery address contains invalid content")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := normalizeAddress(entity.TextAddress("   "))
		assertInvalid(t, err, "Delivery address is required")
	})

	t.Run("structured", func(t *testing.T) {
		got, err := normalizeAddress(entity.DeliveryAddress{
			Structured: true,
			Street:     " 1 Elm St ",
			City:       "Springfield",
			Phone:      "+1 (555) 123-4567",
		})
		require.NoError(t, err)
		assert.Equal(t, "1 Elm St", got.Street)
		assert.Equal(t, "+1 (555) 123-4567", got.Phone)
	})

	t.Run("structured without street", func(t *testing.T) {
		_, err := normalizeAddress(entity.DeliveryAddress{Structured: true, City: "Springfield"})
		assertInvalid(t, err, "Street address is required")
	})

	t.Run("bad phone", func(t *testing.T) {
		_, err := normalizeAddress(entity.DeliveryAddress{Structured: true, Street: "1 Elm", Phone: "call me"})
		assertInvalid(t, err, "Invalid phone number format")
	})
}

func TestCleanText(t *testing.T) {
	got, err := cleanText(nil, 10, "Notes")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = cleanText(ptr("<script>x</script>  "), 100, "Notes")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = cleanText(ptr("No onions"), 100, "Notes")
	require.NoError(t, err)
	assert.Equal(t, "No onions", *got)

	got, err = cleanText(ptr("Extra basil <scr<script>ipt>alert(1) javajavascript:script:go"), 100, "Special instructions")
	require.NoError(t, err)
	assert.Equal(t, "Extra basil alert(1) go", *got)

	_, err = cleanText(ptr("abcdefghijk"), 10, "Delivery notes")
	assertInvalid(t, err, "Delivery notes cannot exceed 10 characters")
}

func TestPricing(t *testing.T) {
	p := computePricing(20, 0.10, 3.99)
	assert.Equal(t, entity.Pricing{Subtotal: 20, Tax: 2, DeliveryFee: 3.99, Total: 25.99}, p)
	assert.NoError(t, checkPricing(p, 20))

	assertInvalid(t, checkPricing(p, 21), "Pricing subtotal must equal the sum of item subtotals (21.00)")

	bad := p
	bad.Total = 30
	assertInvalid(t, checkPricing(bad, 20), "Pricing total must equal subtotal + tax + delivery fee")

	small := entity.Pricing{Subtotal: 3, Tax: 0, DeliveryFee: 1, Total: 4}
	assertInvalid(t, checkPricing(small, 3), "Minimum order amount is $5.00")

	neg := entity.Pricing{Subtotal: 20, Tax: -1, DeliveryFee: 1, Total: 20}
	assertInvalid(t, checkPricing(neg, 20), "Pricing values cannot be negative")
}

func TestCheckTotalAmount(t *testing.T) {
	got, err := checkTotalAmount(nil, 25.99)
	require.NoError(t, err)
	assert.Equal(t, 25.99, got)

	got, err = checkTotalAmount(ptr(26.0), 25.99)
	require.NoError(t, err)
	assert.Equal(t, 26.0, got)

	_, err = checkTotalAmount(ptr(0.0), 25.99)
	assertInvalid(t, err, "Total amount must be greater than 0")

	_, err = checkTotalAmount(ptr(30.0), 25.99)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
