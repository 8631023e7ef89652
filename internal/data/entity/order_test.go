package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusPreparing, false},
		{StatusConfirmed, StatusPreparing, true},
		{StatusPreparing, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusConfirmed, StatusPending, false},
		{StatusPending, OrderStatus("shipped"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestOrderStatus_IsFinal(t *testing.T) {
	assert.True(t, StatusDelivered.IsFinal())
	assert.True(t, StatusCancelled.IsFinal())
	assert.False(t, StatusPending.IsFinal())
	assert.False(t, OrderStatus("bogus").IsFinal())
}

func TestParseOrderStatus(t *testing.T) {
	s, ok := ParseOrderStatus("out_for_delivery")
	assert.True(t, ok)
	assert.Equal(t, StatusOutForDelivery, s)

	_, ok = ParseOrderStatus("shipped")
	assert.False(t, ok)
}

func TestTransitionPath(t *testing.T) {
	path, ok := TransitionPath(StatusPending, StatusDelivered)
	require.True(t, ok)
	assert.Equal(t, []OrderStatus{StatusConfirmed, StatusPreparing, StatusOutForDelivery, StatusDelivered}, path)

	path, ok = TransitionPath(StatusPreparing, StatusCancelled)
	require.True(t, ok)
	assert.Equal(t, []OrderStatus{StatusCancelled}, path)

	_, ok = TransitionPath(StatusDelivered, StatusCancelled)
	assert.False(t, ok)

	_, ok = TransitionPath(StatusPreparing, StatusConfirmed)
	assert.False(t, ok)

	_, ok = TransitionPath(StatusPending, StatusPending)
	assert.False(t, ok)
}

func TestOrder_ApplyStatus(t *testing.T) {
	admin := uuid.New()
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	o := &Order{Status: StatusPending}

	require.NoError(t, o.ApplyStatus(StatusConfirmed, &admin, at))
	assert.Equal(t, StatusConfirmed, o.Status)
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, StatusConfirmed, o.StatusHistory[0].Status)
	assert.Equal(t, &admin, o.StatusHistory[0].UpdatedBy)

	err := o.ApplyStatus(StatusDelivered, nil, at)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Len(t, o.StatusHistory, 1)
}

func TestEstimatedDeliveryAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(60*time.Minute), EstimatedDeliveryAt(now, 2))
	assert.Equal(t, now.Add(30*time.Minute), EstimatedDeliveryAt(now, 0))
}

func TestDeliveryAddress_JSON(t *testing.T) {
	var a DeliveryAddress
	require.NoError(t, json.Unmarshal([]byte(`"221B Baker Street"`), &a))
	assert.False(t, a.Structured)
	assert.Equal(t, "221B Baker Street", a.String())

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.JSONEq(t, `"221B Baker Street"`, string(out))

	var b DeliveryAddress
	require.NoError(t, json.Unmarshal([]byte(`{"street":"1 Main St","city":"Springfield","zipCode":"12345","phone":"+1 555 0100"}`), &b))
	assert.True(t, b.Structured)
	assert.Equal(t, "12345", b.ZipCode)
	assert.Equal(t, "1 Main St, Springfield, 12345", b.String())

	out, err = json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"street":"1 Main St","city":"Springfield","zip_code":"12345","phone":"+1 555 0100"}`, string(out))

	var c DeliveryAddress
	assert.Error(t, json.Unmarshal([]byte(`42`), &c))
}
