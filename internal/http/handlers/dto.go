package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"
)

var errNotFinite = errors.New("number must be finite")

// number accepts both JSON numbers and numeric strings, as HTML forms post weights as text.
// NaN and infinities are rejected.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNotFinite
		}
		*n = number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = number(v)
	return nil
}

func (n *number) float() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

type userDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type registerRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Phone    *string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Message string  `json:"message"`
	Token   string  `json:"token"`
	User    userDTO `json:"user"`
}

type createDeliveryRequest struct {
	PickupAddress  *string `json:"pickup_address"`
	DropAddress    *string `json:"drop_address"`
	Description    *string `json:"description"`
	Weight         *number `json:"weight"`
	PickupLat      *number `json:"pickup_lat"`
	PickupLng      *number `json:"pickup_lng"`
	DropLat        *number `json:"drop_lat"`
	DropLng        *number `json:"drop_lng"`
	EstimatedPrice *number `json:"estimated_price"`
}

type createdDeliveryDTO struct {
	ID            int64     `json:"id"`
	PickupAddress string    `json:"pickup_address"`
	DropAddress   string    `json:"drop_address"`
	Description   string    `json:"description"`
	Weight        float64   `json:"weight"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type createDeliveryResponse struct {
	Message  string             `json:"message"`
	Delivery createdDeliveryDTO `json:"delivery"`
}

type deliveryListItem struct {
	ID             int64     `json:"id"`
	CustomerName   string    `json:"customer_name"`
	PartnerName    *string   `json:"partner_name"`
	PickupAddress  string    `json:"pickup_address"`
	DropAddress    string    `json:"drop_address"`
	Description    string    `json:"description"`
	Weight         float64   `json:"weight"`
	EstimatedPrice *float64  `json:"estimated_price"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type deliveryListResponse struct {
	Count      int                `json:"count"`
	Deliveries []deliveryListItem `json:"deliveries"`
}

type contactDTO struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

type deliveryDetailResponse struct {
	ID             int64       `json:"id"`
	Customer       contactDTO  `json:"customer"`
	Partner        *contactDTO `json:"partner"`
	PickupAddress  string      `json:"pickup_address"`
	DropAddress    string      `json:"drop_address"`
	PickupLat      *float64    `json:"pickup_lat"`
	PickupLng      *float64    `json:"pickup_lng"`
	DropLat        *float64    `json:"drop_lat"`
	DropLng        *float64    `json:"drop_lng"`
	Description    string      `json:"description"`
	Weight         float64     `json:"weight"`
	EstimatedPrice *float64    `json:"estimated_price"`
	Status         string      `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	AcceptedAt     *time.Time  `json:"accepted_at"`
	DeliveredAt    *time.Time  `json:"delivered_at"`
}

type acceptedDeliveryDTO struct {
	ID         int64      `json:"id"`
	Status     string     `json:"status"`
	AcceptedAt *time.Time `json:"accepted_at"`
}

type acceptDeliveryResponse struct {
	Message  string              `json:"message"`
	Delivery acceptedDeliveryDTO `json:"delivery"`
}

type updateStatusRequest struct {
	Status *string `json:"status"`
}

type statusDeliveryDTO struct {
	ID        int64     `json:"id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type updateStatusResponse struct {
	Message  string            `json:"message"`
	Delivery statusDeliveryDTO `json:"delivery"`
}

type userCountsDTO struct {
	Total     int64 `json:"total"`
	Customers int64 `json:"customers"`
	Partners  int64 `json:"partners"`
}

type deliveryCountsDTO struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Accepted  int64 `json:"accepted"`
	InTransit int64 `json:"in_transit"`
	Delivered int64 `json:"delivered"`
	Cancelled int64 `json:"cancelled"`
}

type overviewResponse struct {
	Users      userCountsDTO     `json:"users"`
	Deliveries deliveryCountsDTO `json:"deliveries"`
}

type estimateRequest struct {
	PickupAddress string  `json:"pickup_address"`
	DropAddress   string  `json:"drop_address"`
	Weight        *number `json:"weight"`
}

type breakdownDTO struct {
	BaseFee     float64 `json:"base_fee"`
	DistanceKm  float64 `json:"distance_km"`
	DistanceFee float64 `json:"distance_fee"`
	WeightFee   float64 `json:"weight_fee"`
	Subtotal    float64 `json:"subtotal"`
}

type estimateResponse struct {
	DistanceKm     float64      `json:"distance_km"`
	EstimatedPrice int64        `json:"estimated_price"`
	Breakdown      breakdownDTO `json:"breakdown"`
	PickupLat      *float64     `json:"pickup_lat"`
	PickupLng      *float64     `json:"pickup_lng"`
	DropLat        *float64     `json:"drop_lat"`
	DropLng        *float64     `json:"drop_lng"`
	GeocodingUsed  bool         `json:"geocoding_used"`
	GeocodeError   *string      `json:"geocode_error"`
}
