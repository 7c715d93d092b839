package handlers

import (
	"parcelbee/internal/domain"
	"parcelbee/internal/service/auth"
	"parcelbee/internal/service/pricing"
)

func (r registerRequest) toInput() auth.RegisterInput {
	return auth.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
		Phone:    r.Phone,
	}
}

func sessionToResponse(msg string, s *auth.Session) sessionResponse {
	return sessionResponse{
		Message: msg,
		Token:   s.Token,
		User: userDTO{
			ID:    s.User.ID,
			Name:  s.User.Name,
			Email: s.User.Email,
			Role:  s.User.Role.String(),
		},
	}
}

// missingField returns the first required field absent from the payload.
func (r createDeliveryRequest) missingField() string {
	switch {
	case r.PickupAddress == nil:
		return "pickup_address"
	case r.DropAddress == nil:
		return "drop_address"
	case r.Description == nil:
		return "description"
	case r.Weight == nil:
		return "weight"
	}
	return ""
}

func (r createDeliveryRequest) toModel() domain.NewDeliveryRequest {
	return domain.NewDeliveryRequest{
		PickupAddress: *r.PickupAddress,
		DropAddress:   *r.DropAddress,
		Description:   *r.Description,
		WeightKg:      float64(*r.Weight),
		Coordinates: domain.Coordinates{
			PickupLat: r.PickupLat.float(),
			PickupLng: r.PickupLng.float(),
			DropLat:   r.DropLat.float(),
			DropLng:   r.DropLng.float(),
		},
		EstimatedPrice: r.EstimatedPrice.float(),
	}
}

func createdToResponse(d *domain.DeliveryRequest) createDeliveryResponse {
	return createDeliveryResponse{
		Message: "Delivery request created successfully",
		Delivery: createdDeliveryDTO{
			ID:            d.ID,
			PickupAddress: d.PickupAddress,
			DropAddress:   d.DropAddress,
			Description:   d.Description,
			Weight:        d.WeightKg,
			Status:        string(d.Status),
			CreatedAt:     d.CreatedAt,
		},
	}
}

func viewsToResponse(list []domain.DeliveryView) deliveryListResponse {
	out := make([]deliveryListItem, 0, len(list))
	for _, v := range list {
		item := deliveryListItem{
			ID:             v.ID,
			CustomerName:   v.Customer.Name,
			PickupAddress:  v.PickupAddress,
			DropAddress:    v.DropAddress,
			Description:    v.Description,
			Weight:         v.WeightKg,
			EstimatedPrice: v.EstimatedPrice,
			Status:         string(v.Status),
			CreatedAt:      v.CreatedAt,
			UpdatedAt:      v.UpdatedAt,
		}
		if v.Partner != nil {
			name := v.Partner.Name
			item.PartnerName = &name
		}
		out = append(out, item)
	}
	return deliveryListResponse{Count: len(out), Deliveries: out}
}

func contactToDTO(u domain.UserRef) contactDTO {
	return contactDTO{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func viewToDetail(v *domain.DeliveryView) deliveryDetailResponse {
	out := deliveryDetailResponse{
		ID:             v.ID,
		Customer:       contactToDTO(v.Customer),
		PickupAddress:  v.PickupAddress,
		DropAddress:    v.DropAddress,
		PickupLat:      v.Coordinates.PickupLat,
		PickupLng:      v.Coordinates.PickupLng,
		DropLat:        v.Coordinates.DropLat,
		DropLng:        v.Coordinates.DropLng,
		Description:    v.Description,
		Weight:         v.WeightKg,
		EstimatedPrice: v.EstimatedPrice,
		Status:         string(v.Status),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
		AcceptedAt:     v.AcceptedAt,
		DeliveredAt:    v.DeliveredAt,
	}
	if v.Partner != nil {
		p := contactToDTO(*v.Partner)
		out.Partner = &p
	}
	return out
}

func overviewToResponse(o domain.Overview) overviewResponse {
	d := o.Deliveries
	return overviewResponse{
		Users: userCountsDTO{
			Total:     o.Users.Total,
			Customers: o.Users.Customers,
			Partners:  o.Users.Partners,
		},
		Deliveries: deliveryCountsDTO{
			Total:     d.Total,
			Pending:   d.Count(domain.StatusPending),
			Accepted:  d.Count(domain.StatusAccepted),
			InTransit: d.Count(domain.StatusInTransit),
			Delivered: d.Count(domain.StatusDelivered),
			Cancelled: d.Count(domain.StatusCancelled),
		},
	}
}

func estimateToResponse(e pricing.Estimate) estimateResponse {
	out := estimateResponse{
		DistanceKm:     e.DistanceKm,
		EstimatedPrice: e.EstimatedPrice,
		Breakdown: breakdownDTO{
			BaseFee:     e.Breakdown.BaseFee,
			DistanceKm:  e.Breakdown.DistanceKm,
			DistanceFee: e.Breakdown.DistanceFee,
			WeightFee:   e.Breakdown.WeightFee,
			Subtotal:    e.Breakdown.Subtotal,
		},
		GeocodingUsed: e.GeocodingUsed,
	}
	if e.Pickup != nil && e.Drop != nil {
		out.PickupLat, out.PickupLng = &e.Pickup.Lat, &e.Pickup.Lng
		out.DropLat, out.DropLng = &e.Drop.Lat, &e.Drop.Lng
	}
	if !e.GeocodingUsed {
		reason := e.GeocodeError
		out.GeocodeError = &reason
	}
	return out
}
