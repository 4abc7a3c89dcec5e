package order

import (
	"strings"
	"time"
)

// DeliveryInfo is the shipment record embedded in an order. DetailAddress
// and Memo are nullable by design; the required fields never go blank once
// set.
type DeliveryInfo struct {
	RecipientName  string
	RecipientPhone string
	RoadAddress    string
	DetailAddress  *string
	ZipCode        string
	Memo           *string
	TrackingNumber *string
	DeliveredAt    *time.Time
}

// DeliveryUpdate carries a field-by-field partial update.
type DeliveryUpdate struct {
	RecipientName  *string
	RecipientPhone *string
	RoadAddress    *string
	ZipCode        *string
	DetailAddress  *string
	Memo           *string
}

// Update ignores nil and blank values for the required fields, leaving the
// stored value untouched. DetailAddress and Memo are overwritten verbatim on
// every call, including to nil.
func (d *DeliveryInfo) Update(u DeliveryUpdate) {
	if hasText(u.RecipientName) {
		d.RecipientName = *u.RecipientName
	}
	if hasText(u.RecipientPhone) {
		d.RecipientPhone = *u.RecipientPhone
	}
	if hasText(u.RoadAddress) {
		d.RoadAddress = *u.RoadAddress
	}
	if hasText(u.ZipCode) {
		d.ZipCode = *u.ZipCode
	}
	d.DetailAddress = u.DetailAddress
	d.Memo = u.Memo
}

// MarkDelivered sets the tracking number and delivery timestamp
// unconditionally, even when the tracking number is nil.
func (d *DeliveryInfo) MarkDelivered(trackingNumber *string, at time.Time) {
	d.TrackingNumber = trackingNumber
	d.DeliveredAt = &at
}

func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
