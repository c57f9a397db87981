package model

import "time"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ReturnRecord is a normalized row from a marketplace return report, ready
// for bulk insertion. Columns and Values are aligned index for index and
// match the destination table exactly, in declared order.
type ReturnRecord interface {
	// Columns returns the destination column names in declared order.
	Columns() []string

	// Values returns driver-ready values aligned with Columns. Dates are
	// serialized here so the repository stays schema-agnostic: date-only
	// fields as "2006-01-02", the per-marketplace timestamp field with time.
	Values() []any

	// NaturalKey returns the dedup key value, or "" when the row has none.
	NaturalKey() string
}

// AmazonReturn is one normalized row of an Amazon FBA return report.
// The natural key is the tracking id.
type AmazonReturn struct {
	OrderID           *string
	TrackingID        *string
	Sku               *string
	Asin              *string
	ProductName       *string
	ReturnReason      *string
	Disposition       *string
	Quantity          *int64
	RefundAmount      *float64
	OrderDate         *time.Time
	ReturnRequestDate *time.Time // date+time
	DeliveryDate      *time.Time
	FulfillmentCenter *string
	Carrier           *string
}

func (r *AmazonReturn) Columns() []string {
	return []string{
		"order_id", "tracking_id", "sku", "asin", "product_name",
		"return_reason", "disposition", "quantity", "refund_amount",
		"order_date", "return_request_date", "delivery_date",
		"fulfillment_center", "carrier",
	}
}

func (r *AmazonReturn) Values() []any {
	return []any{
		strVal(r.OrderID), strVal(r.TrackingID), strVal(r.Sku), strVal(r.Asin),
		strVal(r.ProductName), strVal(r.ReturnReason), strVal(r.Disposition),
		intVal(r.Quantity), floatVal(r.RefundAmount),
		dateVal(r.OrderDate), dateTimeVal(r.ReturnRequestDate), dateVal(r.DeliveryDate),
		strVal(r.FulfillmentCenter), strVal(r.Carrier),
	}
}

func (r *AmazonReturn) NaturalKey() string {
	if r.TrackingID == nil {
		return ""
	}
	return *r.TrackingID
}

// FlipkartReturn is one normalized row of a Flipkart returns report.
// The natural key is the tracking id.
type FlipkartReturn struct {
	OrderID           *string
	OrderItemID       *string
	TrackingID        *string
	Sku               *string
	ProductTitle      *string
	Fsn               *string
	ReturnType        *string
	ReturnSubReason   *string
	Quantity          *int64
	RefundAmount      *float64
	OrderDate         *time.Time
	ReturnRequestedAt *time.Time // date+time
	DeliveredDate     *time.Time
	LogisticsPartner  *string
}

func (r *FlipkartReturn) Columns() []string {
	return []string{
		"order_id", "order_item_id", "tracking_id", "sku", "product_title",
		"fsn", "return_type", "return_sub_reason", "quantity", "refund_amount",
		"order_date", "return_requested_at", "delivered_date", "logistics_partner",
	}
}

func (r *FlipkartReturn) Values() []any {
	return []any{
		strVal(r.OrderID), strVal(r.OrderItemID), strVal(r.TrackingID),
		strVal(r.Sku), strVal(r.ProductTitle), strVal(r.Fsn),
		strVal(r.ReturnType), strVal(r.ReturnSubReason),
		intVal(r.Quantity), floatVal(r.RefundAmount),
		dateVal(r.OrderDate), dateTimeVal(r.ReturnRequestedAt), dateVal(r.DeliveredDate),
		strVal(r.LogisticsPartner),
	}
}

func (r *FlipkartReturn) NaturalKey() string {
	if r.TrackingID == nil {
		return ""
	}
	return *r.TrackingID
}

// MeeshoReturn is one normalized row of a Meesho returns report.
// Meesho files carry no reliable AWB for every row, so the natural key is
// the sub-order number.
type MeeshoReturn struct {
	SubOrderID           *string
	AwbNumber            *string
	Sku                  *string
	ProductName          *string
	Variation            *string
	Quantity             *int64
	ReturnType           *string
	ReturnReason         *string
	DetailedReason       *string
	CourierPartner       *string
	OrderDate            *time.Time
	ReturnCreatedAt      *time.Time // date+time
	ExpectedDeliveryDate *time.Time
}

func (r *MeeshoReturn) Columns() []string {
	return []string{
		"suborder_id", "awb_number", "sku", "product_name", "variation",
		"quantity", "return_type", "return_reason", "detailed_reason",
		"courier_partner", "order_date", "return_created_at", "expected_delivery_date",
	}
}

func (r *MeeshoReturn) Values() []any {
	return []any{
		strVal(r.SubOrderID), strVal(r.AwbNumber), strVal(r.Sku),
		strVal(r.ProductName), strVal(r.Variation), intVal(r.Quantity),
		strVal(r.ReturnType), strVal(r.ReturnReason), strVal(r.DetailedReason),
		strVal(r.CourierPartner),
		dateVal(r.OrderDate), dateTimeVal(r.ReturnCreatedAt), dateVal(r.ExpectedDeliveryDate),
	}
}

func (r *MeeshoReturn) NaturalKey() string {
	if r.SubOrderID == nil {
		return ""
	}
	return *r.SubOrderID
}

func strVal(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func intVal(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}

func floatVal(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func dateVal(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func dateTimeVal(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateTimeLayout)
}
