package ingest

import (
	"strings"

	"rto-ops-api/internal/model"
)

// Marketplace parameterizes the generic ingestion pipeline for one source.
// The three marketplaces share one pipeline; only the header→field table,
// destination table and natural-key column differ.
type Marketplace struct {
	Name       string
	Table      string
	NaturalKey string // destination column carrying the unique dedup index
	Normalize  func(Row) model.ReturnRecord
}

var marketplaces = map[string]*Marketplace{
	"amazon":   Amazon,
	"flipkart": Flipkart,
	"meesho":   Meesho,
}

// ByName looks up a marketplace config by its URL name (case-insensitive).
func ByName(name string) (*Marketplace, bool) {
	mp, ok := marketplaces[strings.ToLower(name)]
	return mp, ok
}

// Amazon maps FBA customer-returns report columns onto amazon_returns.
// Natural key: tracking id.
var Amazon = &Marketplace{
	Name:       "amazon",
	Table:      "amazon_returns",
	NaturalKey: "tracking_id",
	Normalize:  normalizeAmazon,
}

func normalizeAmazon(row Row) model.ReturnRecord {
	return &model.AmazonReturn{
		OrderID:           normIdentifier(row, "Order ID"),
		TrackingID:        normIdentifier(row, "Tracking ID"),
		Sku:               normString(row, "Merchant SKU", 100),
		Asin:              normString(row, "ASIN", 20),
		ProductName:       normString(row, "Item Name", 255),
		ReturnReason:      normString(row, "Return Reason", 255),
		Disposition:       normString(row, "Detailed Disposition", 100),
		Quantity:          normInt(row, "Return Quantity"),
		RefundAmount:      normFloat(row, "Refunded Amount"),
		OrderDate:         normDate(row, "Order Date"),
		ReturnRequestDate: normDate(row, "Return Request Date"),
		DeliveryDate:      normDate(row, "Return Delivery Date"),
		FulfillmentCenter: normString(row, "Fulfillment Center ID", 50),
		Carrier:           normString(row, "Carrier", 100),
	}
}

// Flipkart maps the seller-hub returns report columns onto flipkart_returns.
// Natural key: tracking id.
var Flipkart = &Marketplace{
	Name:       "flipkart",
	Table:      "flipkart_returns",
	NaturalKey: "tracking_id",
	Normalize:  normalizeFlipkart,
}

func normalizeFlipkart(row Row) model.ReturnRecord {
	return &model.FlipkartReturn{
		OrderID:           normIdentifier(row, "Order ID"),
		OrderItemID:       normIdentifier(row, "Order Item ID"),
		TrackingID:        normIdentifier(row, "Tracking ID"),
		Sku:               normString(row, "SKU", 100),
		ProductTitle:      normString(row, "Product", 255),
		Fsn:               normString(row, "FSN", 20),
		ReturnType:        normString(row, "Return Type", 50),
		ReturnSubReason:   normString(row, "Return Sub Reason", 255),
		Quantity:          normInt(row, "Quantity"),
		RefundAmount:      normFloat(row, "Refund Amount"),
		OrderDate:         normDate(row, "Order Date"),
		ReturnRequestedAt: normDate(row, "Return Requested On"),
		DeliveredDate:     normDate(row, "Delivered On"),
		LogisticsPartner:  normString(row, "Logistics Partner", 100),
	}
}

// Meesho maps the supplier-panel returns report columns onto meesho_returns.
// Natural key: sub-order number (AWB is not present on every row).
var Meesho = &Marketplace{
	Name:       "meesho",
	Table:      "meesho_returns",
	NaturalKey: "suborder_id",
	Normalize:  normalizeMeesho,
}

func normalizeMeesho(row Row) model.ReturnRecord {
	return &model.MeeshoReturn{
		SubOrderID:           normIdentifier(row, "Sub Order No"),
		AwbNumber:            normIdentifier(row, "AWB Number"),
		Sku:                  normString(row, "SKU", 100),
		ProductName:          normString(row, "Product Name", 255),
		Variation:            normString(row, "Variation", 50),
		Quantity:             normInt(row, "Qty"),
		ReturnType:           normString(row, "Type of Return", 50),
		ReturnReason:         normString(row, "Return Reason", 255),
		DetailedReason:       normString(row, "Detailed Return Reason", 255),
		CourierPartner:       normString(row, "Courier Partner", 100),
		OrderDate:            normDate(row, "Order Date"),
		ReturnCreatedAt:      normDate(row, "Return Created Date"),
		ExpectedDeliveryDate: normDate(row, "Expected Delivery Date"),
	}
}
