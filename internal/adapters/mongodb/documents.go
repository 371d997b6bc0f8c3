package mongodb

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/paklog/inventory-ledger/internal/domain/stock"
)

// productStockDocument is the BSON shape of one product_stocks row (spec
// §6.3: "storing the full aggregate document including status breakdown,
// holds, lots, classification, valuation, and version").
type productStockDocument struct {
	SKU                 string                  `bson:"_id"`
	QuantityOnHand       int64                  `bson:"quantityOnHand"`
	QuantityAllocated    int64                  `bson:"quantityAllocated"`
	StockStatusQuantity  map[string]int64        `bson:"stockStatusQuantity"`
	Holds                []holdDocument          `bson:"holds"`
	LotBatches           []lotDocument           `bson:"lotBatches"`
	ABCClassification    *abcClassificationDoc   `bson:"abcClassification,omitempty"`
	Valuation            *valuationDocument      `bson:"valuation,omitempty"`
	Version              int64                  `bson:"version"`
	LastUpdated          time.Time              `bson:"lastUpdated"`
}

type holdDocument struct {
	HoldID    string     `bson:"holdId"`
	HoldType  string     `bson:"holdType"`
	Quantity  int64      `bson:"quantity"`
	Reason    string     `bson:"reason"`
	PlacedBy  string     `bson:"placedBy"`
	PlacedAt  time.Time  `bson:"placedAt"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty"`
	LotNumber *string    `bson:"lotNumber,omitempty"`
	Active    bool       `bson:"active"`
}

type lotDocument struct {
	LotNumber         string     `bson:"lotNumber"`
	ManufactureDate   time.Time  `bson:"manufactureDate"`
	ExpiryDate        *time.Time `bson:"expiryDate,omitempty"`
	Status            string     `bson:"status"`
	Quantity          int64      `bson:"quantity"`
	AllocatedQuantity int64      `bson:"allocatedQuantity"`
}

type abcClassificationDoc struct {
	Class            string     `bson:"class"`
	Criteria         string     `bson:"criteria"`
	AnnualUsageValue string     `bson:"annualUsageValue"`
	ClassifiedAt     time.Time  `bson:"classifiedAt"`
	ValidUntil       *time.Time `bson:"validUntil,omitempty"`
}

type valuationDocument struct {
	Method     string  `bson:"method"`
	UnitCost   string  `bson:"unitCost"`
	TotalValue string  `bson:"totalValue"`
	Currency   string  `bson:"currency"`
}

func fromAggregate(a *stock.Aggregate) productStockDocument {
	statusMap := make(map[string]int64, len(a.StockStatusQuantity))
	for k, v := range a.StockStatusQuantity {
		statusMap[string(k)] = v
	}

	holds := make([]holdDocument, 0, len(a.Holds))
	for _, h := range a.Holds {
		holds = append(holds, holdDocument{
			HoldID:    h.HoldID,
			HoldType:  string(h.HoldType),
			Quantity:  h.Quantity,
			Reason:    h.Reason,
			PlacedBy:  h.PlacedBy,
			PlacedAt:  h.PlacedAt,
			ExpiresAt: h.ExpiresAt,
			LotNumber: h.LotNumber,
			Active:    h.Active,
		})
	}

	lots := make([]lotDocument, 0, len(a.LotBatches))
	for _, l := range a.LotBatches {
		lots = append(lots, lotDocument{
			LotNumber:         l.LotNumber,
			ManufactureDate:   l.ManufactureDate,
			ExpiryDate:        l.ExpiryDate,
			Status:            string(l.Status),
			Quantity:          l.Quantity,
			AllocatedQuantity: l.AllocatedQuantity,
		})
	}

	doc := productStockDocument{
		SKU:                 a.SKU,
		QuantityOnHand:      a.StockLevel.QuantityOnHand,
		QuantityAllocated:   a.StockLevel.QuantityAllocated,
		StockStatusQuantity: statusMap,
		Holds:               holds,
		LotBatches:          lots,
		Version:             a.Version,
		LastUpdated:         a.LastUpdated,
	}

	if a.ABCClassification != nil {
		doc.ABCClassification = &abcClassificationDoc{
			Class:            string(a.ABCClassification.Class),
			Criteria:         a.ABCClassification.Criteria,
			AnnualUsageValue: a.ABCClassification.AnnualUsageValue.String(),
			ClassifiedAt:     a.ABCClassification.ClassifiedAt,
			ValidUntil:       a.ABCClassification.ValidUntil,
		}
	}

	if a.Valuation != nil {
		doc.Valuation = &valuationDocument{
			Method:     string(a.Valuation.Method),
			UnitCost:   a.Valuation.UnitCost.String(),
			TotalValue: a.Valuation.TotalValue.String(),
			Currency:   a.Valuation.Currency,
		}
	}

	return doc
}

func (doc productStockDocument) toAggregate() *stock.Aggregate {
	statusMap := make(map[stock.Status]int64, len(doc.StockStatusQuantity))
	for k, v := range doc.StockStatusQuantity {
		statusMap[stock.Status(k)] = v
	}

	holds := make([]stock.InventoryHold, 0, len(doc.Holds))
	for _, h := range doc.Holds {
		holds = append(holds, stock.InventoryHold{
			HoldID:    h.HoldID,
			HoldType:  stock.HoldType(h.HoldType),
			Quantity:  h.Quantity,
			Reason:    h.Reason,
			PlacedBy:  h.PlacedBy,
			PlacedAt:  h.PlacedAt,
			ExpiresAt: h.ExpiresAt,
			LotNumber: h.LotNumber,
			Active:    h.Active,
		})
	}

	lots := make(map[string]stock.LotBatch, len(doc.LotBatches))
	for _, l := range doc.LotBatches {
		lots[l.LotNumber] = stock.LotBatch{
			LotNumber:         l.LotNumber,
			ManufactureDate:   l.ManufactureDate,
			ExpiryDate:        l.ExpiryDate,
			Status:            stock.LotStatus(l.Status),
			Quantity:          l.Quantity,
			AllocatedQuantity: l.AllocatedQuantity,
		}
	}

	agg := &stock.Aggregate{
		SKU: doc.SKU,
		StockLevel: stock.StockLevel{
			QuantityOnHand:    doc.QuantityOnHand,
			QuantityAllocated: doc.QuantityAllocated,
		},
		StockStatusQuantity: statusMap,
		Holds:               holds,
		LotBatches:          lots,
		Version:             doc.Version,
		LastUpdated:         doc.LastUpdated,
	}

	if doc.ABCClassification != nil {
		usage, _ := decimal.NewFromString(doc.ABCClassification.AnnualUsageValue)
		agg.ABCClassification = &stock.ABCClassification{
			Class:            stock.ABCClass(doc.ABCClassification.Class),
			Criteria:         doc.ABCClassification.Criteria,
			AnnualUsageValue: usage,
			ClassifiedAt:     doc.ABCClassification.ClassifiedAt,
			ValidUntil:       doc.ABCClassification.ValidUntil,
		}
	}

	if doc.Valuation != nil {
		unitCost, _ := decimal.NewFromString(doc.Valuation.UnitCost)
		totalValue, _ := decimal.NewFromString(doc.Valuation.TotalValue)
		agg.Valuation = &stock.InventoryValuation{
			Method:     stock.ValuationMethod(doc.Valuation.Method),
			UnitCost:   unitCost,
			TotalValue: totalValue,
			Currency:   doc.Valuation.Currency,
		}
	}

	return agg
}
