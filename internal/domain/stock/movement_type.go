package stock

// MovementType classifies a stock mutation
type MovementType string

const (
	MovementStockIn    MovementType = "STOCK_IN"
	MovementSale       MovementType = "SALE"
	MovementReturn     MovementType = "RETURN"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementDamage     MovementType = "DAMAGE"
	MovementTransfer   MovementType = "TRANSFER"
)

// AllMovementTypes lists every valid movement type
var AllMovementTypes = []MovementType{
	MovementStockIn,
	MovementSale,
	MovementReturn,
	MovementAdjustment,
	MovementDamage,
	MovementTransfer,
}

// IsValid reports whether the movement type is a known value
func (t MovementType) IsValid() bool {
	switch t {
	case MovementStockIn, MovementSale, MovementReturn,
		MovementAdjustment, MovementDamage, MovementTransfer:
		return true
	}
	return false
}

// IsIncrease reports whether the type adds to on-hand quantity
func (t MovementType) IsIncrease() bool {
	return t == MovementStockIn || t == MovementReturn
}

// IsDecrease reports whether the type removes from on-hand quantity
func (t MovementType) IsDecrease() bool {
	return t == MovementSale || t == MovementDamage || t == MovementTransfer
}

// IsAbsolute reports whether the quantity is a new absolute level
// rather than a delta
func (t MovementType) IsAbsolute() bool {
	return t == MovementAdjustment
}

func (t MovementType) String() string {
	return string(t)
}
