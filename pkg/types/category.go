package types

// Category classifies a regulatory document by the trade or regime it
// governs.
type Category string

const (
	CategoryBuilding           Category = "building"
	CategoryElectrical         Category = "electrical"
	CategoryPlumbing           Category = "plumbing"
	CategoryHVAC               Category = "hvac"
	CategoryConsumerProtection Category = "consumer-protection"
	CategoryInsurance          Category = "insurance"
	CategorySafety             Category = "safety"
)

// categoryOrder fixes the deterministic sort order used when citations
// share a confidence score.
var categoryOrder = map[Category]int{
	CategoryBuilding:           0,
	CategoryElectrical:         1,
	CategoryPlumbing:           2,
	CategoryHVAC:               3,
	CategoryConsumerProtection: 4,
	CategoryInsurance:          5,
	CategorySafety:             6,
}

// Order returns the category's rank in the fixed building → electrical →
// plumbing → hvac → consumer-protection → insurance → safety ordering.
// Unknown categories sort last.
func (c Category) Order() int {
	if rank, ok := categoryOrder[c]; ok {
		return rank
	}
	return len(categoryOrder)
}

// Valid reports whether the category is one of the recognized values.
func (c Category) Valid() bool {
	_, ok := categoryOrder[c]
	return ok
}
