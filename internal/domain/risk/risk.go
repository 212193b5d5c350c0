package risk

// Level is the document risk classification supplied by the model.
type Level string

// Risk levels in ascending order of severity.
const (
	Low      Level = "LOW"
	Medium   Level = "MEDIUM"
	High     Level = "HIGH"
	Critical Level = "CRITICAL"
)

// Levels returns all risk levels in fixed ascending order.
func Levels() []Level {
	return []Level{Low, Medium, High, Critical}
}

// IsValid checks if the level is one of the supported values.
func (l Level) IsValid() bool {
	return l == Low || l == Medium || l == High || l == Critical
}

// IsElevated reports whether the level is HIGH or CRITICAL.
func (l Level) IsElevated() bool {
	return l == High || l == Critical
}

// ParseLevel validates a raw string as a risk level.
func ParseLevel(s string) (Level, bool) {
	l := Level(s)
	return l, l.IsValid()
}

// Category is one of the five risk-profile dimensions.
type Category string

// Risk categories. The set is closed; profiles always carry all five.
const (
	Credit      Category = "credit"
	Market      Category = "market"
	Operational Category = "operational"
	Liquidity   Category = "liquidity"
	Compliance  Category = "compliance"
)

// Categories returns all profile categories in fixed order.
func Categories() []Category {
	return []Category{Credit, Market, Operational, Liquidity, Compliance}
}

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	return c == Credit || c == Market || c == Operational || c == Liquidity || c == Compliance
}

// ComplianceTag identifies a regulatory framework a document relates to.
type ComplianceTag string

// Supported regulatory frameworks.
const (
	BaselIII  ComplianceTag = "BASEL_III"
	DoddFrank ComplianceTag = "DODD_FRANK"
	SOX       ComplianceTag = "SOX"
	GDPR      ComplianceTag = "GDPR"
	AMLKYC    ComplianceTag = "AML_KYC"
	MiFIDII   ComplianceTag = "MIFID_II"
)

// ComplianceTags returns all supported frameworks in fixed order.
func ComplianceTags() []ComplianceTag {
	return []ComplianceTag{BaselIII, DoddFrank, SOX, GDPR, AMLKYC, MiFIDII}
}

// IsValid checks if the tag is one of the supported frameworks.
func (t ComplianceTag) IsValid() bool {
	switch t {
	case BaselIII, DoddFrank, SOX, GDPR, AMLKYC, MiFIDII:
		return true
	}
	return false
}

// ParseComplianceTag validates a raw string as a compliance tag.
func ParseComplianceTag(s string) (ComplianceTag, bool) {
	t := ComplianceTag(s)
	return t, t.IsValid()
}
