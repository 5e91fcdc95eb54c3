package models

// CategoryKind represents the kind of category
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// Fixed category identifiers. The catalog is a closed set: transactions and
// budgets reference these IDs directly rather than a per-user categories table.
const (
	CategorySalary        = 0
	CategoryBusiness      = 1
	CategoryInvestments   = 2
	CategoryGifts         = 3
	CategoryOtherIncome   = 4
	CategoryFood          = 5
	CategoryTransport     = 6
	CategoryEntertainment = 7
	CategoryShopping      = 8
	CategoryBills         = 9
	CategoryHealth        = 10
	CategoryEducation     = 11
	CategoryOther         = 12
)

// Category describes one entry in the fixed category catalog.
type Category struct {
	ID   int          `json:"id"`
	Name string       `json:"name"`
	Kind CategoryKind `json:"kind"`
	Icon string       `json:"icon"`
}

// catalog is ordered by ID; IDs 0-4 are income, 5-12 expense.
var catalog = []Category{
	{ID: CategorySalary, Name: "Salary", Kind: CategoryKindIncome, Icon: "briefcase"},
	{ID: CategoryBusiness, Name: "Business", Kind: CategoryKindIncome, Icon: "storefront"},
	{ID: CategoryInvestments, Name: "Investments", Kind: CategoryKindIncome, Icon: "trending-up"},
	{ID: CategoryGifts, Name: "Gifts", Kind: CategoryKindIncome, Icon: "gift"},
	{ID: CategoryOtherIncome, Name: "Other Income", Kind: CategoryKindIncome, Icon: "wallet"},
	{ID: CategoryFood, Name: "Food & Dining", Kind: CategoryKindExpense, Icon: "restaurant"},
	{ID: CategoryTransport, Name: "Transport", Kind: CategoryKindExpense, Icon: "car"},
	{ID: CategoryEntertainment, Name: "Entertainment", Kind: CategoryKindExpense, Icon: "film"},
	{ID: CategoryShopping, Name: "Shopping", Kind: CategoryKindExpense, Icon: "cart"},
	{ID: CategoryBills, Name: "Bills & Utilities", Kind: CategoryKindExpense, Icon: "receipt"},
	{ID: CategoryHealth, Name: "Health", Kind: CategoryKindExpense, Icon: "medkit"},
	{ID: CategoryEducation, Name: "Education", Kind: CategoryKindExpense, Icon: "school"},
	{ID: CategoryOther, Name: "Other", Kind: CategoryKindExpense, Icon: "ellipsis-horizontal"},
}

// Categories returns a copy of the full catalog.
func Categories() []Category {
	out := make([]Category, len(catalog))
	copy(out, catalog)
	return out
}

// CategoriesByKind returns the catalog entries of the given kind.
func CategoriesByKind(kind CategoryKind) []Category {
	var out []Category
	for _, c := range catalog {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// CategoryByID looks up a catalog entry by ID.
func CategoryByID(id int) (Category, bool) {
	if !ValidCategoryID(id) {
		return Category{}, false
	}
	return catalog[id], true
}

// ValidCategoryID reports whether id is part of the catalog.
func ValidCategoryID(id int) bool {
	return id >= 0 && id < len(catalog)
}

// CategoryName returns the display name for id, or "Other" for unknown IDs.
func CategoryName(id int) string {
	if c, ok := CategoryByID(id); ok {
		return c.Name
	}
	return "Other"
}

// CategoryKindOf returns the kind for id. Unknown IDs are treated as expense,
// matching the classifier's fallback to CategoryOther.
func CategoryKindOf(id int) CategoryKind {
	if c, ok := CategoryByID(id); ok {
		return c.Kind
	}
	return CategoryKindExpense
}
