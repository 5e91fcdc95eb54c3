package smsparser

import (
	"strings"

	"paisabook/internal/models"
)

// categoryRule pairs a spend category with the merchant keywords that map to
// it. Rules are checked in order and the first keyword hit wins, so broader
// buckets sit lower in the list.
type categoryRule struct {
	categoryID int
	keywords   []string
}

var categoryRules = []categoryRule{
	{models.CategoryFood, []string{
		"swiggy", "zomato", "eatclub", "dominos", "pizza", "mcdonald", "kfc",
		"burger", "biryani", "restaurant", "cafe", "bakery", "dhaba", "food",
	}},
	{models.CategoryTransport, []string{
		"uber", "ola cab", "olacabs", "rapido", "irctc", "redbus", "metro",
		"petrol", "fuel", "indigo", "air india", "vistara", "fastag", "parking",
	}},
	{models.CategoryEntertainment, []string{
		"netflix", "hotstar", "spotify", "prime video", "bookmyshow", "pvr",
		"inox", "playstation", "steam", "gaming",
	}},
	{models.CategoryShopping, []string{
		"amazon", "flipkart", "myntra", "ajio", "nykaa", "meesho", "croma",
		"reliance digital", "decathlon", "ikea", "dmart", "bigbasket", "zepto",
	}},
	{models.CategoryBills, []string{
		"electricity", "airtel", "jio", "vodafone", "bsnl", "broadband",
		"recharge", "postpaid", "prepaid", "dth", "tneb", "bescom", "water bill",
		"gas bill", "lpg",
	}},
	{models.CategoryHealth, []string{
		"pharmacy", "apollo", "medplus", "pharmeasy", "1mg", "netmeds",
		"hospital", "clinic", "diagnostic", "dental", "practo",
	}},
	{models.CategoryEducation, []string{
		"udemy", "coursera", "unacademy", "byjus", "school", "college",
		"tuition", "exam fee", "course fee",
	}},
}

// classifyCategory maps merchant and description text onto a spend category
// by keyword lookup. Matching is case-insensitive substring containment over
// the two fields joined; no keyword hit lands in Other. Misclassification is
// expected and cheap to fix, since users can recategorize any transaction.
func classifyCategory(merchant, description string) int {
	text := strings.ToLower(merchant + " " + description)
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.categoryID
			}
		}
	}
	return models.CategoryOther
}
