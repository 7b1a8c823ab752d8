package constants

// Keyword tables used by the field extraction engine. Matching is
// case-insensitive and bounded by non-alphanumeric characters.

// JobTitleTokens mark a line as a job title.
var JobTitleTokens = []string{
	"ceo", "cto", "cfo", "coo",
	"director", "manager", "engineer", "developer", "designer",
	"consultant", "analyst", "executive", "president", "vice president", "vp",
	"head", "lead", "senior", "junior", "associate", "specialist",
	"coordinator", "administrator", "officer",
	"founder", "co-founder", "owner", "partner",
}

// AddressKeywords mark a line as part of a postal address.
var AddressKeywords = []string{
	"street", "st.", "avenue", "ave", "road", "rd", "boulevard", "blvd",
	"suite", "floor", "building", "city", "state", "zip", "country",
}

// CompanySuffixes mark a line as a company name.
var CompanySuffixes = []string{
	"inc", "ltd", "llc", "corp", "corporation", "company", "co.",
	"group", "technologies", "solutions", "services", "enterprises",
}
