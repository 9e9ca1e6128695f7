package utils

// Plan names, ordered by entitlement
const (
	PlanFree     = "free"
	PlanStandard = "standard"
	PlanPro      = "pro"
)

// Billing cycles
const (
	CycleMonthly = "monthly"
	CycleAnnual  = "annual"
)

// AnnualDiscountFactor is the uniform 20% discount applied to annual billing
const AnnualDiscountFactor = 0.8

// Coupon discount types (compared case-insensitively)
const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFlat       = "FLAT"
)

// Session/overall status labels
const (
	StatusExcellent        = "Excellent"
	StatusGood             = "Good"
	StatusNeedsPractice    = "Needs Practice"
	StatusIncomplete       = "Incomplete"
	StatusNeedsImprovement = "Needs Improvement"
)

// Payment providers
const (
	ProviderRazorpay = "RAZORPAY"
	ProviderPayFront = "PAYFRONT"
	ProviderCoupon   = "COUPON" // free-via-coupon upgrades, recorded for audit symmetry
)

// TrainingModules lists every practice module with its own usage counter
var TrainingModules = []string{"english", "daily", "hr", "technical", "company", "gd", "mock"}

// ModuleLabels maps module keys to their human readable names. Unknown
// modules pass through their raw key in analytics output.
var ModuleLabels = map[string]string{
	"english":   "English Practice",
	"daily":     "Daily Practice",
	"hr":        "HR Interview",
	"technical": "Technical Interview",
	"company":   "Company Specific",
	"gd":        "Group Discussion",
	"mock":      "Mock Interview",
}

// IsValidModule reports whether the given key is a known training module
func IsValidModule(module string) bool {
	for _, m := range TrainingModules {
		if m == module {
			return true
		}
	}
	return false
}

// IsValidPlan reports whether the given name is a known plan
func IsValidPlan(plan string) bool {
	return plan == PlanFree || plan == PlanStandard || plan == PlanPro
}

// TechnicalKeywords is the fixed vocabulary used by the interview scorer to
// detect technical depth in an answer corpus. Matched as whole tokens, never
// as substrings of longer words.
var TechnicalKeywords = []string{
	"python", "java", "javascript", "typescript", "golang", "c++",
	"react", "node", "django", "spring", "sql", "nosql", "mongodb",
	"postgres", "redis", "docker", "kubernetes", "aws", "azure", "gcp",
	"microservices", "rest", "graphql", "git", "linux", "algorithm",
	"data structure", "machine learning", "deep learning", "neural network",
	"tensorflow", "pytorch", "nlp", "devops", "ci/cd", "testing",
}

// ProductTerms trigger the technical floor of 5: naming the tool itself or
// generic API talk counts as minimal technical awareness.
var ProductTerms = []string{"fluenzy", "api"}

// FillerWords is the list used for the confidence penalty
var FillerWords = []string{
	"um", "uh", "umm", "uhh", "hmm", "like", "basically", "actually",
	"literally", "okay", "so", "right", "anyway",
}

// HinglishMarkers is a fixed list of Hindi words used by the heuristic
// Hinglish detector that caps grammar and confidence.
var HinglishMarkers = []string{
	"hai", "nahi", "haan", "matlab", "kyunki", "lekin", "aur",
	"mujhe", "mera", "apna", "kaise", "karna", "bahut", "thoda",
}
