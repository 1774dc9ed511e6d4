package types

// MissingValue is reported for any field the upstream recipe row omits
const MissingValue = "N/A"

// ManualStepSlots is the number of numbered MANUALnn / MANUAL_IMGnn pairs in a recipe row
const ManualStepSlots = 20

// ManualStep is one cooking step, optionally illustrated
type ManualStep struct {
	Step  string `json:"step"`
	Image string `json:"image,omitempty"`
}

// RecipeRecord is the flattened recipe returned to clients
type RecipeRecord struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	ImageURL    string       `json:"imageUrl"`
	ImageURL2   string       `json:"imageUrl2"`
	Description string       `json:"description"`
	ManualSteps []ManualStep `json:"manualSteps"`
	Ingredients string       `json:"ingredients"`
	Tip         string       `json:"tip"`
	Category    string       `json:"category"`
}

// IngredientsResponse is the body returned by the receipt endpoint
type IngredientsResponse struct {
	Ingredients string `json:"ingredients"`
}

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
