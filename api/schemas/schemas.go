// api/schemas/schemas.go
package schemas

// Credentials is the interactive-login authentication input. It is
// interchangeable with a cookie file: a run needs one or the other.
type Credentials struct {
	Email    string
	Password string
}

// Complete reports whether both halves of the credential pair are present.
func (c Credentials) Complete() bool {
	return c.Email != "" && c.Password != ""
}

// MarketingRequest carries the marketing fields used to build the
// generation prompt. ProductName and Slogan are required; the rest are
// included in the prompt only when non-empty.
type MarketingRequest struct {
	ProductName string
	Slogan      string
	Price       string
	Platform    string
	Audience    string
	BrandColors string
}

// GenerationResult is the terminal output of a run. Its JSON shape
// matches the result file consumed by the promoshot web backend, so the
// field names are fixed.
type GenerationResult struct {
	Success   bool   `json:"success"`
	ImagePath string `json:"image_path,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Failure builds a failed result with the given message.
func Failure(msg string) *GenerationResult {
	return &GenerationResult{Success: false, Error: msg}
}
