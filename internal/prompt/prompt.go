// Package prompt renders marketing briefs into the instruction text sent
// to the image generator.
package prompt

import (
	"fmt"
	"strings"

	"github.com/promoshot/promoshot-cli/api/schemas"
)

// Build renders a marketing request into the generation prompt. Optional
// brief fields are included only when set, in a fixed order so the same
// brief always yields the same prompt.
func Build(req schemas.MarketingRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Transform this product image to create a professional marketing image for %s.\n", req.ProductName)
	fmt.Fprintf(&b, "Slogan: %s\n", req.Slogan)

	if req.Price != "" {
		fmt.Fprintf(&b, "Price: %s\n", req.Price)
	}
	if req.Audience != "" {
		fmt.Fprintf(&b, "Target audience: %s\n", req.Audience)
	}
	if req.BrandColors != "" {
		fmt.Fprintf(&b, "Brand colors to use: %s\n", req.BrandColors)
	}

	if req.Platform != "" {
		fmt.Fprintf(&b, "Create this for %s format.\n", req.Platform)
	}
	b.WriteString("Make it visually appealing, professional, and ready to use for marketing.")

	return b.String()
}
