package submission

import (
	"fmt"
	"strings"
)

type SuggestRequest struct {
	Name       string   `json:"name"`
	Location   string   `json:"location"`
	SquareFeet int      `json:"square_feet"`
	Amenities  []string `json:"amenities"`
}

// SuggestDescription drafts a listing description from the basic form details.
// The output is deterministic and always longer than the 50-character minimum.
func SuggestDescription(req SuggestRequest) string {
	amenitiesText := "This property is a blank canvas, ready for you to make it your own."
	if len(req.Amenities) > 0 {
		amenitiesText = fmt.Sprintf(
			"Boasting desirable amenities such as %s, this property ensures a comfortable and convenient stay.",
			strings.Join(req.Amenities, ", "),
		)
	}

	text := fmt.Sprintf(
		"Experience the charm of %s. Nestled in the heart of %s, this location offers both tranquility and convenience. "+
			"Spanning an impressive %d square feet, there is ample space for relaxation and entertainment. "+
			"%s Whether you're seeking a peaceful retreat or a base for your adventures, this property is the perfect choice. "+
			"Book your unforgettable stay today!",
		req.Name, req.Location, req.SquareFeet, amenitiesText,
	)
	return strings.Join(strings.Fields(text), " ")
}
