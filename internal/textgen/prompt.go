package textgen

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/pkordes/hike-planner/backend/internal/domain"
)

// longDate renders e.g. "Friday, June 30, 2023".
const longDate = "Monday, January 2, 2006"

var promptTmpl = template.Must(template.New("itinerary").Funcs(template.FuncMap{
	"long": func(t time.Time) string { return t.Format(longDate) },
}).Parse(`Generate a detailed 4-day hiking weekend itinerary for {{.RegionName}} from {{long .WeekendStart}} to {{long .WeekendEnd}}.

Group Information:
{{range .Attendees}}{{if .Location}}- {{.Name}} traveling from {{.Location}}
{{else}}- {{.Name}} (starting location not provided)
{{end}}{{end}}
Please include:
1. Personalized travel recommendations for each attendee (arrival on Friday and departure on Monday)
2. Day-by-day hiking trail recommendations with difficulty levels and approximate hiking times
3. Points of interest along each trail
4. Meal and accommodation suggestions
5. Contingency plans for weather issues

Format the itinerary as follows:

# {{.RegionName}} Hiking Weekend: {{long .WeekendStart}} - {{long .WeekendEnd}}

## Travel Logistics

[Personalized travel recommendations for each attendee: estimated travel times, suggested routes, transportation options]

## Day 1 (Friday): Arrival Day

[Arrival day activities, evening plans and accommodation]

## Day 2 (Saturday): First Hiking Day

[Trail name and difficulty, approximate time and distance, points of interest, meals, evening activities]

## Day 3 (Sunday): Second Hiking Day

[Same format as Day 2]

## Day 4 (Monday): Departure Day

[Morning activities before departure and travel logistics]

## Additional Recommendations

[Bad-weather alternatives, nearby attractions, equipment specific to this region]

Please ensure the itinerary is realistic, taking into account the travel distances from each attendee's starting location and the hiking difficulty appropriate for a group.
`))

// RenderPrompt builds the user prompt for req.
// The region must be part of the catalog; the generator never guesses at a
// destination it does not know.
func RenderPrompt(req domain.ItineraryRequest) (string, error) {
	region, ok := domain.RegionByID(req.RegionID)
	if !ok {
		return "", fmt.Errorf("region %q: %w", req.RegionID, domain.ErrValidation)
	}
	if req.RegionName == "" {
		req.RegionName = region.Name
	}

	var b strings.Builder
	if err := promptTmpl.Execute(&b, req); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
