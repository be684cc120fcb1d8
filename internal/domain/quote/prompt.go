package quote

import "strings"

// BuildPrompt returns the instruction sent to the vision model together with
// the optional photo.
func BuildPrompt(notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		notes = "(no notes given, work from the photo)"
	}
	return `Analyze the following job description and the attached photo, if any, and prepare a quote: "` + notes + `".

Rules:
1. Estimate prices as net prices, excluding tax.
2. Distinguish material from labor. Set "type" to "` + TypeMaterial + `" or "` + TypeLabor + `".
3. Use a short unit label such as "piece", "m", "m2" or "hour".

Return ONLY a JSON array with no explanation, in this format:
[{"quantity": number, "unit": "piece/hour", "description": "text", "type": "` + TypeMaterial + `/` + TypeLabor + `", "unit_price": number}]`
}
