package domain

import "strings"

// StatusFromToken maps a filter path token to a Status. Unknown or absent
// tokens deliberately fall back to StatusNew: a request without a status
// segment behaves exactly like an explicit request for new tickets.
func StatusFromToken(token string) Status {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "open":
		return StatusOpen
	case "pending":
		return StatusPending
	case "closed":
		return StatusClosed
	default:
		return StatusNew
	}
}

// FilterByStatus returns the tickets matching the given status. An empty
// result is not an error.
func FilterByStatus(tickets []Ticket, status Status) []Ticket {
	filtered := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// ParseTags splits a comma-delimited tag string, trimming whitespace and
// dropping empty entries.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
