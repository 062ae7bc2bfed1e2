package webex

import "strconv"

const AdaptiveCardContentType = "application/vnd.microsoft.card.adaptive"

// ArrivalCard describes the guest an access decision is requested for.
type ArrivalCard struct {
	FullName        string
	Organization    string
	Email           string
	RequestID       string
	DurationMinutes int
}

// Markdown is the fallback text shown by clients that cannot render cards.
func (c ArrivalCard) Markdown() string {
	return "Guest has arrived. " + c.FullName + " from " + c.Organization + " requests guest Wi-Fi access."
}

// Attachment renders the card with Accept and Decline submit actions. Both
// actions submit {action, id, duration}.
func (c ArrivalCard) Attachment() Attachment {
	submit := func(title string, approve bool) map[string]any {
		return map[string]any{
			"type":  "Action.Submit",
			"title": title,
			"data": map[string]any{
				"action":   approve,
				"id":       c.RequestID,
				"duration": c.DurationMinutes,
			},
		}
	}

	fact := func(title, value string) map[string]any {
		return map[string]any{"title": title, "value": value}
	}

	return Attachment{
		ContentType: AdaptiveCardContentType,
		Content: map[string]any{
			"$schema": "http://adaptivecards.io/schemas/adaptive-card.json",
			"type":    "AdaptiveCard",
			"version": "1.2",
			"body": []any{
				map[string]any{
					"type":   "TextBlock",
					"text":   "Guest Has Arrived",
					"size":   "Medium",
					"weight": "Bolder",
				},
				map[string]any{
					"type": "TextBlock",
					"text": c.FullName + " is waiting at the reception and would like to use the guest Wi-Fi.",
					"wrap": true,
				},
				map[string]any{
					"type": "FactSet",
					"facts": []any{
						fact("Name", c.FullName),
						fact("Organization", c.Organization),
						fact("Email", c.Email),
						fact("Access", strconv.Itoa(c.DurationMinutes)+" minutes"),
					},
				},
			},
			"actions": []any{
				submit("Accept", true),
				submit("Decline", false),
			},
		},
	}
}
