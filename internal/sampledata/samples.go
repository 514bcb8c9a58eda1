// Package sampledata ships a static collection of example tickets for
// demos and manual testing.
package sampledata

// Sample is one example support ticket.
type Sample struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Tickets returns the built-in example tickets.
func Tickets() []Sample {
	return []Sample{
		{
			Label: "Locked out of account",
			Text:  "Hi, this is Sarah Chen. I can't log into my account since this morning, it says my password is wrong even after resetting it twice. I have a client demo in an hour, this is urgent!",
		},
		{
			Label: "Duplicate charge",
			Text:  "I was charged twice for my subscription this month. Invoice #48213 appears two times on my credit card statement. Please refund the duplicate charge.",
		},
		{
			Label: "Slow dashboard",
			Text:  "The analytics dashboard has been loading very slowly for the past few days. Charts take 30+ seconds to render. Not blocking us, but it's annoying.",
		},
		{
			Label: "Deleted project data",
			Text:  "One of our admins accidentally deleted the Q3 project workspace yesterday evening. Is there any way to recover the data? We don't have a recent export. - Miguel",
		},
		{
			Label: "Plan upgrade question",
			Text:  "Hello, we're currently on the Starter plan and are considering the Business tier. Does it include SSO and what would the migration look like for our 40 users?",
		},
		{
			Label: "Rename organization",
			Text:  "Our company rebranded and I need to change the organization name and billing email on the account. Who can help with that? Thanks, Priya.",
		},
	}
}
