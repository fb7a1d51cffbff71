package chatbot

// DefaultFallback is returned when no FAQ entry matches.
const DefaultFallback = "I'm not sure about that one. Please raise a support ticket and the team will get back to you within one business day."

// DefaultEntries is the portal FAQ set.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Topic:    "billing",
			Keywords: []string{"billing", "payment", "pay", "charge", "charged", "cost", "price"},
			Answer:   "Billing runs monthly in advance. You can see every charge, its period and its status under Billing in your dashboard.",
		},
		{
			Topic:    "invoices",
			Keywords: []string{"invoice", "invoices", "receipt", "pdf", "vat"},
			Answer:   "Invoices are listed under Billing > Invoices. Each one shows its due date and status, and paid invoices include a download link.",
		},
		{
			Topic:    "overdue",
			Keywords: []string{"overdue", "late", "outstanding", "owe", "unpaid"},
			Answer:   "An invoice becomes overdue the day after its due date. Your dashboard shows the total outstanding and how many items are overdue.",
		},
		{
			Topic:    "project_status",
			Keywords: []string{"project", "progress", "status", "website", "update", "launch", "timeline"},
			Answer:   "Every project has a progress percentage and an update feed under Websites. We post an update for every milestone.",
		},
		{
			Topic:    "support",
			Keywords: []string{"support", "help", "ticket", "problem", "issue", "bug", "broken"},
			Answer:   "Open a support ticket from the Support page and the team will respond within one business day. Urgent issues can be marked high priority.",
		},
		{
			Topic:    "referrals",
			Keywords: []string{"referral", "refer", "reward", "friend", "recommend"},
			Answer:   "You can refer a business from the Referrals page. When a referral converts into a client you receive a reward credit on your next bill.",
		},
		{
			Topic:    "account",
			Keywords: []string{"account", "password", "login", "email", "delete", "deletion", "close"},
			Answer:   "Account settings, password changes and account closure are under Account. A closed account stays recoverable for 30 days.",
		},
	}
}
