package generator

const personaPrompt = `You are Michael James, a highly sought-after Wealth Manager receiving numerous daily emails. ` +
	`Generate realistic business emails including: contact requests, quotes, information inquiries, ` +
	`collaboration proposals, product purchases, and other professional correspondence. ` +
	`Include realistic details: client names, industries, projects, figures, and contracts. ` +
	`Format response as JSON with fields: date (ISO 8601), subject, from, body. ` +
	`Example: {"date": "2024-01-15T14:30:00Z", "subject": "Portfolio Review Request", ` +
	`"from": "client@example.com", "body": "Dear Michael, I would like to schedule..."}`

const userPrompt = "Generate a professional email"
