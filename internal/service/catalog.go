package service

type systemTemplate struct {
	Category   string
	Language   string
	Name       string
	Components map[string]interface{}
}

func components(body, footer string, buttons ...map[string]interface{}) map[string]interface{} {
	list := make([]interface{}, 0, len(buttons))
	for _, b := range buttons {
		list = append(list, b)
	}
	return map[string]interface{}{
		"body":    body,
		"footer":  footer,
		"buttons": list,
	}
}

func urlButton(text, url string) map[string]interface{} {
	return map[string]interface{}{"type": "url", "text": text, "url": url}
}

func quickReply(text string) map[string]interface{} {
	return map[string]interface{}{"type": "quick_reply", "text": text}
}

// systemTemplates are pre-approved and copied into a tenant on sync.
var systemTemplates = []systemTemplate{
	{
		Category: "marketing", Language: "en", Name: "Promotional Offer",
		Components: components(
			"Hi {{firstName}}, Special offer just for you! Get {{discount}}% off on {{productName}}. Valid till {{expiryDate}}.",
			"Thank you for your business!",
			urlButton("Shop Now", "{{shopLink}}")),
	},
	{
		Category: "marketing", Language: "en", Name: "Campaign Announcement",
		Components: components(
			"Hi {{firstName}}, We're excited to announce {{campaignName}}! {{description}} Learn more: {{link}}",
			"Made with ❤️ for you",
			urlButton("View Campaign", "{{campaignLink}}")),
	},
	{
		Category: "marketing", Language: "en", Name: "Back in Stock",
		Components: components(
			"Great news {{firstName}}! {{productName}} is back in stock. Available quantity: {{quantity}}.",
			"Shop now before it runs out",
			urlButton("View Product", "{{productLink}}")),
	},
	{
		Category: "utility", Language: "en", Name: "Order Confirmation",
		Components: components(
			"Hi {{customerName}}, Your order #{{orderId}} has been confirmed. Delivery time: {{deliveryTime}}. Total: {{amount}}.",
			"Thank you for ordering",
			urlButton("Track Order", "{{trackingLink}}")),
	},
	{
		Category: "utility", Language: "en", Name: "Order Status Update",
		Components: components(
			"Hi {{customerName}}, Your order #{{orderId}} is {{status}}. Expected delivery: {{deliveryTime}}.",
			"Need help? Contact us",
			urlButton("View Details", "{{detailsLink}}")),
	},
	{
		Category: "utility", Language: "en", Name: "Appointment Reminder",
		Components: components(
			"Hi {{patientName}}, Reminder: You have an appointment on {{appointmentDate}} at {{appointmentTime}} with {{doctorName}}.",
			"Please arrive 10 minutes early",
			quickReply("Confirm"), quickReply("Reschedule")),
	},
	{
		Category: "utility", Language: "en", Name: "Invoice",
		Components: components(
			"Hi {{customerName}}, Your invoice #{{invoiceNumber}} from {{businessName}} for {{amount}} is ready.",
			"Payment due by {{dueDate}}",
			urlButton("View Invoice", "{{invoiceLink}}")),
	},
	{
		Category: "authentication", Language: "en", Name: "OTP Verification",
		Components: components(
			"Hi {{firstName}}, Your verification code is: {{otp}}. This code will expire in {{expiryMinutes}} minutes.",
			"Don't share this code with anyone"),
	},
	{
		Category: "authentication", Language: "en", Name: "Password Reset",
		Components: components(
			"Hi {{firstName}}, Click the link below to reset your password. This link will expire in {{expiryHours}} hours.",
			"If you didn't request this, ignore this message",
			urlButton("Reset Password", "{{resetLink}}")),
	},
	{
		Category: "authentication", Language: "en", Name: "Account Verification",
		Components: components(
			"Hi {{firstName}}, Welcome! Click the link below to verify your account.",
			"You have 24 hours to verify",
			urlButton("Verify Account", "{{verificationLink}}")),
	},
}
