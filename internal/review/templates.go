package review

// Decision operation tokens accepted by Decide.
const (
	OpAccept  = "accept"
	OpDecline = "decline"
)

// Notification templates. The same body is used for the in-app message and
// the email; %s is the applicant's username.
const (
	acceptMessageTemplate = "dear %s, your authorship application has been accepted. " +
		"you can now publish entries directly. welcome aboard."

	declineMessageTemplate = "dear %s, your authorship application has been declined and " +
		"your published entries have been removed. you may apply again later."

	acceptMailSubject  = "your authorship application has been accepted"
	declineMailSubject = "your authorship application has been declined"
)
