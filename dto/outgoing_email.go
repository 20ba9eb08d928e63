package dto

// OutgoingEmail is a composed reminder message ready for SMTP submission.
type OutgoingEmail struct {
	From      string
	To        string
	Cc        string
	Subject   string
	BodyText  string
	MessageID string
}

// AllRecipients returns the envelope recipient list: the addressee, the
// optional carbon copy and always the sending identity for the audit trail.
func (e *OutgoingEmail) AllRecipients() []string {
	recipients := []string{e.To}
	if e.Cc != "" {
		recipients = append(recipients, e.Cc)
	}
	recipients = append(recipients, e.From)
	return recipients
}
