package mail

const (
	subjectQuoteResponseFmt = "Your quote for %s is ready"
	subjectQuoteIntakeFmt   = "New quote request: %s"
	subjectContactIntakeFmt = "New contact message from %s"
)
