package shared

// DonationStatus defines donation processing states
type DonationStatus string

const (
	DonationStatusPending    DonationStatus = "PENDING"
	DonationStatusProcessing DonationStatus = "PROCESSING"
	DonationStatusCompleted  DonationStatus = "COMPLETED"
	DonationStatusFailed     DonationStatus = "FAILED"
)

// FailureReason defines donation failure categories
type FailureReason string

const (
	FailureReasonRecipientNotFound    FailureReason = "RECIPIENT_NOT_FOUND"
	FailureReasonCurrencyMismatch     FailureReason = "CURRENCY_MISMATCH"
	FailureReasonSelfDonation         FailureReason = "SELF_DONATION"
	FailureReasonInvalidAmount        FailureReason = "INVALID_AMOUNT"
	FailureReasonCreditFailed         FailureReason = "CREDIT_FAILED"
	FailureReasonDonationCommitFailed FailureReason = "DONATION_COMMIT_FAILED"
	FailureReasonUnknownError         FailureReason = "UNKNOWN_ERROR"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
