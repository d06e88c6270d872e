package core

// FailureReason is the machine-readable reason of a rejected command.
// Business failures are results, not errors.
type FailureReason string

const (
	FailureReasonNone                FailureReason = ""
	FailureReasonNotPermitted        FailureReason = "NotPermitted"
	FailureReasonBookNotFound        FailureReason = "BookNotFound"
	FailureReasonNoCopiesAvailable   FailureReason = "NoCopiesAvailable"
	FailureReasonInvalidLoanDuration FailureReason = "InvalidLoanDuration"
	FailureReasonRecordNotFound      FailureReason = "RecordNotFound"
	FailureReasonInvalidTransition   FailureReason = "InvalidTransition"
	FailureReasonAlreadyReturned     FailureReason = "AlreadyReturned"
	FailureReasonNotApproved         FailureReason = "NotApproved"
	FailureReasonInvalidBook         FailureReason = "InvalidBook"
	FailureReasonDuplicateISBN       FailureReason = "DuplicateISBN"
	FailureReasonInvalidImportFile   FailureReason = "InvalidImportFile"
	FailureReasonCopiesOnLoan        FailureReason = "CopiesOnLoan"
	FailureReasonBookHasRecords      FailureReason = "BookHasRecords"
)

var failureMessages = map[FailureReason]string{
	FailureReasonNotPermitted:        "you are not allowed to perform this action",
	FailureReasonBookNotFound:        "the book was not found",
	FailureReasonNoCopiesAvailable:   "no copies of this book are available for borrowing",
	FailureReasonInvalidLoanDuration: "the loan duration is out of range",
	FailureReasonRecordNotFound:      "the borrowing record was not found",
	FailureReasonInvalidTransition:   "the borrowing record is not awaiting approval",
	FailureReasonAlreadyReturned:     "the book has already been returned",
	FailureReasonNotApproved:         "the borrowing record has not been approved and cannot be returned",
	FailureReasonInvalidBook:         "the book data is incomplete or invalid",
	FailureReasonDuplicateISBN:       "a book with this isbn already exists",
	FailureReasonInvalidImportFile:   "the import file is not a csv file with the expected header",
	FailureReasonCopiesOnLoan:        "the total copies cannot be lower than the copies currently on loan",
	FailureReasonBookHasRecords:      "the book has borrowing records and cannot be deleted",
}

// Message returns the human-readable explanation shown to users.
func (r FailureReason) Message() string {
	if msg, ok := failureMessages[r]; ok {
		return msg
	}

	return string(r)
}

// IsNotFound reports whether the reason names a missing entity.
func (r FailureReason) IsNotFound() bool {
	return r == FailureReasonBookNotFound || r == FailureReasonRecordNotFound
}
