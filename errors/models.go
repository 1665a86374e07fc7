package errors

const (
	BookNotFoundErrorCode     = 200_001
	DuplicatedTitleErrorCode  = 200_002
	MatchTypeInvalidErrorCode = 200_003
	InvalidBookDataErrorCode  = 200_004
)

// BookNotFoundError indicates user gives book ID that does not exist
var BookNotFoundError = new(BookNotFoundErrorCode, "BookNotFound", "Book with ID %d is not exist")

// DuplicatedTitleError indicates user adds book using title that already in the catalog
var DuplicatedTitleError = new(DuplicatedTitleErrorCode, "DuplicatedTitle", "Book %s already in the database")

// MatchTypeInvalidError indicates user give invalid or unsupported match type when user search items
var MatchTypeInvalidError = new(MatchTypeInvalidErrorCode, "MatchTypeInvalid", "Match type %d is invalid or unsupported")

// InvalidBookDataError indicates book fields that cannot be stored
var InvalidBookDataError = new(InvalidBookDataErrorCode, "InvalidBookData", "Invalid book data: %s")
