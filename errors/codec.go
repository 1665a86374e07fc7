package errors

const (
	InvalidLineFormatErrorCode   = 300_001
	UnsupportedFileTypeErrorCode = 300_002
	MissingFileErrorCode         = 300_003
)

// InvalidLineFormatError indicates an import line does not match "Title, Author, Year, [Genre, ...]"
var InvalidLineFormatError = new(InvalidLineFormatErrorCode, "InvalidLineFormat", "Invalid file line format: %q")

// UnsupportedFileTypeError indicates uploaded file extension is not allowed
var UnsupportedFileTypeError = new(UnsupportedFileTypeErrorCode, "UnsupportedFileType", "File %s is not an allowed file type")

var MissingFileError = new(MissingFileErrorCode, "MissingFile", "No file part in the request")
