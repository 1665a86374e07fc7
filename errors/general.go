package errors

const (
	UnknownErrorCode = 100_001
	StorageErrorCode = 100_002
)

var UnknownError = new(UnknownErrorCode, "UnknownError", "unexpected error: %v")

// StorageError indicates the store rejected a read or write, any partial change has been rolled back
var StorageError = new(StorageErrorCode, "StorageError", "storage operation failed: %v")
