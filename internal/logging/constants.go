package logging

// Field names shared by every component so log lines can be filtered by key.
const (
	FieldKind       = "kind"
	FieldSource     = "source"
	FieldURL        = "url"
	FieldFile       = "file_path"
	FieldRecordID   = "record_id"
	FieldCount      = "count"
	FieldDropped    = "dropped"
	FieldBackend    = "backend"
	FieldKey        = "key"
	FieldToken      = "request_token"
	FieldStatus     = "status"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldOutputFile = "output_file"
	FieldFormat     = "format"
)
