package logging

// Standardized field names for structured logging. Keeping these consistent
// makes the run logs easy to filter when chasing a single bad ledger line.
const (
	FieldFile       = "file_path"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldLine       = "line"
	FieldAccount    = "account"
	FieldProject    = "project"
	FieldExternalID = "external_id"
	FieldBand       = "band"
	FieldReason     = "reason"
	FieldCount      = "count"
	FieldRunID      = "run_id"
	FieldStage      = "stage"
)
