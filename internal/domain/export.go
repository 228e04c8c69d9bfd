package domain

// ExportTable is the availability table shown on the results page:
// one row per attendee and one column per derived weekend.
type ExportTable struct {
	Weekends []Weekend
	Rows     []ExportRow
}

// ExportRow is a single attendee line of the availability table.
//
// Regions holds display names, resolved through the catalog (raw id when the
// catalog does not know it). Available is aligned index-for-index with
// ExportTable.Weekends.
type ExportRow struct {
	AttendeeName string
	Location     string
	Regions      []string
	Available    []bool
}
