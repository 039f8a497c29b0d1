package postgrest

// CountMethod selects how PostgREST computes the total row count
// reported in the Content-Range response header.
type CountMethod string

const (
	// CountNone requests no count; the zero value.
	CountNone CountMethod = ""
	// CountExact counts with COUNT(*). Accurate but slow on large tables.
	CountExact CountMethod = "exact"
	// CountPlanned uses the query planner's estimate.
	CountPlanned CountMethod = "planned"
	// CountEstimated uses exact counts below a threshold, planned above it.
	CountEstimated CountMethod = "estimated"
)

// ReturnMethod selects whether mutation endpoints echo affected rows.
type ReturnMethod string

const (
	// ReturnRepresentation returns the affected rows in the response body.
	ReturnRepresentation ReturnMethod = "representation"
	// ReturnMinimal returns only a status code.
	ReturnMinimal ReturnMethod = "minimal"
)

// WriteOptions configures Insert, Update and Delete. The zero value (or a
// nil pointer) means no count and return=representation.
type WriteOptions struct {
	Count     CountMethod
	Returning ReturnMethod
}

// InsertOptions configures Insert. Upsert makes the insert resolve
// duplicate keys by merging, same as calling Upsert.
type InsertOptions struct {
	WriteOptions
	Upsert bool
}

// UpsertOptions configures Upsert. OnConflict names the column(s) the
// server should treat as the unique constraint target.
type UpsertOptions struct {
	WriteOptions
	IgnoreDuplicates bool
	OnConflict       string
}

func (o *WriteOptions) orDefaults() WriteOptions {
	out := WriteOptions{Returning: ReturnRepresentation}
	if o != nil {
		out.Count = o.Count
		if o.Returning != "" {
			out.Returning = o.Returning
		}
	}
	return out
}
