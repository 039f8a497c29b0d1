// Package postgrest is a client for PostgREST-compatible REST APIs.
//
// A Client wraps an HTTP transport and exposes per-table query builders.
// Builders accumulate filters, column selections and ordering into the
// pending request and send nothing until Execute is called.
//
//	client := postgrest.NewClient("http://localhost:3000", nil)
//	res, err := client.From("articles").
//		Select("id", "title").
//		Eq("author_id", "42").
//		Order("created_at", &postgrest.OrderOptions{Ascending: false}).
//		Limit(10).
//		Execute(ctx)
//
// Filters use PostgREST operator syntax, col=op.value:
//
//	Parameter         | Description
//	------------------|------------------------------------------------
//	?select=col1,col2 | Select specific columns
//	?order=col.desc   | Order results (supports nullsfirst/nullslast)
//	?limit=100        | Limit number of results
//	?offset=0         | Pagination offset
//	?col=eq.val       | Filter by column equality
//	?col=gt.val       | Filter with greater than comparison
//	?col=in.(a,b,c)   | Filter with value lists
//	?col=is.null      | Filter for null values
//	?or=(a.eq.x,b.lt.y) | Combine filters with logical operators
//
// Mutations (Insert, Upsert, Update, Delete) drive server behavior via
// the Prefer header: count=<exact|planned|estimated>,
// return=<minimal|representation>,
// resolution=<merge-duplicates|ignore-duplicates>.
//
// For more details on the wire protocol, see:
// https://docs.postgrest.org/en/stable/references/api/tables_views.html
package postgrest
