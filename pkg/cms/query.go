package cms

// Query is a listing query. It implements contenttypes.Query so pre-query
// hooks may adjust it before the host runs it.
type Query struct {
	Admin       bool
	Main        bool
	Archive     bool
	ContentType string
	Status      EntryStatus
	Page        int
	Size        int
}

func (q *Query) IsAdmin() bool     { return q.Admin }
func (q *Query) IsMainQuery() bool { return q.Main }

// IsArchive reports whether q lists the archive of content type key.
func (q *Query) IsArchive(key string) bool {
	return q.Archive && q.ContentType == key
}

func (q *Query) PageSize() int     { return q.Size }
func (q *Query) SetPageSize(n int) { q.Size = n }

func (q *Query) offset() int {
	if q.Page <= 1 || q.Size <= 0 {
		return 0
	}
	return (q.Page - 1) * q.Size
}

// Result is what RunQuery returns.
type Result struct {
	Entries    []*Entry
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}
