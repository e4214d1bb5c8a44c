// File: internal/mwapi/types.go
package mwapi

// The types below mirror the Action API's formatversion=2 JSON. Only the
// fields this tool reads are declared; jsoniter ignores the rest.

// Response is one action=query round trip.
type Response struct {
	BatchComplete bool              `json:"batchcomplete"`
	Continue      map[string]string `json:"continue"`
	Error         *APIError         `json:"error"`
	Query         QueryResult       `json:"query"`
}

// QueryResult carries the list/prop sections a query may populate.
type QueryResult struct {
	Pages               []Page        `json:"pages"`
	Redirects           []Redirect    `json:"redirects"`
	UserContribs        []UserContrib `json:"usercontribs"`
	LogEvents           []RawLogEvent `json:"logevents"`
	Users               []UserInfo    `json:"users"`
	AllDeletedRevisions []DeletedPage `json:"alldeletedrevisions"`
}

// Page is a prop=... result row.
type Page struct {
	PageID     int64          `json:"pageid"`
	Namespace  int            `json:"ns"`
	Title      string         `json:"title"`
	Missing    bool           `json:"missing"`
	Categories []CategoryLink `json:"categories"`
	Revisions  []Revision     `json:"revisions"`
}

// CategoryLink is one entry of prop=categories.
type CategoryLink struct {
	Namespace int    `json:"ns"`
	Title     string `json:"title"`
}

// Redirect records a resolved redirect when redirects=1 is in effect.
type Redirect struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Revision is one prop=revisions row.
type Revision struct {
	RevID         int64    `json:"revid"`
	Timestamp     string   `json:"timestamp"`
	User          string   `json:"user"`
	Comment       string   `json:"comment"`
	CommentHidden bool     `json:"commenthidden"`
	Tags          []string `json:"tags"`
	Slots         Slots    `json:"slots"`
}

// Slots holds revision content under rvslots=main.
type Slots struct {
	Main SlotContent `json:"main"`
}

// SlotContent is the content of a single revision slot.
type SlotContent struct {
	Content string `json:"content"`
}

// UserContrib is one list=usercontribs row.
type UserContrib struct {
	RevID         int64    `json:"revid"`
	User          string   `json:"user"`
	Namespace     int      `json:"ns"`
	Title         string   `json:"title"`
	Timestamp     string   `json:"timestamp"`
	Comment       string   `json:"comment"`
	CommentHidden bool     `json:"commenthidden"`
	Tags          []string `json:"tags"`
}

// RawLogEvent is one list=logevents row.
type RawLogEvent struct {
	LogID         int64          `json:"logid"`
	Namespace     int            `json:"ns"`
	Title         string         `json:"title"`
	Type          string         `json:"type"`
	Action        string         `json:"action"`
	User          string         `json:"user"`
	Timestamp     string         `json:"timestamp"`
	Comment       string         `json:"comment"`
	CommentHidden bool           `json:"commenthidden"`
	Params        LogEventParams `json:"params"`
}

// LogEventParams carries the block-log extras. Expiry is either an ISO
// timestamp or one of the "infinity" spellings; absent for unblocks.
type LogEventParams struct {
	Expiry   string `json:"expiry"`
	Duration string `json:"duration"`
}

// UserInfo is one list=users row.
type UserInfo struct {
	UserID       int64  `json:"userid"`
	Name         string `json:"name"`
	Registration string `json:"registration"`
	Missing      bool   `json:"missing"`
	Invalid      bool   `json:"invalid"`
}

// DeletedPage is one list=alldeletedrevisions row: a page grouping its
// deleted revisions.
type DeletedPage struct {
	Namespace int        `json:"ns"`
	Title     string     `json:"title"`
	Revisions []Revision `json:"revisions"`
}
