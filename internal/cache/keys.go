package cache

import (
	"fmt"
	"net/url"
	"time"
)

// FeedNamespace is the key prefix shared by every cached feed read.
// It is the unit of bulk invalidation: any mutation that can change
// feed content purges the whole namespace.
const FeedNamespace = "posts-feed:"

// noSearchSentinel marks an absent search parameter. Absent parameters
// are rendered, not omitted, so key shape never varies with which
// optional parameters are present.
const noSearchSentinel = "-"

// ListTTL is the default lifetime of a cached feed payload. It is the
// hard upper bound on staleness when invalidation is skipped or races.
const ListTTL = 5 * time.Minute

// FeedListKey derives the deterministic cache key for a feed listing
// query. Identical parameter tuples always map to the same key. The
// variable-length search term goes last, escaped, so it cannot collide
// with the fixed-position numeric fields.
func FeedListKey(search string, offset, limit int, viewerID uint) string {
	term := noSearchSentinel
	if search != "" {
		term = "q=" + url.QueryEscape(search)
	}
	return fmt.Sprintf("%slist:%d:%d:%d:%s", FeedNamespace, viewerID, offset, limit, term)
}

// FeedDetailKey derives the cache key for a single post's feed entry.
// Detail keys share the feed namespace so coarse purges cover them too.
func FeedDetailKey(postID, viewerID uint) string {
	return fmt.Sprintf("%sdetail:%d:%d", FeedNamespace, postID, viewerID)
}
