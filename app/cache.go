package app

// FeedCache invalidates cached timeline pages so feeds reflect a new or
// edited status after a successful submission.
type FeedCache interface {
	Invalidate(keys ...string)
}
