package events

// Policy declares, per interaction, whether an event is emitted when the
// ledger accepted the fact for the first time and whether one is emitted on
// a repeat of the same fact. The table is deliberate and asymmetric: deletes
// re-announce on every call so downstream caches converge, while unfollow
// and unlike stay silent.
type Policy struct {
	OnFirstApply bool
	OnRepeat     bool
}

// Emission policies by interaction.
var (
	LikePolicy    = Policy{OnFirstApply: true, OnRepeat: false}
	UnlikePolicy  = Policy{OnFirstApply: false, OnRepeat: false}
	CommentPolicy = Policy{OnFirstApply: true, OnRepeat: true}
	SharePolicy   = Policy{OnFirstApply: true, OnRepeat: false}
	DeletePolicy  = Policy{OnFirstApply: true, OnRepeat: true}
	FollowPolicy  = Policy{OnFirstApply: false, OnRepeat: false}
	StoryPolicy   = Policy{OnFirstApply: true, OnRepeat: false}
)

// ShouldEmit reports whether an event should be emitted given whether the
// underlying fact was newly applied.
func (p Policy) ShouldEmit(firstApply bool) bool {
	if firstApply {
		return p.OnFirstApply
	}
	return p.OnRepeat
}
