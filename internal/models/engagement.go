package models

// FallbackAvatar is rendered for comment authors without a profile image.
const FallbackAvatar = "https://i.pravatar.cc/100"

// DeletedAuthorName is rendered when a comment or post author no longer resolves.
const DeletedAuthorName = "Deleted user"

// ViewerLabel replaces the author name on content written by the viewer.
const ViewerLabel = "You"

// Engagement holds per-post counters for one viewer. IsLiked is 1 or 0.
type Engagement struct {
	LikeCount    int64 `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`
	IsLiked      int   `json:"isLiked"`
}

// Identity is the public face of an author.
type Identity struct {
	ID           uint   `json:"_id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
}

// CommentNode is a comment decorated with its author and its own reply forest.
type CommentNode struct {
	Comment
	Name         string         `json:"name"`
	ProfileImage string         `json:"profileImage"`
	Replies      []*CommentNode `json:"replies"`
}

// FeedPost is a post enriched for feed rendering. Image shadows the embedded
// media list with its first entry; the full list moves to Images.
type FeedPost struct {
	Post
	Image            *string  `json:"image"`
	Images           []string `json:"images"`
	UserName         string   `json:"user_name"`
	UserProfileImage string   `json:"user_profileImage"`
	Engagement
}

// StatusEntry is one account's latest story in the status strip.
type StatusEntry struct {
	ID           uint   `json:"_id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage"`
	PostID       uint   `json:"post_id"`
	Engagement
}

// HomeFeed is the composite home response. Nil sections render as null and only
// occur when section isolation is enabled.
type HomeFeed struct {
	StatusList     []StatusEntry `json:"statusList"`
	RecentPosts    []FeedPost    `json:"recentPosts"`
	SuggestedUsers []Identity    `json:"suggestedUsers"`
	RandomPosts    []FeedPost    `json:"randomPosts"`
	Reels          []FeedPost    `json:"reels"`
	MorePosts      []FeedPost    `json:"morePosts"`
	FinalPosts     []FeedPost    `json:"finalPosts"`
}

// Profile is a customer with derived social counters and their media.
type Profile struct {
	Customer  *Customer  `json:"customer"`
	Followers int64      `json:"followers"`
	Following int64      `json:"following"`
	Posts     []FeedPost `json:"posts"`
	Reels     []FeedPost `json:"reels"`
}
