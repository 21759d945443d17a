package sxgraph

// Kind identifies one of the seven dump tables. The set is closed: the dump
// format defines exactly these tables and the schema is hand-authored
// against them.
type Kind int

// The entity kinds, in dump processing order.
const (
	Badge Kind = iota
	Comment
	Post
	PostHistory
	PostLink
	Tag
	User
	numKinds
)

// Kinds lists every entity kind in processing order. Order is fixed for
// reproducible output; correctness does not depend on it since references
// are interned on first touch.
var Kinds = []Kind{Badge, Comment, Post, PostHistory, PostLink, Tag, User}

var kindNames = [numKinds]string{"badge", "comment", "post", "posthistory", "postlink", "tag", "user"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// KindForName returns the Kind whose predicate prefix matches name.
func KindForName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// FileName returns the conventional dump file name for the kind.
func (k Kind) FileName() string {
	return [numKinds]string{"Badges.xml", "Comments.xml", "Posts.xml", "PostHistory.xml", "PostLinks.xml", "Tags.xml", "Users.xml"}[k]
}

// idFields maps each kind to the source attribute establishing row identity.
// Tags are identified by name - the dump cross-references tags by name, not
// by their numeric Id.
var idFields = [numKinds]string{"Id", "Id", "Id", "Id", "Id", "TagName", "Id"}

// fieldMaps translate source XML attribute names to schema predicates, one
// fixed table per kind. Attributes not listed here are skipped by the
// decoder so that future dump-format additions don't break conversion.
var fieldMaps = [numKinds]map[string]string{
	Badge: {
		"UserId":   "badge.user",
		"Name":     "badge.name",
		"Date":     "badge.date",
		"Class":    "badge.class",
		"TagBased": "badge.tag_based",
	},
	Comment: {
		"PostId":          "comment.post",
		"Score":           "comment.score",
		"Text":            "comment.text",
		"CreationDate":    "comment.creation_date",
		"UserId":          "comment.user",
		"UserDisplayName": "comment.user_display_name",
		"ContentLicense":  "comment.content_license",
	},
	Post: {
		"PostTypeId":            "post.type",
		"AcceptedAnswerId":      "post.accepted_answer",
		"ParentId":              "post.parent",
		"CreationDate":          "post.creation_date",
		"DeletionDate":          "post.deletion_date",
		"Score":                 "post.score",
		"ViewCount":             "post.view_count",
		"Body":                  "post.body",
		"OwnerUserId":           "post.owner",
		"OwnerDisplayName":      "post.owner_display_name",
		"LastEditorUserId":      "post.last_editor",
		"LastEditorDisplayName": "post.last_editor_display_name",
		"LastEditDate":          "post.last_edit_date",
		"LastActivityDate":      "post.last_activity_date",
		"Title":                 "post.title",
		"Tags":                  "post.tags",
		"AnswerCount":           "post.answer_count",
		"CommentCount":          "post.comment_count",
		"FavoriteCount":         "post.favorite_count",
		"ClosedDate":            "post.closed_date",
		"CommunityOwnedDate":    "post.community_owned_date",
		"ContentLicense":        "post.content_license",
	},
	PostHistory: {
		"PostHistoryTypeId": "posthistory.type",
		"PostId":            "posthistory.post",
		"RevisionGUID":      "posthistory.revision_guid",
		"CreationDate":      "posthistory.creation_date",
		"UserId":            "posthistory.user",
		"UserDisplayName":   "posthistory.user_display_name",
		"Comment":           "posthistory.comment",
		"Text":              "posthistory.text",
		"ContentLicense":    "posthistory.content_license",
	},
	PostLink: {
		"CreationDate":  "postlink.creation_date",
		"PostId":        "postlink.post",
		"RelatedPostId": "postlink.related_post",
		"LinkTypeId":    "postlink.link_type",
	},
	Tag: {
		"TagName":       "tag.name",
		"Count":         "tag.count",
		"ExcerptPostId": "tag.excerpt_post",
		"WikiPostId":    "tag.wiki_post",
	},
	User: {
		"Reputation":      "user.reputation",
		"CreationDate":    "user.creation_date",
		"DisplayName":     "user.display_name",
		"LastAccessDate":  "user.last_access_date",
		"WebsiteUrl":      "user.website_url",
		"Location":        "user.location",
		"AboutMe":         "user.about_me",
		"Views":           "user.views",
		"UpVotes":         "user.upvotes",
		"DownVotes":       "user.downvotes",
		"ProfileImageUrl": "user.profile_image_url",
		"AccountId":       "user.account_id",
	},
}

// refTargets names the kind a uid predicate points at. The schema text only
// declares "uid"; which identity space the reference lands in is a property
// of the dump format, so it lives here with the other fixed tables.
var refTargets = map[string]Kind{
	"badge.user":           User,
	"comment.post":         Post,
	"comment.user":         User,
	"post.accepted_answer": Post,
	"post.parent":          Post,
	"post.owner":           User,
	"post.last_editor":     User,
	"post.tags":            Tag,
	"posthistory.post":     Post,
	"posthistory.user":     User,
	"postlink.post":        Post,
	"postlink.related_post": Post,
	"tag.excerpt_post":     Post,
	"tag.wiki_post":        Post,
}

// RefTarget returns the entity kind referenced by a uid or [uid] predicate.
func RefTarget(predicate string) (Kind, bool) {
	k, ok := refTargets[predicate]
	return k, ok
}
