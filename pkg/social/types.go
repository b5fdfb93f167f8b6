package social

import "time"

// AccessToken is a provider credential owned by a single (user, platform) pair.
type AccessToken struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	SavedAt      time.Time `json:"saved_at,omitempty"`
}

// Expired reports whether the token is past its expiry at the given instant.
// Tokens without an expiry timestamp never expire on the client side.
func (t AccessToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// Page is a manageable sub-resource of a connected account (Facebook pages).
type Page struct {
	ID          string   `json:"id" bson:"id"`
	Name        string   `json:"name" bson:"name"`
	AccessToken string   `json:"access_token" bson:"access_token"`
	Category    string   `json:"category,omitempty" bson:"category,omitempty"`
	Tasks       []string `json:"tasks,omitempty" bson:"tasks,omitempty"`
}

// Profile is the normalized user profile returned by a provider.
type Profile struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Username string `json:"username,omitempty" bson:"username,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
}

// Account is a durable record of a connected social account.
type Account struct {
	ID           string     `json:"id" bson:"_id"`
	UserID       string     `json:"user_id" bson:"user_id"`
	Platform     Platform   `json:"platform" bson:"platform"`
	Name         string     `json:"name" bson:"name"`
	Username     string     `json:"username" bson:"username"`
	AccessToken  string     `json:"access_token" bson:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty" bson:"refresh_token,omitempty"`
	ExpiresAt    time.Time  `json:"expires_at" bson:"expires_at"`
	ConnectedAt  time.Time  `json:"connected_at" bson:"connected_at"`
	LastSync     *time.Time `json:"last_sync,omitempty" bson:"last_sync,omitempty"`
	Pages        []Page     `json:"pages,omitempty" bson:"pages,omitempty"`
	Profile      *Profile   `json:"user_info,omitempty" bson:"user_info,omitempty"`

	// SavedLocally marks records written through the degraded local mirror
	// instead of the primary store.
	SavedLocally bool `json:"saved_locally,omitempty" bson:"-"`
}

// Token returns the account credential as an AccessToken.
func (a Account) Token() AccessToken {
	return AccessToken{
		AccessToken:  a.AccessToken,
		RefreshToken: a.RefreshToken,
		ExpiresAt:    a.ExpiresAt,
	}
}

// Post is a composed post targeted at one or more platforms. It is transient:
// it either gets dispatched immediately or converted into a scheduled post.
type Post struct {
	Content     string     `json:"content"`
	Link        string     `json:"link,omitempty"`
	MediaURLs   []string   `json:"media_urls,omitempty"`
	Platforms   []Platform `json:"platforms"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// PublishResult is the outcome of publishing one post to one platform.
type PublishResult struct {
	Platform Platform `json:"platform" bson:"platform"`
	Success  bool     `json:"success" bson:"success"`
	PostID   string   `json:"post_id,omitempty" bson:"post_id,omitempty"`
	PostURL  string   `json:"post_url,omitempty" bson:"post_url,omitempty"`
	Error    string   `json:"error,omitempty" bson:"error,omitempty"`
}

// Failure builds a failed result for the given platform.
func Failure(p Platform, err error) PublishResult {
	return PublishResult{Platform: p, Success: false, Error: err.Error()}
}
