package publish

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

// TweetMaxLength is the platform character limit enforced before any network I/O.
const TweetMaxLength = 280

type twitterPublisher struct {
	httpClient *http.Client
	apiURL     string
}

// NewTwitterPublisher creates the Twitter/X publisher.
func NewTwitterPublisher(opts ...PublisherOption) Publisher {
	o := newPublisherOptions("https://api.twitter.com", opts...)
	return &twitterPublisher{httpClient: o.httpClient, apiURL: o.apiBaseURL}
}

func (p *twitterPublisher) Platform() social.Platform { return social.PlatformTwitter }

func (p *twitterPublisher) Publish(ctx context.Context, accessToken string, post social.Post) social.PublishResult {
	if utf8.RuneCountInString(post.Content) > TweetMaxLength {
		return social.Failure(social.PlatformTwitter, ErrContentTooLong)
	}

	text := post.Content
	if post.Link != "" {
		text += " " + post.Link
	}

	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	body := map[string]string{"text": text}
	if err := doJSON(ctx, p.httpClient, http.MethodPost, p.apiURL+"/2/tweets", accessToken, body, &out); err != nil {
		return social.Failure(social.PlatformTwitter, err)
	}

	return social.PublishResult{
		Platform: social.PlatformTwitter,
		Success:  true,
		PostID:   out.Data.ID,
		PostURL:  "https://twitter.com/i/web/status/" + out.Data.ID,
	}
}

var _ Publisher = (*twitterPublisher)(nil)
