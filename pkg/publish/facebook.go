package publish

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

type facebookPublisher struct {
	httpClient *http.Client
	graphURL   string
}

// NewFacebookPublisher creates the Facebook publisher. Posts land on the
// user's feed; page posting uses the per-page tokens stored on the account.
func NewFacebookPublisher(opts ...PublisherOption) Publisher {
	o := newPublisherOptions("https://graph.facebook.com", opts...)
	return &facebookPublisher{httpClient: o.httpClient, graphURL: o.apiBaseURL}
}

func (p *facebookPublisher) Platform() social.Platform { return social.PlatformFacebook }

func (p *facebookPublisher) Publish(ctx context.Context, accessToken string, post social.Post) social.PublishResult {
	form := url.Values{"message": {post.Content}}
	if post.Link != "" {
		form.Set("link", post.Link)
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := postForm(ctx, p.httpClient, p.graphURL+"/me/feed", accessToken, form, &out); err != nil {
		return social.Failure(social.PlatformFacebook, err)
	}

	return social.PublishResult{
		Platform: social.PlatformFacebook,
		Success:  true,
		PostID:   out.ID,
		PostURL:  "https://www.facebook.com/" + out.ID,
	}
}

var _ Publisher = (*facebookPublisher)(nil)
