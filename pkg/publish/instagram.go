package publish

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

type instagramPublisher struct {
	httpClient *http.Client
	graphURL   string
}

// NewInstagramPublisher creates the Instagram publisher. Instagram has no
// text-only posts, so at least one media reference is required; publishing
// uses the Graph container flow (create media container, then publish it).
func NewInstagramPublisher(opts ...PublisherOption) Publisher {
	o := newPublisherOptions("https://graph.instagram.com", opts...)
	return &instagramPublisher{httpClient: o.httpClient, graphURL: o.apiBaseURL}
}

func (p *instagramPublisher) Platform() social.Platform { return social.PlatformInstagram }

func (p *instagramPublisher) Publish(ctx context.Context, accessToken string, post social.Post) social.PublishResult {
	if len(post.MediaURLs) == 0 {
		return social.Failure(social.PlatformInstagram, ErrMediaRequired)
	}

	var me struct {
		ID string `json:"id"`
	}
	if err := doJSON(ctx, p.httpClient, http.MethodGet, p.graphURL+"/me?fields=id", accessToken, nil, &me); err != nil {
		return social.Failure(social.PlatformInstagram, fmt.Errorf("resolve instagram user: %w", err))
	}

	container := url.Values{
		"image_url": {post.MediaURLs[0]},
		"caption":   {post.Content},
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := postForm(ctx, p.httpClient, p.graphURL+"/"+me.ID+"/media", accessToken, container, &created); err != nil {
		return social.Failure(social.PlatformInstagram, fmt.Errorf("create media container: %w", err))
	}

	var published struct {
		ID string `json:"id"`
	}
	form := url.Values{"creation_id": {created.ID}}
	if err := postForm(ctx, p.httpClient, p.graphURL+"/"+me.ID+"/media_publish", accessToken, form, &published); err != nil {
		return social.Failure(social.PlatformInstagram, fmt.Errorf("publish media container: %w", err))
	}

	// The numeric media id is not a shortcode; ask for the canonical permalink.
	postURL := "https://www.instagram.com/"
	var media struct {
		Permalink string `json:"permalink"`
	}
	if err := doJSON(ctx, p.httpClient, http.MethodGet, p.graphURL+"/"+published.ID+"?fields=permalink", accessToken, nil, &media); err == nil && media.Permalink != "" {
		postURL = media.Permalink
	}

	return social.PublishResult{
		Platform: social.PlatformInstagram,
		Success:  true,
		PostID:   published.ID,
		PostURL:  postURL,
	}
}

var _ Publisher = (*instagramPublisher)(nil)
