package publish

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/publishkit/pkg/social"
)

type linkedinPublisher struct {
	httpClient *http.Client
	apiURL     string
}

// NewLinkedInPublisher creates the LinkedIn publisher.
func NewLinkedInPublisher(opts ...PublisherOption) Publisher {
	o := newPublisherOptions("https://api.linkedin.com", opts...)
	return &linkedinPublisher{httpClient: o.httpClient, apiURL: o.apiBaseURL}
}

func (p *linkedinPublisher) Platform() social.Platform { return social.PlatformLinkedIn }

func (p *linkedinPublisher) Publish(ctx context.Context, accessToken string, post social.Post) social.PublishResult {
	// The UGC API needs the author URN, which only the userinfo endpoint reveals.
	var me struct {
		Sub string `json:"sub"`
	}
	if err := doJSON(ctx, p.httpClient, http.MethodGet, p.apiURL+"/v2/userinfo", accessToken, nil, &me); err != nil {
		return social.Failure(social.PlatformLinkedIn, fmt.Errorf("resolve linkedin member: %w", err))
	}

	text := post.Content
	if post.Link != "" {
		text += "\n" + post.Link
	}

	body := map[string]any{
		"author":         "urn:li:person:" + me.Sub,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]string{"text": text},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]string{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := doJSON(ctx, p.httpClient, http.MethodPost, p.apiURL+"/v2/ugcPosts", accessToken, body, &out); err != nil {
		return social.Failure(social.PlatformLinkedIn, err)
	}

	return social.PublishResult{
		Platform: social.PlatformLinkedIn,
		Success:  true,
		PostID:   out.ID,
		PostURL:  "https://www.linkedin.com/feed/update/" + out.ID,
	}
}

var _ Publisher = (*linkedinPublisher)(nil)
